package service

import (
	"context"

	"trailer-booking-backend/internal/domain"
	"trailer-booking-backend/internal/pricing"
)

// Checkout-session metadata keys. The metadata bag is the source of truth
// when the webhook fires, so everything needed to reconstruct the booking
// travels under these keys.
const (
	metadataBooking      = "bookingData"
	metadataPrice        = "price"
	metadataTier         = "tier"
	metadataBreakdown    = "breakdown"
	metadataHasLicense   = "hasDriversLicense"
	metadataHasInsurance = "hasProofOfInsurance"
)

// checkoutCompletedEvent is the only payment event type the workflow acts on
const checkoutCompletedEvent = "checkout.session.completed"

type BookingService interface {
	// SubmitBooking validates and prices a booking, sends the pending
	// notification, and creates a checkout session for the caller to
	// redirect to
	SubmitBooking(ctx context.Context, booking *domain.BookingRequest) (*domain.CheckoutSession, error)

	// HandlePaymentConfirmed verifies and processes a payment webhook
	// delivery. Once the signature checks out, notification and
	// persistence failures never bubble up; the provider must not retry
	// an event whose payment already succeeded.
	HandlePaymentConfirmed(ctx context.Context, payload []byte, signature string) error

	ListBookings(ctx context.Context) ([]domain.PersistedBooking, error)
	DeleteBooking(ctx context.Context, id string) error
}

type PaymentService interface {
	CreateCheckoutSession(ctx context.Context, booking *domain.BookingRequest, quote *pricing.Quote) (*domain.CheckoutSession, error)
	// VerifyWebhook authenticates a raw webhook delivery and reduces it
	// to a PaymentEvent. Signature failures return domain.ErrInvalidSignature.
	VerifyWebhook(payload []byte, signature string) (*domain.PaymentEvent, error)
}

type EmailService interface {
	SendPendingBookingNotification(ctx context.Context, booking *domain.BookingRequest, quote *pricing.Quote) error
	SendConfirmedBookingNotification(ctx context.Context, booking *domain.BookingRequest, payment *domain.PaymentInfo) error
	SendReviewNotification(ctx context.Context, review *domain.Review) error
	SendAdminNotification(ctx context.Context, subject, body string) error
}

type AccountingService interface {
	Enabled() bool
	AuthorizationURL(state string) (string, error)
	HandleCallback(ctx context.Context, code, realmID string) error
	// CreateInvoice returns the accounting system's invoice reference
	CreateInvoice(ctx context.Context, booking *domain.BookingRequest, payment *domain.PaymentInfo) (string, error)
}

type ReviewService interface {
	ListApproved(ctx context.Context) []domain.Review
	Submit(ctx context.Context, review *domain.Review) error
}
