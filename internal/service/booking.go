package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"trailer-booking-backend/internal/domain"
	"trailer-booking-backend/internal/logger"
	"trailer-booking-backend/internal/pricing"
	"trailer-booking-backend/internal/repository"
)

// collaboratorTimeout bounds every outbound call made by the workflow.
// Nothing on the hot path retries; a timed-out checkout creation surfaces
// to the caller, a timed-out notification is dropped with a log line.
const collaboratorTimeout = 15 * time.Second

type bookingService struct {
	rates      pricing.RateCard
	payment    PaymentService
	email      EmailService
	accounting AccountingService
	bookings   repository.BookingRepository
	events     repository.ProcessedEventRepository
}

// NewBookingService wires the booking workflow. bookings and events may be
// nil when the record store is not configured; persistence and webhook
// deduplication are then skipped with a warning, matching the tolerant
// behavior of the deployed system.
func NewBookingService(
	rates pricing.RateCard,
	payment PaymentService,
	email EmailService,
	accounting AccountingService,
	bookings repository.BookingRepository,
	events repository.ProcessedEventRepository,
) BookingService {
	return &bookingService{
		rates:      rates,
		payment:    payment,
		email:      email,
		accounting: accounting,
		bookings:   bookings,
		events:     events,
	}
}

func (s *bookingService) SubmitBooking(ctx context.Context, booking *domain.BookingRequest) (*domain.CheckoutSession, error) {
	if missing := booking.MissingFields(); len(missing) > 0 {
		return nil, &domain.ValidationError{MissingFields: missing}
	}

	quote, err := s.rates.QuoteBooking(booking)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownTrailer) {
			return nil, domain.NewValidationError("unknown trailer model")
		}
		return nil, domain.NewValidationError(err.Error())
	}

	// Payment-pending notification is best effort; a failed email must
	// never fail the booking
	emailCtx, cancel := context.WithTimeout(ctx, collaboratorTimeout)
	if err := s.email.SendPendingBookingNotification(emailCtx, booking, quote); err != nil {
		logger.Warn("Failed to send payment-pending notification", "trailer", booking.Trailer, "error", err)
	}
	cancel()

	checkoutCtx, cancel := context.WithTimeout(ctx, collaboratorTimeout)
	defer cancel()
	session, err := s.payment.CreateCheckoutSession(checkoutCtx, booking, quote)
	if err != nil {
		// The one failure the caller must see: without a checkout
		// session the customer cannot pay
		return nil, err
	}

	logger.Info("Checkout session created",
		"session_id", session.ID,
		"trailer", booking.Trailer,
		"tier", quote.Tier,
		"price", quote.Price)
	return session, nil
}

func (s *bookingService) HandlePaymentConfirmed(ctx context.Context, payload []byte, signature string) error {
	event, err := s.payment.VerifyWebhook(payload, signature)
	if err != nil {
		return err
	}

	if event.Type != checkoutCompletedEvent {
		logger.Debug("Ignoring payment event", "type", event.Type, "event_id", event.ID)
		return nil
	}

	// Past this point the payment has already succeeded, so every failure
	// is logged and swallowed: the provider's retry policy must not fire
	// for problems the retry cannot fix.
	booking, payment, ok := reconstructBooking(event)
	if !ok {
		logger.Error("Could not reconstruct booking from session metadata",
			"session_id", event.SessionID, "event_id", event.ID)
		return nil
	}

	if s.events != nil {
		dedupCtx, cancel := context.WithTimeout(ctx, collaboratorTimeout)
		err := s.events.MarkProcessed(dedupCtx, event.SessionID, event.ID)
		cancel()
		switch {
		case errors.Is(err, domain.ErrAlreadyProcessed):
			logger.Info("Duplicate payment event, skipping", "session_id", event.SessionID, "event_id", event.ID)
			return nil
		case err != nil:
			// Claim failed, keep going: a duplicate email beats a
			// dropped confirmation
			logger.Warn("Could not record processed event", "session_id", event.SessionID, "error", err)
		}
	}

	logger.Info("Payment confirmed",
		"session_id", event.SessionID,
		"trailer", booking.Trailer,
		"amount", payment.Amount,
		"payment_id", payment.PaymentID)

	s.persistConfirmedBooking(ctx, booking, payment)

	emailCtx, cancel := context.WithTimeout(ctx, collaboratorTimeout)
	if err := s.email.SendConfirmedBookingNotification(emailCtx, booking, payment); err != nil {
		logger.Warn("Failed to send payment-confirmed notification", "session_id", event.SessionID, "error", err)
	}
	cancel()

	s.createInvoice(ctx, booking, payment)
	return nil
}

func (s *bookingService) persistConfirmedBooking(ctx context.Context, booking *domain.BookingRequest, payment *domain.PaymentInfo) {
	if s.bookings == nil {
		logger.Warn("Record store not configured, skipping booking persistence", "trailer", booking.Trailer)
		return
	}

	persisted := &domain.PersistedBooking{
		Booking:   *booking,
		Status:    domain.BookingStatusConfirmed,
		Tier:      payment.Tier,
		Breakdown: payment.Breakdown,
		Price:     payment.Amount,
		PaymentID: payment.PaymentID,
	}

	storeCtx, cancel := context.WithTimeout(ctx, collaboratorTimeout)
	defer cancel()
	if err := s.bookings.Create(storeCtx, persisted); err != nil {
		logger.Error("Failed to persist confirmed booking", "trailer", booking.Trailer, "error", err)
		return
	}
	logger.Info("Booking persisted", "id", persisted.ID)
}

func (s *bookingService) createInvoice(ctx context.Context, booking *domain.BookingRequest, payment *domain.PaymentInfo) {
	if s.accounting == nil || !s.accounting.Enabled() {
		return
	}

	invoiceCtx, cancel := context.WithTimeout(ctx, collaboratorTimeout)
	defer cancel()
	ref, err := s.accounting.CreateInvoice(invoiceCtx, booking, payment)
	if err != nil {
		if errors.Is(err, domain.ErrNoAccountingToken) {
			logger.Debug("Accounting not connected, skipping invoice")
			return
		}
		logger.Warn("Failed to create invoice", "payment_id", payment.PaymentID, "error", err)
		return
	}
	logger.Info("Invoice created", "invoice_ref", ref, "payment_id", payment.PaymentID)
}

// reconstructBooking rebuilds the booking and payment summary from
// checkout-session metadata. The metadata bag, not the record store, is
// the source of truth here: the booking was never persisted before payment.
func reconstructBooking(event *domain.PaymentEvent) (*domain.BookingRequest, *domain.PaymentInfo, bool) {
	bookingJSON, ok := event.Metadata[metadataBooking]
	if !ok {
		return nil, nil, false
	}

	var booking domain.BookingRequest
	if err := json.Unmarshal([]byte(bookingJSON), &booking); err != nil {
		return nil, nil, false
	}
	if booking.PickupHour == nil || booking.DropoffHour == nil {
		return nil, nil, false
	}

	amount, err := strconv.ParseInt(event.Metadata[metadataPrice], 10, 64)
	if err != nil {
		// Fall back to the provider's total, which is in cents
		amount = event.AmountTotal / 100
	}

	return &booking, &domain.PaymentInfo{
		Amount:    amount,
		PaymentID: event.PaymentIntentID,
		Tier:      event.Metadata[metadataTier],
		Breakdown: event.Metadata[metadataBreakdown],
	}, true
}

func (s *bookingService) ListBookings(ctx context.Context) ([]domain.PersistedBooking, error) {
	if s.bookings == nil {
		return nil, domain.ErrRecordStoreDisabled
	}
	return s.bookings.List(ctx)
}

func (s *bookingService) DeleteBooking(ctx context.Context, id string) error {
	if s.bookings == nil {
		return domain.ErrRecordStoreDisabled
	}
	return s.bookings.Delete(ctx, id)
}
