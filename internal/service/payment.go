package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/webhook"

	"trailer-booking-backend/internal/config"
	"trailer-booking-backend/internal/domain"
	"trailer-booking-backend/internal/logger"
	"trailer-booking-backend/internal/pricing"
)

type stripePaymentService struct {
	cfg config.StripeConfig
}

// NewPaymentService builds the Stripe-backed payment collaborator
func NewPaymentService(cfg config.StripeConfig) PaymentService {
	stripe.Key = cfg.SecretKey
	return &stripePaymentService{cfg: cfg}
}

func (s *stripePaymentService) CreateCheckoutSession(ctx context.Context, booking *domain.BookingRequest, quote *pricing.Quote) (*domain.CheckoutSession, error) {
	description := fmt.Sprintf("%s to %s (%s - %s)\n%s - %s",
		booking.StartDate, booking.EndDate,
		domain.FormatHour(*booking.PickupHour), domain.FormatHour(*booking.DropoffHour),
		quote.Tier, quote.Breakdown)

	params := &stripe.CheckoutSessionParams{
		Params: stripe.Params{
			Context: ctx,
		},
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(s.cfg.SuccessURL),
		CancelURL:          stripe.String(s.cfg.CancelURL),
		CustomerEmail:      stripe.String(booking.Email),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyUSD)),
					// Stripe prices in cents
					UnitAmount: stripe.Int64(quote.Price * 100),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(fmt.Sprintf("%s Rental", booking.Trailer)),
						Description: stripe.String(description),
					},
				},
			},
		},
	}

	// The metadata bag must stay within Stripe's size limit, so the
	// booking travels without attachment payloads; only presence flags
	// survive the round trip.
	bookingJSON, err := json.Marshal(booking.WithoutAttachments())
	if err != nil {
		return nil, fmt.Errorf("failed to encode booking metadata: %w", err)
	}
	params.AddMetadata(metadataBooking, string(bookingJSON))
	params.AddMetadata(metadataPrice, strconv.FormatInt(quote.Price, 10))
	params.AddMetadata(metadataTier, string(quote.Tier))
	params.AddMetadata(metadataBreakdown, quote.Breakdown)
	params.AddMetadata(metadataHasLicense, yesNo(booking.HasDriversLicense()))
	params.AddMetadata(metadataHasInsurance, yesNo(booking.HasProofOfInsurance()))

	logger.ExternalServiceCall("stripe", "CreateCheckoutSession", "trailer", booking.Trailer, "price", quote.Price)
	checkoutSession, err := session.New(params)
	logger.ExternalServiceResult("stripe", "CreateCheckoutSession", err)
	if err != nil {
		return nil, &domain.CollaboratorError{Service: "stripe", Err: err}
	}

	return &domain.CheckoutSession{
		ID:  checkoutSession.ID,
		URL: checkoutSession.URL,
	}, nil
}

func (s *stripePaymentService) VerifyWebhook(payload []byte, signature string) (*domain.PaymentEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, s.cfg.WebhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}

	paymentEvent := &domain.PaymentEvent{
		ID:   event.ID,
		Type: string(event.Type),
	}

	if paymentEvent.Type != checkoutCompletedEvent {
		return paymentEvent, nil
	}

	var checkoutSession stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &checkoutSession); err != nil {
		return nil, fmt.Errorf("failed to decode checkout session from event %s: %w", event.ID, err)
	}

	paymentEvent.SessionID = checkoutSession.ID
	paymentEvent.AmountTotal = checkoutSession.AmountTotal
	paymentEvent.Metadata = checkoutSession.Metadata
	if checkoutSession.PaymentIntent != nil {
		paymentEvent.PaymentIntentID = checkoutSession.PaymentIntent.ID
	}
	return paymentEvent, nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
