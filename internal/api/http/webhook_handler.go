package http

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"trailer-booking-backend/internal/logger"
	"trailer-booking-backend/internal/service"
)

const maxWebhookBodyBytes = 1 << 20

// WebhookHandler receives payment webhook deliveries.
type WebhookHandler struct {
	bookings service.BookingService
}

func NewWebhookHandler(bookings service.BookingService) *WebhookHandler {
	return &WebhookHandler{bookings: bookings}
}

func (h *WebhookHandler) HandleStripeEvent(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "could not read payload")
		return
	}

	signature := r.Header.Get("Stripe-Signature")
	if err := h.bookings.HandlePaymentConfirmed(r.Context(), payload, signature); err != nil {
		// Only a verification failure reaches here; processing faults
		// are swallowed downstream
		logger.Warn("Webhook rejected", "error", err)
		respondError(w, http.StatusBadRequest, "webhook verification failed")
		return
	}

	paymentsConfirmed.Inc()
	respondJSON(w, http.StatusOK, map[string]bool{"received": true})
}

func (h *WebhookHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/stripe-webhook", h.HandleStripeEvent).Methods(http.MethodPost)
}
