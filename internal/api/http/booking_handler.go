package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"trailer-booking-backend/internal/domain"
	"trailer-booking-backend/internal/logger"
	"trailer-booking-backend/internal/service"
)

// maxBookingBodyBytes bounds the request body. Attachments arrive as
// base64 strings inside the JSON document.
const maxBookingBodyBytes = 10 << 20

// BookingHandler serves the public booking submission endpoint.
type BookingHandler struct {
	bookings service.BookingService
}

func NewBookingHandler(bookings service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

func (h *BookingHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBookingBodyBytes)

	var booking domain.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.bookings.SubmitBooking(r.Context(), &booking)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			payload := map[string]any{"error": vErr.Error()}
			if len(vErr.MissingFields) > 0 {
				payload["missingFields"] = vErr.MissingFields
			}
			respondJSON(w, http.StatusBadRequest, payload)
			return
		}
		logger.Error("Booking submission failed", "trailer", booking.Trailer, "error", err)
		respondError(w, http.StatusInternalServerError, "could not create checkout session")
		return
	}

	bookingsSubmitted.Inc()
	respondJSON(w, http.StatusOK, map[string]string{"checkoutUrl": session.URL})
}

func (h *BookingHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/book", h.HandleSubmit).Methods(http.MethodPost, http.MethodOptions)
}
