package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"trailer-booking-backend/internal/domain"
	"trailer-booking-backend/internal/service"
)

// ReviewHandler serves the public review endpoints.
type ReviewHandler struct {
	reviews service.ReviewService
}

func NewReviewHandler(reviews service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

func (h *ReviewHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	approved := h.reviews.ListApproved(r.Context())
	if approved == nil {
		approved = []domain.Review{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"reviews": approved})
}

func (h *ReviewHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var review domain.Review
	if err := json.NewDecoder(r.Body).Decode(&review); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.reviews.Submit(r.Context(), &review); err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			payload := map[string]any{"error": vErr.Error()}
			if len(vErr.MissingFields) > 0 {
				payload["missingFields"] = vErr.MissingFields
			}
			respondJSON(w, http.StatusBadRequest, payload)
			return
		}
		respondError(w, http.StatusInternalServerError, "could not submit review")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"received": true,
		"message":  "Thank you! Your review has been submitted for approval.",
	})
}

func (h *ReviewHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/reviews", h.HandleList).Methods(http.MethodGet, http.MethodOptions)
	router.HandleFunc("/api/reviews", h.HandleSubmit).Methods(http.MethodPost)
}
