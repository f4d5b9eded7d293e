package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"trailer-booking-backend/internal/domain"
	"trailer-booking-backend/internal/logger"
	"trailer-booking-backend/internal/security"
	"trailer-booking-backend/internal/service"
)

// AdminHandler serves the owner's booking management endpoints. Callers
// authenticate with either the shared admin secret or a session token
// obtained from the login endpoint.
type AdminHandler struct {
	bookings service.BookingService
	secrets  *security.SecretChecker
	tokens   security.TokenManager
}

func NewAdminHandler(bookings service.BookingService, secrets *security.SecretChecker, tokens security.TokenManager) *AdminHandler {
	return &AdminHandler{bookings: bookings, secrets: secrets, tokens: tokens}
}

type adminLoginRequest struct {
	Password string `json:"password"`
}

func (h *AdminHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password == "" {
		respondError(w, http.StatusBadRequest, "password is required")
		return
	}

	if !h.secrets.Check(req.Password) {
		logger.Warn("Admin login rejected")
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, expiresAt, err := h.tokens.GenerateAdminToken()
	if err != nil {
		logger.Error("Could not issue admin token", "error", err)
		respondError(w, http.StatusInternalServerError, "could not issue token")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"token":     token,
		"expiresAt": expiresAt.UTC().Format(time.RFC3339),
	})
}

func (h *AdminHandler) HandleListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookings.ListBookings(r.Context())
	if err != nil {
		h.respondAdminError(w, err)
		return
	}
	if bookings == nil {
		bookings = []domain.PersistedBooking{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

func (h *AdminHandler) HandleDeleteBooking(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.bookings.DeleteBooking(r.Context(), id); err != nil {
		h.respondAdminError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *AdminHandler) respondAdminError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrRecordStoreDisabled) {
		respondError(w, http.StatusServiceUnavailable, "record store is not configured")
		return
	}
	logger.Error("Admin operation failed", "error", err)
	respondError(w, http.StatusInternalServerError, "operation failed")
}

// AuthMiddleware admits requests carrying either the shared secret or a
// valid session token as a bearer credential.
func (h *AdminHandler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		credential := bearerCredential(r)
		if credential == "" {
			respondError(w, http.StatusUnauthorized, "missing credentials")
			return
		}

		if !h.secrets.Check(credential) {
			if _, err := h.tokens.ValidateAdminToken(credential); err != nil {
				respondError(w, http.StatusUnauthorized, "invalid credentials")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func bearerCredential(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

func (h *AdminHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/admin/login", h.HandleLogin).Methods(http.MethodPost, http.MethodOptions)

	admin := router.PathPrefix("/api/admin").Subrouter()
	admin.Use(h.AuthMiddleware)
	admin.HandleFunc("/bookings", h.HandleListBookings).Methods(http.MethodGet, http.MethodOptions)
	admin.HandleFunc("/bookings/{id}", h.HandleDeleteBooking).Methods(http.MethodDelete, http.MethodOptions)
}
