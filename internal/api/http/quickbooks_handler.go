package http

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"trailer-booking-backend/internal/logger"
	"trailer-booking-backend/internal/service"
)

// QuickBooksHandler drives the accounting OAuth connection flow. The
// owner visits the connect endpoint once; the provider redirects back to
// the callback which persists the tokens.
type QuickBooksHandler struct {
	accounting service.AccountingService

	mu           sync.Mutex
	pendingState string
}

func NewQuickBooksHandler(accounting service.AccountingService) *QuickBooksHandler {
	return &QuickBooksHandler{accounting: accounting}
}

func (h *QuickBooksHandler) HandleConnect(w http.ResponseWriter, r *http.Request) {
	if h.accounting == nil || !h.accounting.Enabled() {
		respondError(w, http.StatusServiceUnavailable, "accounting integration is not configured")
		return
	}

	state := uuid.NewString()
	h.mu.Lock()
	h.pendingState = state
	h.mu.Unlock()

	url, err := h.accounting.AuthorizationURL(state)
	if err != nil {
		logger.Error("Could not build authorization URL", "error", err)
		respondError(w, http.StatusInternalServerError, "could not start the connection flow")
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

func (h *QuickBooksHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	if h.accounting == nil || !h.accounting.Enabled() {
		respondError(w, http.StatusServiceUnavailable, "accounting integration is not configured")
		return
	}

	query := r.URL.Query()
	code := query.Get("code")
	realmID := query.Get("realmId")
	state := query.Get("state")

	h.mu.Lock()
	expected := h.pendingState
	h.pendingState = ""
	h.mu.Unlock()

	if code == "" || realmID == "" {
		renderCallbackPage(w, http.StatusBadRequest, "Connection Failed",
			"The provider did not return an authorization code.")
		return
	}
	if expected == "" || state != expected {
		renderCallbackPage(w, http.StatusBadRequest, "Connection Failed",
			"The authorization state did not match. Start over from the connect page.")
		return
	}

	if err := h.accounting.HandleCallback(r.Context(), code, realmID); err != nil {
		logger.Error("Accounting connection failed", "error", err)
		renderCallbackPage(w, http.StatusInternalServerError, "Connection Failed",
			"There was an error completing the connection. Try again from the connect page.")
		return
	}

	logger.Info("Accounting integration connected", "realm_id", realmID)
	renderCallbackPage(w, http.StatusOK, "QuickBooks Connected",
		"Your trailer booking system is now connected. Invoices will be created for confirmed bookings. You can close this window.")
}

// renderCallbackPage writes a minimal human-readable page; the callback
// is opened in the owner's browser, not called by the frontend.
func renderCallbackPage(w http.ResponseWriter, status int, title, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, `<html><head><title>%s</title></head>
<body style="font-family: system-ui; padding: 40px; text-align: center;">
<h1>%s</h1><p>%s</p></body></html>`, title, title, message)
}

func (h *QuickBooksHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/quickbooks/connect", h.HandleConnect).Methods(http.MethodGet)
	router.HandleFunc("/api/quickbooks/callback", h.HandleCallback).Methods(http.MethodGet)
}
