package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"trailer-booking-backend/internal/security"
	"trailer-booking-backend/internal/service"
)

// Services holds everything the router needs to build its handlers.
type Services struct {
	Bookings   service.BookingService
	Reviews    service.ReviewService
	Accounting service.AccountingService
	Secrets    *security.SecretChecker
	Tokens     security.TokenManager
}

// NewRouter assembles the full HTTP surface: public booking and review
// endpoints, the payment webhook, admin management, the accounting OAuth
// flow, and the operational endpoints.
func NewRouter(svcs Services) *mux.Router {
	router := mux.NewRouter()
	router.Use(RequestIDMiddleware, CORSMiddleware, LoggingMiddleware, MetricsMiddleware)

	NewBookingHandler(svcs.Bookings).RegisterRoutes(router)
	NewWebhookHandler(svcs.Bookings).RegisterRoutes(router)
	NewAdminHandler(svcs.Bookings, svcs.Secrets, svcs.Tokens).RegisterRoutes(router)
	NewReviewHandler(svcs.Reviews).RegisterRoutes(router)
	NewQuickBooksHandler(svcs.Accounting).RegisterRoutes(router)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	return router
}
