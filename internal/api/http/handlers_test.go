package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"trailer-booking-backend/internal/domain"
	"trailer-booking-backend/internal/security"
)

// MockBookingService
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) SubmitBooking(ctx context.Context, booking *domain.BookingRequest) (*domain.CheckoutSession, error) {
	args := m.Called(ctx, booking)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CheckoutSession), args.Error(1)
}

func (m *MockBookingService) HandlePaymentConfirmed(ctx context.Context, payload []byte, signature string) error {
	args := m.Called(ctx, payload, signature)
	return args.Error(0)
}

func (m *MockBookingService) ListBookings(ctx context.Context) ([]domain.PersistedBooking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PersistedBooking), args.Error(1)
}

func (m *MockBookingService) DeleteBooking(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockReviewService
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) ListApproved(ctx context.Context) []domain.Review {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.Review)
}

func (m *MockReviewService) Submit(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

const testAdminSecret = "test-admin-secret"

func newTestRouter(bookings *MockBookingService, reviews *MockReviewService) http.Handler {
	return NewRouter(Services{
		Bookings: bookings,
		Reviews:  reviews,
		Secrets:  security.NewSecretChecker(testAdminSecret),
		Tokens:   security.NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour),
	})
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestBookingEndpoint(t *testing.T) {
	t.Run("valid submission returns checkout URL", func(t *testing.T) {
		bookings := new(MockBookingService)
		router := newTestRouter(bookings, new(MockReviewService))

		bookings.On("SubmitBooking", mock.Anything, mock.AnythingOfType("*domain.BookingRequest")).
			Return(&domain.CheckoutSession{ID: "cs_1", URL: "https://checkout.test/cs_1"}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/book", bytes.NewBufferString(`{"trailer":"5 x 10 Utility Trailer"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://checkout.test/cs_1", decodeBody(t, rec)["checkoutUrl"])
	})

	t.Run("missing fields reported with a 400", func(t *testing.T) {
		bookings := new(MockBookingService)
		router := newTestRouter(bookings, new(MockReviewService))

		bookings.On("SubmitBooking", mock.Anything, mock.Anything).
			Return(nil, &domain.ValidationError{MissingFields: []string{"email", "reason"}})

		req := httptest.NewRequest(http.MethodPost, "/api/book", bytes.NewBufferString(`{}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody(t, rec)
		assert.Contains(t, body, "missingFields")
	})

	t.Run("malformed JSON rejected", func(t *testing.T) {
		bookings := new(MockBookingService)
		router := newTestRouter(bookings, new(MockReviewService))

		req := httptest.NewRequest(http.MethodPost, "/api/book", bytes.NewBufferString(`{not json`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		bookings.AssertNotCalled(t, "SubmitBooking", mock.Anything, mock.Anything)
	})

	t.Run("collaborator fault maps to 500", func(t *testing.T) {
		bookings := new(MockBookingService)
		router := newTestRouter(bookings, new(MockReviewService))

		bookings.On("SubmitBooking", mock.Anything, mock.Anything).
			Return(nil, &domain.CollaboratorError{Service: "stripe", Err: assert.AnError})

		req := httptest.NewRequest(http.MethodPost, "/api/book", bytes.NewBufferString(`{}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestWebhookEndpoint(t *testing.T) {
	t.Run("accepted delivery acknowledges", func(t *testing.T) {
		bookings := new(MockBookingService)
		router := newTestRouter(bookings, new(MockReviewService))

		bookings.On("HandlePaymentConfirmed", mock.Anything, []byte(`{"id":"evt_1"}`), "t=1,v1=sig").Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/api/stripe-webhook", bytes.NewBufferString(`{"id":"evt_1"}`))
		req.Header.Set("Stripe-Signature", "t=1,v1=sig")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, decodeBody(t, rec)["received"])
	})

	t.Run("signature failure maps to 400", func(t *testing.T) {
		bookings := new(MockBookingService)
		router := newTestRouter(bookings, new(MockReviewService))

		bookings.On("HandlePaymentConfirmed", mock.Anything, mock.Anything, mock.Anything).
			Return(domain.ErrInvalidSignature)

		req := httptest.NewRequest(http.MethodPost, "/api/stripe-webhook", bytes.NewBufferString(`{}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAdminEndpoints(t *testing.T) {
	t.Run("missing credential rejected", func(t *testing.T) {
		bookings := new(MockBookingService)
		router := newTestRouter(bookings, new(MockReviewService))

		req := httptest.NewRequest(http.MethodGet, "/api/admin/bookings", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		bookings.AssertNotCalled(t, "ListBookings", mock.Anything)
	})

	t.Run("wrong credential rejected", func(t *testing.T) {
		router := newTestRouter(new(MockBookingService), new(MockReviewService))

		req := httptest.NewRequest(http.MethodGet, "/api/admin/bookings", nil)
		req.Header.Set("Authorization", "Bearer wrong-secret")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("shared secret lists bookings", func(t *testing.T) {
		bookings := new(MockBookingService)
		router := newTestRouter(bookings, new(MockReviewService))

		stored := []domain.PersistedBooking{{ID: "doc-1", Status: domain.BookingStatusConfirmed, Price: 30}}
		bookings.On("ListBookings", mock.Anything).Return(stored, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/admin/bookings", nil)
		req.Header.Set("Authorization", "Bearer "+testAdminSecret)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		require.Len(t, body["bookings"], 1)
	})

	t.Run("login token works on admin endpoints", func(t *testing.T) {
		bookings := new(MockBookingService)
		router := newTestRouter(bookings, new(MockReviewService))

		loginReq := httptest.NewRequest(http.MethodPost, "/api/admin/login",
			bytes.NewBufferString(`{"password":"`+testAdminSecret+`"}`))
		loginRec := httptest.NewRecorder()
		router.ServeHTTP(loginRec, loginReq)
		require.Equal(t, http.StatusOK, loginRec.Code)
		token, ok := decodeBody(t, loginRec)["token"].(string)
		require.True(t, ok)
		require.NotEmpty(t, token)

		bookings.On("DeleteBooking", mock.Anything, "doc-9").Return(nil)
		req := httptest.NewRequest(http.MethodDelete, "/api/admin/bookings/doc-9", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, decodeBody(t, rec)["deleted"])
	})

	t.Run("wrong password cannot log in", func(t *testing.T) {
		router := newTestRouter(new(MockBookingService), new(MockReviewService))

		req := httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewBufferString(`{"password":"nope"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("record store disabled maps to 503", func(t *testing.T) {
		bookings := new(MockBookingService)
		router := newTestRouter(bookings, new(MockReviewService))

		bookings.On("ListBookings", mock.Anything).Return(nil, domain.ErrRecordStoreDisabled)

		req := httptest.NewRequest(http.MethodGet, "/api/admin/bookings", nil)
		req.Header.Set("Authorization", "Bearer "+testAdminSecret)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestReviewEndpoints(t *testing.T) {
	t.Run("list approved reviews", func(t *testing.T) {
		reviews := new(MockReviewService)
		router := newTestRouter(new(MockBookingService), reviews)

		approved := []domain.Review{{Name: "Sam", Rating: 5, Trailer: "5 x 10 Utility Trailer", Review: "Great trailer"}}
		reviews.On("ListApproved", mock.Anything).Return(approved)

		req := httptest.NewRequest(http.MethodGet, "/api/reviews", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		require.Len(t, body["reviews"], 1)
	})

	t.Run("invalid submission reported", func(t *testing.T) {
		reviews := new(MockReviewService)
		router := newTestRouter(new(MockBookingService), reviews)

		reviews.On("Submit", mock.Anything, mock.Anything).
			Return(&domain.ValidationError{MissingFields: []string{"rating"}})

		req := httptest.NewRequest(http.MethodPost, "/api/reviews", bytes.NewBufferString(`{"name":"Sam"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("accepted submission acknowledged", func(t *testing.T) {
		reviews := new(MockReviewService)
		router := newTestRouter(new(MockBookingService), reviews)

		reviews.On("Submit", mock.Anything, mock.AnythingOfType("*domain.Review")).Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/api/reviews",
			bytes.NewBufferString(`{"name":"Sam","email":"sam@example.com","rating":5,"review":"Great"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, decodeBody(t, rec)["received"])
	})
}

func TestOperationalEndpoints(t *testing.T) {
	router := newTestRouter(new(MockBookingService), new(MockReviewService))

	t.Run("health check", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", decodeBody(t, rec)["status"])
	})

	t.Run("metrics exposed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "trailer_booking_http_requests_total")
	})

	t.Run("preflight answered without auth", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/admin/bookings", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}
