package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"trailer-booking-backend/internal/config"
	"trailer-booking-backend/internal/domain"
	"trailer-booking-backend/internal/pricing"
)

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) Create(ctx context.Context, booking *domain.PersistedBooking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *mockBookingRepo) List(ctx context.Context) ([]domain.PersistedBooking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PersistedBooking), args.Error(1)
}

func (m *mockBookingRepo) ListSince(ctx context.Context, since time.Time) ([]domain.PersistedBooking, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PersistedBooking), args.Error(1)
}

func (m *mockBookingRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockEventRepo struct {
	mock.Mock
}

func (m *mockEventRepo) MarkProcessed(ctx context.Context, sessionID, eventID string) error {
	args := m.Called(ctx, sessionID, eventID)
	return args.Error(0)
}

func (m *mockEventRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	args := m.Called(ctx, cutoff)
	return args.Int(0), args.Error(1)
}

type mockEmailService struct {
	mock.Mock
}

func (m *mockEmailService) SendPendingBookingNotification(ctx context.Context, booking *domain.BookingRequest, quote *pricing.Quote) error {
	args := m.Called(ctx, booking, quote)
	return args.Error(0)
}

func (m *mockEmailService) SendConfirmedBookingNotification(ctx context.Context, booking *domain.BookingRequest, payment *domain.PaymentInfo) error {
	args := m.Called(ctx, booking, payment)
	return args.Error(0)
}

func (m *mockEmailService) SendReviewNotification(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockEmailService) SendAdminNotification(ctx context.Context, subject, body string) error {
	args := m.Called(ctx, subject, body)
	return args.Error(0)
}

func summaryBookings() []domain.PersistedBooking {
	return []domain.PersistedBooking{
		{
			ID: "doc-1",
			Booking: domain.BookingRequest{
				FirstName: "Jane", LastName: "Doe",
				Trailer:   "5 x 10 Utility Trailer",
				StartDate: "2026-06-01", EndDate: "2026-06-01",
			},
			Status: domain.BookingStatusConfirmed,
			Tier:   "Hourly",
			Price:  30,
		},
		{
			ID: "doc-2",
			Booking: domain.BookingRequest{
				FirstName: "Sam", LastName: "Lee",
				Trailer:   "6 x 12 Car Hauler",
				StartDate: "2026-06-02", EndDate: "2026-06-05",
			},
			Status: domain.BookingStatusConfirmed,
			Tier:   "Daily",
			Price:  285,
		},
	}
}

func TestSendDailyBookingSummary(t *testing.T) {
	t.Run("digest covers every booking and the total", func(t *testing.T) {
		bookings := new(mockBookingRepo)
		email := new(mockEmailService)
		jr := NewJobRunner(bookings, nil, email, &config.Config{})

		bookings.On("ListSince", mock.Anything, mock.AnythingOfType("time.Time")).
			Return(summaryBookings(), nil)

		var subject, body string
		email.On("SendAdminNotification", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) {
				subject = args.String(1)
				body = args.String(2)
			}).
			Return(nil)

		jr.SendDailyBookingSummary()

		assert.Contains(t, subject, "2 booking(s)")
		assert.Contains(t, body, "Jane Doe")
		assert.Contains(t, body, "Sam Lee")
		assert.Contains(t, body, "$315")
		email.AssertExpectations(t)
	})

	t.Run("no bookings means no email", func(t *testing.T) {
		bookings := new(mockBookingRepo)
		email := new(mockEmailService)
		jr := NewJobRunner(bookings, nil, email, &config.Config{})

		bookings.On("ListSince", mock.Anything, mock.AnythingOfType("time.Time")).
			Return([]domain.PersistedBooking{}, nil)

		jr.SendDailyBookingSummary()
		email.AssertNotCalled(t, "SendAdminNotification", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("list failure is swallowed", func(t *testing.T) {
		bookings := new(mockBookingRepo)
		email := new(mockEmailService)
		jr := NewJobRunner(bookings, nil, email, &config.Config{})

		bookings.On("ListSince", mock.Anything, mock.AnythingOfType("time.Time")).
			Return(nil, assert.AnError)

		jr.SendDailyBookingSummary()
		email.AssertNotCalled(t, "SendAdminNotification", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("nil repository is tolerated", func(t *testing.T) {
		email := new(mockEmailService)
		jr := NewJobRunner(nil, nil, email, &config.Config{})

		jr.SendDailyBookingSummary()
		email.AssertNotCalled(t, "SendAdminNotification", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPruneProcessedEvents(t *testing.T) {
	t.Run("uses the retention cutoff", func(t *testing.T) {
		events := new(mockEventRepo)
		jr := NewJobRunner(nil, events, new(mockEmailService), &config.Config{})

		events.On("DeleteOlderThan", mock.Anything, mock.MatchedBy(func(cutoff time.Time) bool {
			expected := time.Now().Add(-processedEventRetention)
			return cutoff.Sub(expected).Abs() < time.Minute
		})).Return(3, nil)

		jr.PruneProcessedEvents()
		events.AssertExpectations(t)
	})

	t.Run("nil repository is tolerated", func(t *testing.T) {
		jr := NewJobRunner(nil, nil, new(mockEmailService), &config.Config{})
		jr.PruneProcessedEvents()
	})
}

func TestRunWithRecovery(t *testing.T) {
	jr := NewJobRunner(nil, nil, new(mockEmailService), &config.Config{})
	assert.NotPanics(t, func() {
		jr.runWithRecovery("ExplodingJob", func() { panic("boom") })
	})
}
