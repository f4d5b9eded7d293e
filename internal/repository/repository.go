package repository

import (
	"context"
	"time"

	"trailer-booking-backend/internal/domain"
)

type BookingRepository interface {
	// Create stores a booking and fills in its assigned identifier
	Create(ctx context.Context, booking *domain.PersistedBooking) error
	List(ctx context.Context) ([]domain.PersistedBooking, error)
	ListSince(ctx context.Context, since time.Time) ([]domain.PersistedBooking, error)
	// Delete is idempotent; removing a missing identifier is not an error
	Delete(ctx context.Context, id string) error
}

type ProcessedEventRepository interface {
	// MarkProcessed records a checkout session as handled. A second call
	// for the same session returns domain.ErrAlreadyProcessed.
	MarkProcessed(ctx context.Context, sessionID, eventID string) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

type AccountingTokenRepository interface {
	Save(ctx context.Context, token *domain.AccountingToken) error
	// Get returns domain.ErrNoAccountingToken when the integration has
	// never been connected
	Get(ctx context.Context) (*domain.AccountingToken, error)
}
