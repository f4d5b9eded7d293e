// Package firestore implements the record-store repositories on Google
// Cloud Firestore via the Firebase Admin SDK.
package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"trailer-booking-backend/internal/config"
	"trailer-booking-backend/internal/repository"
)

// Store bundles all Firestore-backed repositories over one client
type Store struct {
	client *firestore.Client

	BookingRepository         repository.BookingRepository
	ProcessedEventRepository  repository.ProcessedEventRepository
	AccountingTokenRepository repository.AccountingTokenRepository
}

// NewStore initializes the Firebase app and the repositories
func NewStore(ctx context.Context, cfg config.FirestoreConfig) (*Store, error) {
	var opts []option.ClientOption
	if cfg.Credentials != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.Credentials)))
	}

	var fbConfig *firebase.Config
	if cfg.ProjectID != "" {
		fbConfig = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(ctx, fbConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firestore client: %w", err)
	}

	return &Store{
		client:                    client,
		BookingRepository:         newBookingRepository(client),
		ProcessedEventRepository:  newProcessedEventRepository(client),
		AccountingTokenRepository: newAccountingTokenRepository(client),
	}, nil
}

// Close releases the underlying client
func (s *Store) Close() error {
	return s.client.Close()
}
