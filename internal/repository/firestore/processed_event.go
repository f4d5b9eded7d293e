package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"trailer-booking-backend/internal/domain"
	"trailer-booking-backend/internal/logger"
)

const processedEventsCollection = "processed_events"

type processedEventRepository struct {
	client *firestore.Client
}

func newProcessedEventRepository(client *firestore.Client) *processedEventRepository {
	return &processedEventRepository{client: client}
}

// MarkProcessed claims a checkout session. The document identifier is the
// session identifier, so Create fails with AlreadyExists on a replay.
// That failure is the deduplication mechanism.
func (r *processedEventRepository) MarkProcessed(ctx context.Context, sessionID, eventID string) error {
	logger.ExternalServiceCall("firestore", "MarkProcessed", "session_id", sessionID)

	_, err := r.client.Collection(processedEventsCollection).Doc(sessionID).Create(ctx, map[string]interface{}{
		"eventId":     eventID,
		"processedAt": firestore.ServerTimestamp,
	})
	logger.ExternalServiceResult("firestore", "MarkProcessed", err)

	if status.Code(err) == codes.AlreadyExists {
		return domain.ErrAlreadyProcessed
	}
	if err != nil {
		return fmt.Errorf("failed to mark event processed: %w", err)
	}
	return nil
}

func (r *processedEventRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	iter := r.client.Collection(processedEventsCollection).
		Where("processedAt", "<", cutoff).
		Documents(ctx)
	defer iter.Stop()

	deleted := 0
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return deleted, fmt.Errorf("failed to scan processed events: %w", err)
		}
		if _, err := snap.Ref.Delete(ctx); err != nil {
			return deleted, fmt.Errorf("failed to delete processed event %s: %w", snap.Ref.ID, err)
		}
		deleted++
	}
	return deleted, nil
}
