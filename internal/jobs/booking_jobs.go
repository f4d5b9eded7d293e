package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"trailer-booking-backend/internal/domain"
	"trailer-booking-backend/internal/logger"
)

// processedEventRetention is how long webhook dedup markers are kept.
// Stripe retries deliveries for at most a few days.
const processedEventRetention = 30 * 24 * time.Hour

// SendDailyBookingSummary emails the owner a digest of bookings confirmed
// in the last 24 hours.
func (jr *JobRunner) SendDailyBookingSummary() {
	jr.runWithRecovery("SendDailyBookingSummary", func() {
		if jr.bookings == nil {
			logger.Warn("Record store not configured, skipping booking summary")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		since := time.Now().Add(-24 * time.Hour)
		bookings, err := jr.bookings.ListSince(ctx, since)
		if err != nil {
			logger.Error("Failed to list bookings for summary", "error", err)
			return
		}

		if len(bookings) == 0 {
			logger.Info("No bookings in the last 24 hours, skipping summary")
			return
		}

		subject := fmt.Sprintf("Daily booking summary: %d booking(s)", len(bookings))
		body := buildSummaryBody(bookings, since)
		if err := jr.email.SendAdminNotification(ctx, subject, body); err != nil {
			logger.Error("Failed to send booking summary", "error", err)
			return
		}
		logger.Info("Booking summary sent", "bookings", len(bookings))
	})
}

func buildSummaryBody(bookings []domain.PersistedBooking, since time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Bookings confirmed since %s:\n\n", since.UTC().Format("Jan 2 15:04 MST"))

	var total int64
	for _, b := range bookings {
		fmt.Fprintf(&sb, "- %s %s | %s | %s to %s | %s | $%d\n",
			b.Booking.FirstName, b.Booking.LastName,
			b.Booking.Trailer,
			b.Booking.StartDate, b.Booking.EndDate,
			b.Tier, b.Price)
		total += b.Price
	}

	fmt.Fprintf(&sb, "\nTotal: $%d across %d booking(s)\n", total, len(bookings))
	return sb.String()
}

// PruneProcessedEvents removes webhook dedup markers older than the
// retention window.
func (jr *JobRunner) PruneProcessedEvents() {
	jr.runWithRecovery("PruneProcessedEvents", func() {
		if jr.events == nil {
			logger.Warn("Record store not configured, skipping dedup pruning")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		cutoff := time.Now().Add(-processedEventRetention)
		deleted, err := jr.events.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to prune processed events", "error", err)
			return
		}
		logger.Info("Pruned processed events", "deleted", deleted, "cutoff", cutoff.UTC().Format(time.RFC3339))
	})
}
