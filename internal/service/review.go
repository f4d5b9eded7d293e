package service

import (
	"context"

	"trailer-booking-backend/internal/config"
	"trailer-booking-backend/internal/domain"
	"trailer-booking-backend/internal/logger"
)

type reviewService struct {
	approved []domain.Review
	email    EmailService
}

// NewReviewService builds the review service. Approved reviews come from
// configuration and are curated by hand; submissions only generate an
// owner notification.
func NewReviewService(approved []config.ApprovedReview, email EmailService) ReviewService {
	reviews := make([]domain.Review, 0, len(approved))
	for _, r := range approved {
		reviews = append(reviews, domain.Review{
			Name:    r.Name,
			Rating:  r.Rating,
			Trailer: r.Trailer,
			Review:  r.Review,
			Date:    r.Date,
		})
	}
	return &reviewService{approved: reviews, email: email}
}

func (s *reviewService) ListApproved(ctx context.Context) []domain.Review {
	return s.approved
}

func (s *reviewService) Submit(ctx context.Context, review *domain.Review) error {
	if missing := review.MissingFields(); len(missing) > 0 {
		return &domain.ValidationError{MissingFields: missing}
	}
	if review.Rating < 1 || review.Rating > 5 {
		return domain.NewValidationError("rating must be between 1 and 5")
	}

	// Notification failure never rejects the submission
	if err := s.email.SendReviewNotification(ctx, review); err != nil {
		logger.Warn("Failed to send review notification", "error", err)
	}
	return nil
}
