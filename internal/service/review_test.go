package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"trailer-booking-backend/internal/config"
	"trailer-booking-backend/internal/domain"
)

func TestReviewService(t *testing.T) {
	ctx := context.Background()
	approved := []config.ApprovedReview{
		{Name: "Sam", Rating: 5, Trailer: "5 x 10 Utility Trailer", Review: "Great trailer", Date: "2026-05-14"},
		{Name: "Alex", Rating: 4, Trailer: "6 x 12 Car Hauler", Review: "Solid", Date: "2026-04-02"},
	}

	t.Run("lists curated reviews", func(t *testing.T) {
		svc := NewReviewService(approved, new(MockEmailService))
		got := svc.ListApproved(ctx)
		require.Len(t, got, 2)
		assert.Equal(t, "Sam", got[0].Name)
		assert.Equal(t, 4, got[1].Rating)
	})

	t.Run("valid submission notifies the owner", func(t *testing.T) {
		email := new(MockEmailService)
		svc := NewReviewService(nil, email)

		review := &domain.Review{Name: "Pat", Email: "pat@example.com", Rating: 5, Review: "Smooth rental"}
		email.On("SendReviewNotification", mock.Anything, review).Return(nil)

		require.NoError(t, svc.Submit(ctx, review))
		email.AssertExpectations(t)
	})

	t.Run("notification failure does not reject", func(t *testing.T) {
		email := new(MockEmailService)
		svc := NewReviewService(nil, email)

		review := &domain.Review{Name: "Pat", Email: "pat@example.com", Rating: 5, Review: "Smooth rental"}
		email.On("SendReviewNotification", mock.Anything, review).Return(assert.AnError)

		assert.NoError(t, svc.Submit(ctx, review))
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		email := new(MockEmailService)
		svc := NewReviewService(nil, email)

		err := svc.Submit(ctx, &domain.Review{Rating: 5})
		var vErr *domain.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.NotEmpty(t, vErr.MissingFields)
		email.AssertNotCalled(t, "SendReviewNotification", mock.Anything, mock.Anything)
	})

	t.Run("rating outside 1 to 5 rejected", func(t *testing.T) {
		svc := NewReviewService(nil, new(MockEmailService))
		for _, rating := range []int{0, 6, -1} {
			err := svc.Submit(ctx, &domain.Review{Name: "Pat", Email: "pat@example.com", Rating: rating, Review: "text"})
			assert.Error(t, err, "rating %d", rating)
		}
	})
}
