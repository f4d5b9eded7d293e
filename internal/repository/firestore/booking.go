package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"trailer-booking-backend/internal/domain"
	"trailer-booking-backend/internal/logger"
)

const bookingsCollection = "bookings"

// bookingDoc is the stored shape of a confirmed booking. Attachment blobs
// never reach the record store; only their presence flags survive.
type bookingDoc struct {
	Trailer           string `firestore:"trailer"`
	StartDate         string `firestore:"startDate"`
	EndDate           string `firestore:"endDate"`
	PickupHour        int    `firestore:"pickupHour"`
	DropoffHour       int    `firestore:"dropoffHour"`
	FirstName         string `firestore:"firstName"`
	LastName          string `firestore:"lastName"`
	Email             string `firestore:"email"`
	Phone             string `firestore:"phone"`
	DOB               string `firestore:"dob"`
	Reason            string `firestore:"reason"`
	TrailerExperience string `firestore:"trailerExperience"`
	HasDriversLicense bool   `firestore:"hasDriversLicense"`
	HasInsurance      bool   `firestore:"hasProofOfInsurance"`
	SubmittedAt       string `firestore:"submittedAt,omitempty"`

	Status    string    `firestore:"status"`
	Tier      string    `firestore:"tier"`
	Breakdown string    `firestore:"breakdown"`
	Price     int64     `firestore:"price"`
	PaymentID string    `firestore:"paymentId,omitempty"`
	CreatedAt time.Time `firestore:"createdAt,serverTimestamp"`
}

type bookingRepository struct {
	client *firestore.Client
}

func newBookingRepository(client *firestore.Client) *bookingRepository {
	return &bookingRepository{client: client}
}

func (r *bookingRepository) Create(ctx context.Context, booking *domain.PersistedBooking) error {
	logger.ExternalServiceCall("firestore", "CreateBooking", "trailer", booking.Booking.Trailer)

	ref, _, err := r.client.Collection(bookingsCollection).Add(ctx, toDoc(booking))
	logger.ExternalServiceResult("firestore", "CreateBooking", err)
	if err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}

	booking.ID = ref.ID
	return nil
}

func (r *bookingRepository) List(ctx context.Context) ([]domain.PersistedBooking, error) {
	query := r.client.Collection(bookingsCollection).OrderBy("createdAt", firestore.Desc)
	return r.collect(ctx, query.Documents(ctx))
}

func (r *bookingRepository) ListSince(ctx context.Context, since time.Time) ([]domain.PersistedBooking, error) {
	query := r.client.Collection(bookingsCollection).
		Where("createdAt", ">=", since).
		OrderBy("createdAt", firestore.Desc)
	return r.collect(ctx, query.Documents(ctx))
}

func (r *bookingRepository) collect(ctx context.Context, iter *firestore.DocumentIterator) ([]domain.PersistedBooking, error) {
	defer iter.Stop()

	bookings := []domain.PersistedBooking{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list bookings: %w", err)
		}

		var doc bookingDoc
		if err := snap.DataTo(&doc); err != nil {
			logger.Warn("Skipping malformed booking document", "id", snap.Ref.ID, "error", err)
			continue
		}
		bookings = append(bookings, fromDoc(snap.Ref.ID, &doc))
	}
	return bookings, nil
}

func (r *bookingRepository) Delete(ctx context.Context, id string) error {
	logger.ExternalServiceCall("firestore", "DeleteBooking", "id", id)

	// Firestore deletes are idempotent; a missing document is not an error
	_, err := r.client.Collection(bookingsCollection).Doc(id).Delete(ctx)
	logger.ExternalServiceResult("firestore", "DeleteBooking", err)
	if err != nil {
		return fmt.Errorf("failed to delete booking %s: %w", id, err)
	}
	return nil
}

func toDoc(booking *domain.PersistedBooking) *bookingDoc {
	b := booking.Booking
	doc := &bookingDoc{
		Trailer:           b.Trailer,
		StartDate:         b.StartDate,
		EndDate:           b.EndDate,
		FirstName:         b.FirstName,
		LastName:          b.LastName,
		Email:             b.Email,
		Phone:             b.Phone,
		DOB:               b.DOB,
		Reason:            b.Reason,
		TrailerExperience: b.TrailerExperience,
		HasDriversLicense: b.HasDriversLicense(),
		HasInsurance:      b.HasProofOfInsurance(),
		SubmittedAt:       b.CreatedAt,
		Status:            string(booking.Status),
		Tier:              booking.Tier,
		Breakdown:         booking.Breakdown,
		Price:             booking.Price,
		PaymentID:         booking.PaymentID,
	}
	if b.PickupHour != nil {
		doc.PickupHour = *b.PickupHour
	}
	if b.DropoffHour != nil {
		doc.DropoffHour = *b.DropoffHour
	}
	return doc
}

func fromDoc(id string, doc *bookingDoc) domain.PersistedBooking {
	pickup, dropoff := doc.PickupHour, doc.DropoffHour
	return domain.PersistedBooking{
		ID: id,
		Booking: domain.BookingRequest{
			Trailer:           doc.Trailer,
			StartDate:         doc.StartDate,
			EndDate:           doc.EndDate,
			PickupHour:        &pickup,
			DropoffHour:       &dropoff,
			FirstName:         doc.FirstName,
			LastName:          doc.LastName,
			Email:             doc.Email,
			Phone:             doc.Phone,
			DOB:               doc.DOB,
			Reason:            doc.Reason,
			TrailerExperience: doc.TrailerExperience,
			CreatedAt:         doc.SubmittedAt,
		},
		Status:    domain.BookingStatus(doc.Status),
		Tier:      doc.Tier,
		Breakdown: doc.Breakdown,
		Price:     doc.Price,
		PaymentID: doc.PaymentID,
		CreatedAt: doc.CreatedAt,
	}
}
