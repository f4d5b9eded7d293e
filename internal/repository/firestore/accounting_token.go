package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"trailer-booking-backend/internal/domain"
)

const (
	accountingCollection = "accounting"
	accountingTokenDoc   = "oauth"
)

type accountingTokenDocument struct {
	AccessToken  string    `firestore:"accessToken"`
	RefreshToken string    `firestore:"refreshToken"`
	Expiry       time.Time `firestore:"expiry"`
	RealmID      string    `firestore:"realmId"`
	UpdatedAt    time.Time `firestore:"updatedAt,serverTimestamp"`
}

type accountingTokenRepository struct {
	client *firestore.Client
}

func newAccountingTokenRepository(client *firestore.Client) *accountingTokenRepository {
	return &accountingTokenRepository{client: client}
}

func (r *accountingTokenRepository) Save(ctx context.Context, token *domain.AccountingToken) error {
	_, err := r.client.Collection(accountingCollection).Doc(accountingTokenDoc).Set(ctx, &accountingTokenDocument{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Expiry:       token.Expiry,
		RealmID:      token.RealmID,
	})
	if err != nil {
		return fmt.Errorf("failed to save accounting token: %w", err)
	}
	return nil
}

func (r *accountingTokenRepository) Get(ctx context.Context) (*domain.AccountingToken, error) {
	snap, err := r.client.Collection(accountingCollection).Doc(accountingTokenDoc).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, domain.ErrNoAccountingToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load accounting token: %w", err)
	}

	var doc accountingTokenDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode accounting token: %w", err)
	}
	return &domain.AccountingToken{
		AccessToken:  doc.AccessToken,
		RefreshToken: doc.RefreshToken,
		Expiry:       doc.Expiry,
		RealmID:      doc.RealmID,
	}, nil
}
