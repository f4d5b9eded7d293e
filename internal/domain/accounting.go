package domain

import (
	"errors"
	"time"
)

// ErrNoAccountingToken is returned when the accounting integration has
// not been connected yet
var ErrNoAccountingToken = errors.New("accounting integration not connected")

// AccountingToken holds the OAuth credentials and company (realm)
// identifier for the accounting collaborator
type AccountingToken struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	Expiry       time.Time `json:"expiry"`
	RealmID      string    `json:"realmId"`
}
