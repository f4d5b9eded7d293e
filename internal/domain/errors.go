package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownTrailer is returned when a trailer model has no rate entry
	ErrUnknownTrailer = errors.New("unknown trailer model")

	// ErrInvalidSignature is returned when webhook signature verification fails
	ErrInvalidSignature = errors.New("webhook signature verification failed")

	// ErrUnauthorized is returned on a missing or mismatched admin credential
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRecordStoreDisabled is returned when the record store is not configured
	ErrRecordStoreDisabled = errors.New("record store not configured")

	// ErrAccountingDisabled is returned when the accounting integration is not configured
	ErrAccountingDisabled = errors.New("accounting integration not configured")

	// ErrAlreadyProcessed is returned when a payment event was handled before
	ErrAlreadyProcessed = errors.New("event already processed")
)

// ValidationError reports bad or missing input. It stops the workflow
// before any collaborator is called.
type ValidationError struct {
	MissingFields []string
	Reason        string
}

func (e *ValidationError) Error() string {
	if len(e.MissingFields) > 0 {
		return fmt.Sprintf("missing required fields: %s", strings.Join(e.MissingFields, ", "))
	}
	return e.Reason
}

// NewValidationError builds a ValidationError with a free-form reason
func NewValidationError(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

// CollaboratorError wraps a failed call to an external service. Faults on
// the checkout path surface to the caller; everywhere else they are logged
// and swallowed.
type CollaboratorError struct {
	Service string
	Err     error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s call failed: %v", e.Service, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}
