package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCollaboratorUnavailable matches every CollaboratorError.
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")

	// ErrUnknownPriceMethod is returned when parsing an unsupported PriceMethod.
	ErrUnknownPriceMethod = errors.New("unknown price method")
)

// Collaborator names.
const (
	CollaboratorLedger   = "ledger"
	CollaboratorMetadata = "metadata"
	CollaboratorPricing  = "pricing"
)

// CollaboratorError reports a failed call to an external collaborator.
type CollaboratorError struct {
	Collaborator string // ledger | metadata | pricing
	Op           string // operation, e.g. "getSignaturesForAddress"
	Key          string // address, mint or creator key involved
	Err          error
}

// NewCollaboratorError wraps err.
func NewCollaboratorError(collaborator, op, key string, err error) *CollaboratorError {
	return &CollaboratorError{Collaborator: collaborator, Op: op, Key: key, Err: err}
}

func (e *CollaboratorError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s %s: %v", e.Collaborator, e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s %s: %v", e.Collaborator, e.Op, e.Key, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrCollaboratorUnavailable) true for any CollaboratorError.
func (e *CollaboratorError) Is(target error) bool {
	return target == ErrCollaboratorUnavailable
}
