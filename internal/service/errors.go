package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"planner/internal/repository"
)

// Error kinds surfaced to the HTTP layer. Each maps to its own status.
var (
	ErrNotFound              = errors.New("not found")
	ErrForbidden             = errors.New("forbidden")
	ErrInvalidOrderPayload   = errors.New("invalid order payload")
	ErrInvalidRuleParameters = errors.New("invalid rule parameters")
	ErrStorageConflict       = errors.New("storage conflict")
)

// Authorize is the single ownership check for tasks and rules.
func Authorize(ownerID, callerID uuid.UUID) error {
	if ownerID != callerID {
		return ErrForbidden
	}
	return nil
}

// classify maps repository errors onto the service kinds.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrTaskNotFound),
		errors.Is(err, repository.ErrRuleNotFound),
		errors.Is(err, repository.ErrProfileNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, repository.ErrConflict):
		return fmt.Errorf("%w: %v", ErrStorageConflict, err)
	default:
		return err
	}
}
