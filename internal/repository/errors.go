package repository

import "errors"

// Common repository errors
var (
	// ErrTaskNotFound is returned when a task is not found
	ErrTaskNotFound = errors.New("task not found")

	// ErrRuleNotFound is returned when a recurrence rule is not found or was deleted
	ErrRuleNotFound = errors.New("recurrence rule not found")

	// ErrProfileNotFound is returned when a user has no profile row
	ErrProfileNotFound = errors.New("profile not found")

	// ErrConflict is returned when a write violates a unique constraint
	ErrConflict = errors.New("storage conflict")
)
