package programs

import (
	"errors"
	"fmt"
)

// Workflow error taxonomy. The handler maps each of these to a distinct
// HTTP response so the UI can tell permission, state and validation
// failures apart.
var (
	// ErrForbidden means the actor lacks permission for the action.
	ErrForbidden = errors.New("you are not allowed to perform this action")

	// ErrIllegalTransition means the action is not valid from the
	// program's current status.
	ErrIllegalTransition = errors.New("this program is not in a state that allows this action")

	// ErrValidationFailed means the action payload is missing or has
	// out-of-range required fields.
	ErrValidationFailed = errors.New("validation failed")

	// ErrAmbiguousPendingQuery means more than one pending query exists
	// on the program, which is a data inconsistency the engine refuses
	// to resolve by guessing.
	ErrAmbiguousPendingQuery = errors.New("more than one pending query on program")

	// ErrStaleSnapshot means the program was modified concurrently and
	// the caller's snapshot is no longer current.
	ErrStaleSnapshot = errors.New("program was modified by another request")

	// ErrUnknownStatus means the persisted status string is outside the
	// enumeration (malformed data).
	ErrUnknownStatus = errors.New("unknown program status")

	// ErrNotFound is kept distinct from ErrForbidden so the UI can
	// render "not found" vs "you lack permission".
	ErrNotFound = errors.New("program not found")
)

// ValidationError names the specific field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }

func newValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
