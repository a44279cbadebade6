package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound         = errors.New("resource not found")
	ErrCaseNotFound     = fmt.Errorf("%w: case", ErrNotFound)
	ErrDocumentNotFound = fmt.Errorf("%w: document", ErrNotFound)
	ErrVerdictNotFound  = fmt.Errorf("%w: verdict", ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("%w: user", ErrNotFound)

	// Access errors
	ErrAccessDenied = errors.New("access denied")

	// Validation errors
	ErrValidation        = errors.New("validation failed")
	ErrInvalidSide       = fmt.Errorf("%w: side must be A or B", ErrValidation)
	ErrRoundOutOfRange   = fmt.Errorf("%w: round out of range", ErrValidation)
	ErrArgumentTooShort  = fmt.Errorf("%w: argument text below minimum length", ErrValidation)
	ErrEvidenceMissing   = fmt.Errorf("%w: evidence missing", ErrValidation)
	ErrCaseNotReady      = errors.New("case has no initial verdict yet")
	ErrRoundLimitReached = errors.New("maximum rounds reached")

	// Conflict errors
	ErrDuplicateSubmission = errors.New("argument already submitted for this round and side")
	ErrDuplicateVerdict    = errors.New("verdict already exists for this round")
	ErrCaseFinalized       = errors.New("case is finalized")

	// Oracle errors
	ErrOracleUnavailable     = errors.New("oracle unavailable")
	ErrOracleResponseInvalid = errors.New("oracle response invalid")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewValidationError(reason string) error {
	return fmt.Errorf("%w: %s", ErrValidation, reason)
}

func NewSideMissingEvidenceError(side string) error {
	return fmt.Errorf("%w: Side %s has not submitted any documents", ErrEvidenceMissing, side)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrCaseNotReady) ||
		errors.Is(err, ErrRoundLimitReached)
}

func IsConflictError(err error) bool {
	return errors.Is(err, ErrDuplicateSubmission) ||
		errors.Is(err, ErrDuplicateVerdict) ||
		errors.Is(err, ErrCaseFinalized)
}

func IsOracleError(err error) bool {
	return errors.Is(err, ErrOracleUnavailable) ||
		errors.Is(err, ErrOracleResponseInvalid)
}
