package service

import (
	"alcyxob/trainer-planner/internal/repository"
	"errors"
	"fmt"
)

// --- Error Definitions ---
var (
	// ErrNotFound covers both "does not exist" and "not yours".
	ErrNotFound             = errors.New("not found")
	ErrValidation           = errors.New("validation failed")
	ErrExerciseInUse        = errors.New("exercise is referenced by existing workout sets")
	ErrExerciseNameTaken    = errors.New("an exercise with this name already exists")
	ErrConflict             = errors.New("workout was modified by another request")
	ErrGeneratorUnavailable = errors.New("workout generation is not configured")
	ErrGeneratorFailed      = errors.New("workout generator request failed")
	ErrUnauthenticated      = errors.New("invalid or missing credentials")
)

// ValidationError is a rejected field in a mutation request.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// mapRepoErr converts repository sentinels into the service taxonomy.
func mapRepoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrVersionMismatch):
		return ErrConflict
	default:
		return err
	}
}
