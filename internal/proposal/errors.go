package proposal

import (
	"fmt"
	"strings"
)

// Rejection is implemented by every error the transformer returns.
type Rejection interface {
	error
	// Code is a stable machine-readable reason.
	Code() string
	// Retryable reports whether asking the generator for a corrected proposal can help.
	Retryable() bool
}

const (
	CodeMalformedPlan   = "malformed_plan"
	CodeUnknownExercise = "unknown_exercise"
	CodeSafetyRule      = "safety_rule"
)

// MalformedPlanError reports invalid JSON or a shape mismatch.
type MalformedPlanError struct {
	Path   string
	Reason string
}

func (e *MalformedPlanError) Error() string {
	if e.Path == "" {
		return "malformed plan: " + e.Reason
	}
	return fmt.Sprintf("malformed plan: %s: %s", e.Path, e.Reason)
}

func (e *MalformedPlanError) Code() string    { return CodeMalformedPlan }
func (e *MalformedPlanError) Retryable() bool { return true }

// UnknownExerciseError lists exercise ids outside the trainer's visible set,
// in the order they first appear in the proposal.
type UnknownExerciseError struct {
	IDs []string
	// CatalogSize is the number of exercises the generator could have chosen from.
	CatalogSize int
}

func (e *UnknownExerciseError) Error() string {
	return "unknown exercise ids: " + strings.Join(e.IDs, ", ")
}

func (e *UnknownExerciseError) Code() string { return CodeUnknownExercise }

// Retryable is false for an empty catalog: no correction can produce a valid id.
func (e *UnknownExerciseError) Retryable() bool { return e.CatalogSize > 0 }

// SafetyRuleError reports a value outside the configured bounds or an empty structure.
type SafetyRuleError struct {
	Path   string
	Reason string
}

func (e *SafetyRuleError) Error() string {
	if e.Path == "" {
		return "safety rule violated: " + e.Reason
	}
	return fmt.Sprintf("safety rule violated: %s: %s", e.Path, e.Reason)
}

func (e *SafetyRuleError) Code() string    { return CodeSafetyRule }
func (e *SafetyRuleError) Retryable() bool { return true }

func malformed(path, format string, args ...any) error {
	return &MalformedPlanError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

func unsafe(path, format string, args ...any) error {
	return &SafetyRuleError{Path: path, Reason: fmt.Sprintf(format, args...)}
}
