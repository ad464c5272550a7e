package planner

import (
	"errors"
	"fmt"
	"hiroonarita/practice-planner/internal/domain"
	"hiroonarita/practice-planner/internal/validation"
)

var (
	// ErrConfirmationRequired is returned by Publish when the plan is already
	// published and no confirmation step was supplied.
	ErrConfirmationRequired = errors.New("plan is already published; confirm to replace what players see")
	ErrPublishCancelled     = errors.New("publish cancelled")
	ErrNoYesterdayPlan      = errors.New("nothing was published for the previous day")
	ErrEditorClosed         = errors.New("editor is closed")
	ErrUnknownField         = errors.New("unknown field")
)

// NetworkError means the store could not be reached or answered with a
// non-success status.
type NetworkError struct {
	Op     string
	Key    domain.PlanKey // zero for fetch-all
	Status int            // HTTP status, 0 when the request never completed
	Err    error
}

func (e *NetworkError) Error() string {
	msg := "store " + e.Op
	if e.Key != (domain.PlanKey{}) {
		msg += " " + e.Key.String()
	}
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ConstraintError means the store refused a write for the key, e.g. a draft
// write over a published plan.
type ConstraintError struct {
	Key domain.PlanKey
	Err error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("store refused write for %s: %v", e.Key, e.Err)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// ValidationError lists, per drill slot, why a plan cannot be published.
type ValidationError struct {
	Fields validation.Errors
}

func (e *ValidationError) Error() string {
	return e.Fields.Error()
}

// IsNetworkError reports whether err is, or wraps, a NetworkError.
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsConstraintError reports whether err is, or wraps, a ConstraintError.
func IsConstraintError(err error) bool {
	var cErr *ConstraintError
	return errors.As(err, &cErr)
}
