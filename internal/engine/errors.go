package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents an error detected while driving a simulator.
//
// Runtime errors include:
//   - Budget exceeded: the counter did not expire within the tick budget
//   - Cancelled: the caller's context ended during a long run
//
// Configuration failures are not runtime errors; they come from the timer
// package before a simulator exists.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Details contains additional context.
	Details map[string]string

	// Err is the underlying cause, if any.
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeBudgetExceeded indicates RunToExpiry hit its tick budget.
	ErrCodeBudgetExceeded RuntimeErrorCode = "TICK_BUDGET_EXCEEDED"

	// ErrCodeCancelled indicates the context was cancelled mid-run.
	ErrCodeCancelled RuntimeErrorCode = "CANCELLED"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// IsBudgetError returns true if err is a tick budget error.
// Uses errors.As to handle wrapped errors.
func IsBudgetError(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeBudgetExceeded
	}
	return false
}

// IsCancelled returns true if err is a cancellation error.
func IsCancelled(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeCancelled
	}
	return false
}

// NewBudgetError creates a RuntimeError for an exceeded tick budget.
func NewBudgetError(target, budget uint64) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeBudgetExceeded,
		Message: fmt.Sprintf("target of %d ticks exceeds budget of %d", target, budget),
		Details: map[string]string{
			"target": fmt.Sprintf("%d", target),
			"budget": fmt.Sprintf("%d", budget),
		},
	}
}

// NewCancelledError creates a RuntimeError wrapping a context error.
func NewCancelledError(ticks uint64, err error) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeCancelled,
		Message: fmt.Sprintf("run cancelled after %d ticks", ticks),
		Details: map[string]string{
			"ticks": fmt.Sprintf("%d", ticks),
		},
		Err: err,
	}
}
