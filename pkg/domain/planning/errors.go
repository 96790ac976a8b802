package planning

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyItems        = errors.New("task list cannot be empty")
	ErrEmptyTitle        = errors.New("task title is required")
	ErrItemNotFound      = errors.New("item not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// DeadlineParseError is returned by ParseDeadline. Scoring and formatting
// recover from it locally.
type DeadlineParseError struct {
	Value string
	Err   error
}

func (e *DeadlineParseError) Error() string {
	return fmt.Sprintf("parse deadline %q: %v", e.Value, e.Err)
}

func (e *DeadlineParseError) Unwrap() error {
	return e.Err
}
