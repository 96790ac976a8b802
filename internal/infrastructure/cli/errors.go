package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/felixgeelhaar/daybrief/pkg/domain/planning"
)

// CLIError wraps domain errors with user-facing messages and actionable hints.
type CLIError struct {
	Message  string
	Hint     string
	Err      error
	ExitCode int
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with a default exit code of 1.
func NewCLIError(msg, hint string, err error) *CLIError {
	return &CLIError{
		Message:  msg,
		Hint:     hint,
		Err:      err,
		ExitCode: 1,
	}
}

// MapError converts known domain errors into CLIErrors with actionable hints.
// Unmapped errors are returned as-is.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return err
	}

	var valErr *planning.ValidationError
	if errors.As(err, &valErr) {
		return NewCLIError(
			valErr.Error(),
			fmt.Sprintf("Fix the '%s' field in the item file", valErr.Field),
			err,
		)
	}

	switch {
	case errors.Is(err, planning.ErrEmptyItems):
		return NewCLIError("no work items to process", "Pass --file items.yaml or enable demo.seed in daybrief.yaml", err)
	case errors.Is(err, planning.ErrEmptyTitle):
		return NewCLIError("title is required", `Run 'daybrief suggest "Fix login bug"'`, err)
	case errors.Is(err, planning.ErrItemNotFound):
		return NewCLIError("item not found", "Check the item ID against the item file", err)
	case errors.Is(err, planning.ErrInvalidTransition):
		return NewCLIError("invalid status transition", "Completed items cannot be started again", err)
	case errors.Is(err, fs.ErrNotExist):
		return NewCLIError("file not found", "Check the --file and --config paths", err)
	}

	return err
}

// ExitCode returns the process exit code for err.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) && cliErr.ExitCode != 0 {
		return cliErr.ExitCode
	}
	return 1
}
