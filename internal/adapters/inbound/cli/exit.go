package cli

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/arclint/arclint/internal/domain"
)

// ExitError carries the process exit code of a command.
type ExitError struct {
	// Err is the underlying error, nil when the outcome was already rendered.
	Err error
	// Code is the exit code to return to the operating system.
	Code int
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitWith wraps err with an exit code. A nil err marks a silent exit whose
// outcome is already on stdout.
func exitWith(err error, code int) *ExitError {
	return &ExitError{Err: err, Code: code}
}

// ExitCode maps an error returned by Execute to the process exit status.
// Usage and setup errors count as environment failures.
func ExitCode(err error) int {
	if err == nil {
		return domain.ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return domain.ExitEnvironment
}

func isSilent(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr) && exitErr.Err == nil
}
