package commands

import "errors"

// Process exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitLaunch  = 2
)

// ExitError carries the process exit code of a failed command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode returns the process exit code for the error returned by the command tree.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	return ExitFailure
}

func newUsageError(err error) error {
	return &ExitError{Code: ExitFailure, Err: err}
}
