package cli

import "errors"

// Exit codes for CLI commands.
// These codes follow Unix conventions and provide consistent error reporting
// across all CLI commands.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitError indicates a general error occurred.
	// Use for: storage errors, network errors, unexpected failures,
	// or any error that doesn't fit the specific categories below.
	ExitError = 1

	// ExitUsage indicates incorrect command usage.
	// Use for: missing arguments or unknown shell commands.
	ExitUsage = 2

	// ExitNotFound indicates a requested resource was not found.
	// Use for: card not found, column not found.
	ExitNotFound = 3

	// ExitDataErr indicates invalid or malformed data.
	// Use for: a stored order relation that fails validation.
	ExitDataErr = 4

	// ExitValidation indicates a validation error.
	// Use for: empty card text, text over the length limit.
	ExitValidation = 5
)

// ExitErr carries the process exit code for a failed command. The error
// has already been reported to the user when it is returned.
type ExitErr struct {
	Code int
	Err  error
}

func (e *ExitErr) Error() string {
	return e.Err.Error()
}

func (e *ExitErr) Unwrap() error {
	return e.Err
}

// Exit wraps err with an exit code
func Exit(code int, err error) error {
	return &ExitErr{Code: code, Err: err}
}

// ExitCode returns the code carried by err, ExitError for other errors and
// ExitSuccess for nil
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitErr
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitError
}
