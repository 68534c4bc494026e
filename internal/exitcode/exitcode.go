package exitcode

import (
	stderrors "errors"
	"os"
	"strings"

	"github.com/hunseop/automated-task-launcher/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// NotFound indicates a project or task lookup failure
	NotFound = 3

	// NetworkError indicates the backend was unreachable or answered non-2xx
	NetworkError = 4

	// Interrupted indicates the user cancelled the operation
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}
	Exit(DetermineExitCode(err))
}

// DetermineExitCode analyzes an error and returns the appropriate exit code
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	var lerr *errors.LauncherError
	if !stderrors.As(err, &lerr) {
		return GeneralError
	}

	switch {
	case lerr.Code == errors.ErrCodeProjectNotFound,
		lerr.Code == errors.ErrCodeTaskNotFound,
		lerr.Code == errors.ErrCodeResultMissing:
		return NotFound
	case strings.HasPrefix(string(lerr.Code), "API-"):
		return NetworkError
	default:
		return GeneralError
	}
}
