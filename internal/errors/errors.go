package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// API errors (API-001 to API-099)
	ErrCodeAPIRequest    ErrorCode = "API-001"
	ErrCodeAPIStatus     ErrorCode = "API-002"
	ErrCodeAPIDecode     ErrorCode = "API-003"
	ErrCodeAPIBaseURL    ErrorCode = "API-004"

	// Project errors (PROJECT-001 to PROJECT-099)
	ErrCodeProjectNotFound ErrorCode = "PROJECT-001"
	ErrCodeProjectTypeUnknown ErrorCode = "PROJECT-002"

	// Task errors (TASK-001 to TASK-099)
	ErrCodeTaskNotFound           ErrorCode = "TASK-001"
	ErrCodeTaskPredecessorWaiting ErrorCode = "TASK-002"
	ErrCodeTaskSubmitFailed       ErrorCode = "TASK-003"
	ErrCodeTaskRestartNotAllowed  ErrorCode = "TASK-004"
	ErrCodeTaskRestartFailed      ErrorCode = "TASK-005"
	ErrCodeTaskInFlight           ErrorCode = "TASK-006"

	// Schema errors (SCHEMA-001 to SCHEMA-099)
	ErrCodeSchemaFetch        ErrorCode = "SCHEMA-001"
	ErrCodeSchemaFieldUnknown ErrorCode = "SCHEMA-002"

	// Result errors (RESULT-001 to RESULT-099)
	ErrCodeResultMissing     ErrorCode = "RESULT-001"
	ErrCodeResultUnsupported ErrorCode = "RESULT-002"
	ErrCodeResultFetch       ErrorCode = "RESULT-003"

	// Export errors (EXPORT-001 to EXPORT-099)
	ErrCodeExportWrite ErrorCode = "EXPORT-001"

	// Config errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigRead    ErrorCode = "CONFIG-001"
	ErrCodeConfigInvalid ErrorCode = "CONFIG-002"
)

// LauncherError represents an enhanced error with code, suggestions, and a cause
type LauncherError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	Cause       error
}

// Error implements the error interface
func (e *LauncherError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *LauncherError) Unwrap() error {
	return e.Cause
}

// New creates a new LauncherError
func New(code ErrorCode, message string) *LauncherError {
	return &LauncherError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new LauncherError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *LauncherError {
	return &LauncherError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *LauncherError) WithSuggestion(suggestion string) *LauncherError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *LauncherError) WithSuggestions(suggestions ...string) *LauncherError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// Common error constructors for frequently used errors

// NewProjectNotFoundError creates a project not found error
func NewProjectNotFoundError(id string) *LauncherError {
	return New(ErrCodeProjectNotFound, fmt.Sprintf("project not found: %s", id)).
		WithSuggestion("Run 'atl projects list' to see available projects").
		WithSuggestion("Check if the project id is correct")
}

// NewTaskNotFoundError creates a task not found error
func NewTaskNotFoundError(name string) *LauncherError {
	return New(ErrCodeTaskNotFound, fmt.Sprintf("task not found: %s", name)).
		WithSuggestion("Task names are case sensitive; check the project's task list")
}

// NewPredecessorWaitingError signals a submission attempt before the previous task completed
func NewPredecessorWaitingError(task, predecessor string) *LauncherError {
	return New(ErrCodeTaskPredecessorWaiting,
		fmt.Sprintf("task %q requires %q to be completed first", task, predecessor)).
		WithSuggestion(fmt.Sprintf("Complete %q before retrying", predecessor))
}

// NewRestartNotAllowedError signals a restart on a non-terminal task
func NewRestartNotAllowedError(task string) *LauncherError {
	return New(ErrCodeTaskRestartNotAllowed,
		fmt.Sprintf("task %q is still waiting and cannot be restarted", task)).
		WithSuggestion("Only Completed or Error tasks can be restarted")
}

// NewSchemaFetchError creates a schema fetch error
func NewSchemaFetchError(taskType string, cause error) *LauncherError {
	return Wrap(ErrCodeSchemaFetch, fmt.Sprintf("failed to fetch input schema for task type %q", taskType), cause).
		WithSuggestion("Check that the backend is reachable").
		WithSuggestion("The task will proceed as if it required no input")
}

// NewResultUnsupportedError creates an unsupported result format error
func NewResultUnsupportedError(kind string) *LauncherError {
	return New(ErrCodeResultUnsupported, fmt.Sprintf("unsupported result format: %q", kind)).
		WithSuggestion("Upgrade atl; the backend produced a result kind this version does not render")
}

// NewExportWriteError creates an export failure error
func NewExportWriteError(path string, cause error) *LauncherError {
	return Wrap(ErrCodeExportWrite, fmt.Sprintf("failed to write spreadsheet: %s", path), cause).
		WithSuggestion("Check that the export directory exists and is writable")
}
