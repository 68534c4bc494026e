package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormat(t *testing.T) {
	err := New(ErrCodeProjectNotFound, "project not found: p1")
	assert.Equal(t, "[PROJECT-001] project not found: p1", err.Error())
}

func TestErrorWithCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(ErrCodeAPIRequest, "GET /projects", cause)

	assert.Contains(t, err.Error(), "[API-001] GET /projects")
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, cause, stderrors.Unwrap(err))
}

func TestErrorWithSuggestions(t *testing.T) {
	err := New(ErrCodeConfigInvalid, "bad config").
		WithSuggestion("Check the YAML syntax").
		WithSuggestions("Fix a", "Fix b")

	out := err.Error()
	assert.Contains(t, out, "Suggestions:")
	assert.Contains(t, out, "Check the YAML syntax")
	assert.Contains(t, out, "Fix b")
	assert.Len(t, err.Suggestions, 3)
}

func TestErrorsAsThroughWrapping(t *testing.T) {
	inner := New(ErrCodeAPIStatus, "bad gateway")
	outer := fmt.Errorf("submit task: %w", inner)

	var lerr *LauncherError
	require.ErrorAs(t, outer, &lerr)
	assert.Equal(t, ErrCodeAPIStatus, lerr.Code)
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, ErrCodeProjectNotFound, NewProjectNotFoundError("p1").Code)
	assert.Equal(t, ErrCodeTaskNotFound, NewTaskNotFoundError("Download Rules").Code)
	assert.Equal(t, ErrCodeTaskRestartNotAllowed, NewRestartNotAllowedError("Download Rules").Code)
	assert.Equal(t, ErrCodeResultUnsupported, NewResultUnsupportedError("csv").Code)

	pred := NewPredecessorWaitingError("Import Configuration", "Connect to Firewall")
	assert.Equal(t, ErrCodeTaskPredecessorWaiting, pred.Code)
	assert.Contains(t, pred.Message, "Connect to Firewall")

	fetch := NewSchemaFetchError("firewall_connection", fmt.Errorf("timeout"))
	assert.Equal(t, ErrCodeSchemaFetch, fetch.Code)
	assert.NotNil(t, fetch.Cause)
}
