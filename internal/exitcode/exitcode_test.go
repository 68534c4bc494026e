package exitcode

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hunseop/automated-task-launcher/internal/errors"
)

func TestDetermineExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, Success},
		{"plain error", fmt.Errorf("boom"), GeneralError},
		{"project not found", errors.NewProjectNotFoundError("p1"), NotFound},
		{"task not found", errors.NewTaskNotFoundError("Download Rules"), NotFound},
		{"result missing", errors.New(errors.ErrCodeResultMissing, "no result"), NotFound},
		{"api request", errors.New(errors.ErrCodeAPIRequest, "refused"), NetworkError},
		{"api status", errors.New(errors.ErrCodeAPIStatus, "bad gateway"), NetworkError},
		{"restart not allowed", errors.NewRestartNotAllowedError("x"), GeneralError},
		{"export failure", errors.NewExportWriteError("/tmp/x.xlsx", fmt.Errorf("denied")), GeneralError},
		{"wrapped launcher error", fmt.Errorf("outer: %w", errors.NewProjectNotFoundError("p1")), NotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineExitCode(tt.err))
		})
	}
}
