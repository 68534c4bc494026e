package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextTask(t *testing.T) {
	s := NewSequencer()

	next, ok := s.NextTask("Connect to Firewall")
	assert.True(t, ok)
	assert.Equal(t, "Import Configuration", next)

	// Shared early tasks resolve against the first sequence that lists them.
	next, ok = s.NextTask("Import Configuration")
	assert.True(t, ok)
	assert.Equal(t, "Process Policies", next)

	next, ok = s.NextTask("Input Target Rules")
	assert.True(t, ok)
	assert.Equal(t, "Process Impact Analysis", next)
}

func TestNextTaskTerminalAndUnknown(t *testing.T) {
	s := NewSequencer()

	_, ok := s.NextTask("Download Rules")
	assert.False(t, ok)

	_, ok = s.NextTask("No Such Task")
	assert.False(t, ok)

	_, ok = s.NextTask("")
	assert.False(t, ok)
}

func TestKind(t *testing.T) {
	s := NewSequencer()

	kind, ok := s.Kind("Process Shadow Policies")
	assert.True(t, ok)
	assert.Equal(t, "shadow-policy", kind)

	kind, ok = s.Kind("Process Impact Analysis")
	assert.True(t, ok)
	assert.Equal(t, "block-impact", kind)

	kind, ok = s.Kind("Select a Firewall Type")
	assert.True(t, ok)
	assert.Equal(t, "export-rules", kind, "shared tasks resolve first-match")

	_, ok = s.Kind("No Such Task")
	assert.False(t, ok)
}
