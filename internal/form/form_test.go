package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hunseop/automated-task-launcher/internal/api"
	"github.com/hunseop/automated-task-launcher/internal/errors"
)

func TestBuildEmptySchema(t *testing.T) {
	b, err := Build("Import Configuration", nil)
	require.NoError(t, err)
	assert.True(t, b.Empty())
	assert.Empty(t, b.Values())
	assert.NoError(t, b.Run(), "running an empty form is a no-op")

	b, err = Build("Import Configuration", &api.TaskSchema{})
	require.NoError(t, err)
	assert.True(t, b.Empty())
}

func TestBuildAllFieldTypes(t *testing.T) {
	schema := &api.TaskSchema{Fields: []api.Field{
		{Name: "hostname", Type: "text", Placeholder: "e.g. 10.0.0.1"},
		{Name: "password", Type: "password"},
		{Name: "firewall_type", Type: "select", Options: []api.FieldOption{
			{Value: "paloalto", Label: "Palo Alto"},
			{Value: "mock", Label: "Mock"},
		}},
		{Name: "target_rules", Type: "textarea"},
	}}

	b, err := Build("Connect to Firewall", schema)
	require.NoError(t, err)
	assert.False(t, b.Empty())

	// Each declared field gets a binding, keyed by its wire name.
	values := b.Values()
	require.Len(t, values, 4)
	assert.Contains(t, values, "hostname")
	assert.Contains(t, values, "password")
	assert.Contains(t, values, "firewall_type")
	assert.Contains(t, values, "target_rules")
}

func TestBuildUnknownFieldType(t *testing.T) {
	schema := &api.TaskSchema{Fields: []api.Field{
		{Name: "mystery", Type: "checkbox"},
	}}

	_, err := Build("Connect to Firewall", schema)
	require.Error(t, err)

	var lerr *errors.LauncherError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, errors.ErrCodeSchemaFieldUnknown, lerr.Code)
	assert.Contains(t, lerr.Message, "checkbox")
	assert.Contains(t, lerr.Message, "mystery")
}

func TestValuesStartEmpty(t *testing.T) {
	schema := &api.TaskSchema{Fields: []api.Field{
		{Name: "hostname", Type: "text"},
	}}

	b, err := Build("Connect to Firewall", schema)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"hostname": ""}, b.Values())
}
