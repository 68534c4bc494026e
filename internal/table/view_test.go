package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsLine(t *testing.T) {
	line := StatsLine(Stats{Total: 3, Counts: []StatCount{
		{Label: "Allow Rules", Count: 2},
		{Label: "Deny Rules", Count: 1},
	}})
	assert.Equal(t, "Total: 3  •  Allow Rules: 2  •  Deny Rules: 1", line)

	assert.Equal(t, "Total: 0", StatsLine(Stats{}))
}

func TestModelApplyFilterResetsPage(t *testing.T) {
	rows := make([]map[string]any, 0, 30)
	for i := 0; i < 30; i++ {
		action := "allow"
		if i%2 == 1 {
			action = "deny"
		}
		rows = append(rows, map[string]any{"seq": i, "action": action})
	}

	m := NewModel(rows, ViewOptions{PageSize: 10})
	require.Len(t, m.filtered, 30)

	m.pager.NextPage()
	assert.Equal(t, 1, m.pager.Page)

	m.applyFilter("deny")
	assert.Len(t, m.filtered, 15)
	assert.Equal(t, 0, m.pager.Page, "a new filter jumps back to the first page")

	// Clearing restores the untouched source rows.
	m.applyFilter("")
	assert.Len(t, m.filtered, 30)
}

func TestModelDefaultsPageSize(t *testing.T) {
	m := NewModel(nil, ViewOptions{})
	assert.Equal(t, 10, m.opts.PageSize)
	assert.Empty(t, m.columns)
}
