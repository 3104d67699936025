package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// metricsFixture mirrors the shape of a FIAT metrics export: an unnamed first
// column holding metadata row labels and aggregation area names.
func metricsFixture(t *testing.T) *Table {
	t.Helper()
	tbl, err := New(
		[]string{"", "Total Damage (2Y)", "Total Damage (100Y)", "Internal Metric"},
		[][]string{
			{"Description", "damage at 2y", "damage at 100y", "debug only"},
			{"Show In Metrics Table", "True", "True", "False"},
			{"Long Name", "Total Damage (2Y)", "Total Damage (100Y)", "Internal"},
			{"BG-1", "100", "500", "1"},
			{"BG-2", "200", "800", "2"},
		},
	)
	require.NoError(t, err)
	return tbl
}

func TestIsMetricsFormat(t *testing.T) {
	assert.True(t, IsMetricsFormat(metricsFixture(t)))

	plain, err := New([]string{"Census_Bg", "Risk (EAD)"}, [][]string{{"BG-1", "50"}})
	require.NoError(t, err)
	assert.False(t, IsMetricsFormat(plain))
}

func TestNormalizeMetricsTable(t *testing.T) {
	got, err := NormalizeMetricsTable(metricsFixture(t), "Census_Bg")
	require.NoError(t, err)

	assert.Equal(t, []string{"Census_Bg", "Total Damage (2Y)", "Total Damage (100Y)"}, got.Columns)
	assert.Equal(t, [][]string{
		{"BG-1", "100", "500"},
		{"BG-2", "200", "800"},
	}, got.Rows)
}

func TestNormalizeMetricsTable_PlainTablePassesThrough(t *testing.T) {
	plain, err := New([]string{"Census_Bg", "Risk (EAD)"}, [][]string{{"BG-1", "50"}})
	require.NoError(t, err)

	got, err := NormalizeMetricsTable(plain, "Census_Bg")
	require.NoError(t, err)
	assert.Same(t, plain, got)
}

func TestNormalizeMetricsTable_NoFlaggedColumns(t *testing.T) {
	tbl, err := New(
		[]string{"", "Internal Metric"},
		[][]string{
			{"Show In Metrics Table", "False"},
			{"BG-1", "1"},
		},
	)
	require.NoError(t, err)

	_, err = NormalizeMetricsTable(tbl, "Census_Bg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no columns flagged")
}
