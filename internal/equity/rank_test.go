package equity

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/flood-equity-etl/internal/table"
)

func TestRankEWCED_RequiresCalculation(t *testing.T) {
	calc := newThreeUnitCalculator(t)

	_, err := calc.RankEWCED()
	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)
	assert.Contains(t, err.Error(), "equity_calculation")
}

func TestRankEWCED(t *testing.T) {
	calc := newThreeUnitCalculator(t)
	_, err := calc.Calculate(1.2)
	require.NoError(t, err)

	rankings, err := calc.RankEWCED()
	require.NoError(t, err)
	require.Len(t, rankings, 3)

	// Output is a permutation of the joined labels and positions run 1..n.
	labels := make([]string, len(rankings))
	positionSum := 0
	for i, r := range rankings {
		labels[i] = r.Label
		positionSum += r.Position
	}
	sort.Strings(labels)
	assert.Equal(t, []string{"BG-1", "BG-2", "BG-3"}, labels)
	assert.Equal(t, 6, positionSum) // n*(n+1)/2 for n=3

	// Identical EAD everywhere: unweighted ranks fall back to label order.
	// Equity weighting pushes the poorest area to the top of EWCEAD, so its
	// rank cannot worsen and the richest area's cannot improve.
	byLabel := map[string]Ranking{}
	for _, r := range rankings {
		byLabel[r.Label] = r
	}
	assert.LessOrEqual(t, byLabel["BG-1"].RankDiff, 0)
	assert.GreaterOrEqual(t, byLabel["BG-3"].RankDiff, 0)

	// Ordered by RankDiff ascending.
	for i := 1; i < len(rankings); i++ {
		assert.LessOrEqual(t, rankings[i-1].RankDiff, rankings[i].RankDiff)
	}
}

func TestRankEWCED_DivergenceUnderWeighting(t *testing.T) {
	// BG-rich has the largest raw EAD, BG-poor the smallest. With a strong
	// elasticity the poor area overtakes it in the weighted ranking.
	census := censusTable(t, [][]string{
		{"BG-poor", "5000", "100"},
		{"BG-mid", "20000", "100"},
		{"BG-rich", "60000", "100"},
	})
	damage := eadTable(t, [][]string{
		{"BG-poor", "40"},
		{"BG-mid", "50"},
		{"BG-rich", "60"},
	})
	calc, err := NewFromTables(census, damage, testOptions)
	require.NoError(t, err)
	_, err = calc.Calculate(2)
	require.NoError(t, err)

	rankings, err := calc.RankEWCED()
	require.NoError(t, err)

	byLabel := map[string]Ranking{}
	for _, r := range rankings {
		byLabel[r.Label] = r
	}
	assert.Equal(t, 3, byLabel["BG-poor"].RankEAD)
	assert.Equal(t, 1, byLabel["BG-poor"].RankEWCEAD)
	assert.Equal(t, -2, byLabel["BG-poor"].RankDiff)
	assert.Equal(t, 1, byLabel["BG-poor"].Position)
	assert.Equal(t, 1, byLabel["BG-rich"].RankEAD)
	assert.Equal(t, 3, byLabel["BG-rich"].RankEWCEAD)
	assert.Equal(t, 2, byLabel["BG-rich"].RankDiff)
}

func TestRankEWCED_NoEADColumn(t *testing.T) {
	damage, err := table.New(
		[]string{"Census_Bg", "Total Damage (2Y)"},
		[][]string{{"BG-1", "100"}},
	)
	require.NoError(t, err)
	calc, err := NewFromTables(threeUnitCensus(t), damage, testOptions)
	require.NoError(t, err)
	_, err = calc.Calculate(1.2)
	require.NoError(t, err)

	_, err = calc.RankEWCED()
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, DefaultEADColumn, schemaErr.Column)
}

func TestRankingTable(t *testing.T) {
	calc := newThreeUnitCalculator(t)
	_, err := calc.Calculate(1.2)
	require.NoError(t, err)

	rankings, err := calc.RankEWCED()
	require.NoError(t, err)

	tbl, err := RankingTable(rankings, "Census_Bg")
	require.NoError(t, err)
	assert.Equal(t, []string{"Census_Bg", "rank_EAD", "rank_EWCEAD", "rank_diff", "position"}, tbl.Columns)
	require.Len(t, tbl.Rows, 3)
	assert.Equal(t, rankings[0].Label, tbl.Rows[0][0])
	assert.Equal(t, "1", tbl.Rows[0][4])
}

func TestResilienceIndex(t *testing.T) {
	calc := newThreeUnitCalculator(t)

	t.Run("requires calculation", func(t *testing.T) {
		_, err := calc.ResilienceIndex()
		var stateErr *StateError
		require.ErrorAs(t, err, &stateErr)
	})

	_, err := calc.Calculate(1.2)
	require.NoError(t, err)

	scores, err := calc.ResilienceIndex()
	require.NoError(t, err)
	require.Len(t, scores, 3)

	// SRI = EAD/EWCEAD: below 1 where weighting amplifies risk (poor areas),
	// above 1 where it dampens it (rich areas).
	assert.Equal(t, "BG-1", scores[0].Label)
	assert.Less(t, scores[0].SRI, 1.0)
	assert.Greater(t, scores[2].SRI, 1.0)
}

func TestResilienceIndex_ZeroEWCEADYieldsNaN(t *testing.T) {
	census := censusTable(t, [][]string{
		{"BG-1", "10000", "100"},
		{"BG-2", "20000", "100"},
	})
	damage := eadTable(t, [][]string{
		{"BG-1", "0"},
		{"BG-2", "50"},
	})
	calc, err := NewFromTables(census, damage, testOptions)
	require.NoError(t, err)
	_, err = calc.Calculate(1.2)
	require.NoError(t, err)

	scores, err := calc.ResilienceIndex()
	require.NoError(t, err)
	assert.True(t, math.IsNaN(scores[0].SRI))
	assert.False(t, math.IsNaN(scores[1].SRI))
}

func TestResilienceTable(t *testing.T) {
	calc := newThreeUnitCalculator(t)
	_, err := calc.Calculate(1.2)
	require.NoError(t, err)

	scores, err := calc.ResilienceIndex()
	require.NoError(t, err)

	tbl, err := ResilienceTable(scores, "Census_Bg")
	require.NoError(t, err)
	assert.Equal(t, []string{"Census_Bg", "SRI"}, tbl.Columns)
	require.Len(t, tbl.Rows, 3)
	assert.Equal(t, "BG-1", tbl.Rows[0][0])
}
