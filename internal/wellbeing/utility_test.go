package wellbeing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUtility(t *testing.T) {
	t.Run("CRRA form", func(t *testing.T) {
		u, err := Utility(100, 1.5)
		require.NoError(t, err)
		// 100^(-0.5) / (-0.5) = -0.2
		assert.InDelta(t, -0.2, u, 1e-12)
	})

	t.Run("eta of one falls back to log", func(t *testing.T) {
		u, err := Utility(math.E, 1)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, u, 1e-12)
	})

	t.Run("non-positive consumption yields NaN", func(t *testing.T) {
		for _, c := range []float64{0, -10} {
			u, err := Utility(c, 1.5)
			require.NoError(t, err)
			assert.True(t, math.IsNaN(u))
		}
	})

	t.Run("non-positive eta rejected", func(t *testing.T) {
		_, err := Utility(100, 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "eta")
	})

	t.Run("utility increases with consumption", func(t *testing.T) {
		prev := math.Inf(-1)
		for _, c := range []float64{10, 100, 1000} {
			u, err := Utility(c, 1.5)
			require.NoError(t, err)
			assert.Greater(t, u, prev)
			prev = u
		}
	})
}

func TestRecoveryTimeAndRate(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		duration, err := RecoveryTime(0.8, 95)
		require.NoError(t, err)
		rate, err := RecoveryRate(duration, 95)
		require.NoError(t, err)
		assert.InDelta(t, 0.8, rate, 1e-12)
	})

	t.Run("95 percent rebuilt at rate one", func(t *testing.T) {
		duration, err := RecoveryTime(1, 95)
		require.NoError(t, err)
		assert.InDelta(t, math.Log(20), duration, 1e-12)
	})

	t.Run("invalid inputs", func(t *testing.T) {
		_, err := RecoveryTime(0, 95)
		require.Error(t, err)
		_, err = RecoveryTime(1, 100)
		require.Error(t, err)
		_, err = RecoveryRate(-1, 95)
		require.Error(t, err)
	})
}

func TestEquityWeight(t *testing.T) {
	// Average consumption gets weight 1; poorer households weigh more.
	assert.InDelta(t, 1.0, EquityWeight(30000, 30000, 1.5), 1e-12)
	assert.Greater(t, EquityWeight(15000, 30000, 1.5), 1.0)
	assert.Less(t, EquityWeight(60000, 30000, 1.5), 1.0)
}

func TestWellbeingLoss(t *testing.T) {
	// du / cAvg^-eta: scales the utility loss by marginal utility at the mean.
	du := 0.001
	got := WellbeingLoss(du, 30000, 1.5)
	assert.InDelta(t, du*math.Pow(30000, 1.5), got, 1e-6)
	assert.Greater(t, got, 0.0)
}
