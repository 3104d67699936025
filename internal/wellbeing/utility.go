// Package wellbeing models household-level well-being losses from flood
// damage: consumption drops during reconstruction, utility losses under a
// CRRA (constant relative risk aversion) utility function, and the recovery
// rate that minimizes the total utility loss.
//
// Time is measured in years. A recovery rate l describes exponential
// reconstruction: after time t, a fraction exp(-l*t) of the damage remains.
package wellbeing

import (
	"fmt"
	"math"
)

// Utility evaluates the CRRA utility of a consumption level:
// c^(1-eta)/(1-eta), or ln(c) when eta = 1. Non-positive consumption yields
// NaN; the elasticity eta must be strictly positive.
func Utility(consumption, eta float64) (float64, error) {
	if eta <= 0 {
		return 0, fmt.Errorf("eta must be > 0, got %g", eta)
	}
	if consumption <= 0 {
		return math.NaN(), nil
	}
	if eta == 1 {
		return math.Log(consumption), nil
	}
	return math.Pow(consumption, 1-eta) / (1 - eta), nil
}

// RecoveryTime returns the time needed to rebuild rebuiltPct percent of the
// losses at the given exponential recovery rate.
func RecoveryTime(rate, rebuiltPct float64) (float64, error) {
	if rate <= 0 {
		return 0, fmt.Errorf("recovery rate must be > 0, got %g", rate)
	}
	if rebuiltPct < 0 || rebuiltPct >= 100 {
		return 0, fmt.Errorf("rebuilt percentage must be in [0, 100), got %g", rebuiltPct)
	}
	return math.Log(1/(1-rebuiltPct/100)) / rate, nil
}

// RecoveryRate returns the exponential recovery rate that rebuilds
// rebuiltPct percent of the losses within the given time.
func RecoveryRate(time, rebuiltPct float64) (float64, error) {
	if time <= 0 {
		return 0, fmt.Errorf("recovery time must be > 0, got %g", time)
	}
	if rebuiltPct < 0 || rebuiltPct >= 100 {
		return 0, fmt.Errorf("rebuilt percentage must be in [0, 100), got %g", rebuiltPct)
	}
	return math.Log(1/(1-rebuiltPct/100)) / time, nil
}

// WellbeingLoss converts a utility loss into the equivalent consumption loss
// of a household at the average consumption level: the amount an average
// earner would have to give up to feel the same well-being drop.
func WellbeingLoss(utilityLoss, avgConsumption, eta float64) float64 {
	return utilityLoss / math.Pow(avgConsumption, -eta)
}

// EquityWeight is the marginal-utility ratio of a household's consumption
// against the average consumption level.
func EquityWeight(consumption, avgConsumption, eta float64) float64 {
	return math.Pow(consumption/avgConsumption, -eta)
}
