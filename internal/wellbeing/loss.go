package wellbeing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/integrate/quad"
)

// IntegrationMethod selects how total losses are integrated over time.
type IntegrationMethod string

const (
	// MethodTrapezoid integrates over the household's discrete time grid.
	MethodTrapezoid IntegrationMethod = "trapezoid"
	// MethodQuad uses fixed-order Gauss-Legendre quadrature over [0, tMax].
	MethodQuad IntegrationMethod = "quad"
)

// quadOrder is the number of Gauss-Legendre evaluation points. The loss rates
// are smooth decaying exponentials, so a moderate order is plenty.
const quadOrder = 100

// RateFunc is an instantaneous loss rate as a function of time.
type RateFunc func(t float64) float64

// ReconstructionCostRate is the spending rate on rebuilding at time t for
// recovery rate l, loss ratio v, and structure value kStr.
func ReconstructionCostRate(t, l, v, kStr float64) float64 {
	return l * v * kStr * math.Exp(-l*t)
}

// IncomeLossRate is the forgone capital income rate at time t, with pi the
// average productivity of capital.
func IncomeLossRate(t, l, v, kStr, pi float64) float64 {
	return pi * v * kStr * math.Exp(-l*t)
}

// ConsumptionLossRate is the total consumption shortfall rate: reconstruction
// spending plus forgone income.
func ConsumptionLossRate(t, l, v, kStr, pi float64) float64 {
	return ReconstructionCostRate(t, l, v, kStr) + IncomeLossRate(t, l, v, kStr, pi)
}

// ConsumptionRate is the household's consumption level at time t, its initial
// consumption c0 minus the consumption loss rate.
func ConsumptionRate(t, l, v, kStr, pi, c0 float64) float64 {
	return c0 - ConsumptionLossRate(t, l, v, kStr, pi)
}

// UtilityLossRate is the utility gap between undisturbed and disturbed
// consumption at time t. NaN where consumption drops to or below zero.
func UtilityLossRate(t, l, v, kStr, pi, c0, eta float64) (float64, error) {
	u0, err := Utility(c0, eta)
	if err != nil {
		return 0, err
	}
	ut, err := Utility(ConsumptionRate(t, l, v, kStr, pi, c0), eta)
	if err != nil {
		return 0, err
	}
	return u0 - ut, nil
}

// TotalLoss integrates a loss rate over time with continuous discounting at
// rate rho. MethodTrapezoid integrates rate(t)*exp(-rho*t) over the given
// time grid; MethodQuad integrates over [0, times[len-1]] and only uses the
// grid's endpoint.
func TotalLoss(rate RateFunc, rho float64, times []float64, method IntegrationMethod) (float64, error) {
	if len(times) < 2 {
		return 0, fmt.Errorf("time grid needs at least 2 points, got %d", len(times))
	}

	discounted := func(t float64) float64 {
		return rate(t) * math.Exp(-rho*t)
	}

	switch method {
	case MethodTrapezoid:
		values := make([]float64, len(times))
		for i, t := range times {
			values[i] = discounted(t)
		}
		return integrate.Trapezoidal(times, values), nil
	case MethodQuad:
		return quad.Fixed(discounted, 0, times[len(times)-1], quadOrder, nil, 0), nil
	default:
		return 0, fmt.Errorf("integration method must be %q or %q, got %q", MethodTrapezoid, MethodQuad, method)
	}
}
