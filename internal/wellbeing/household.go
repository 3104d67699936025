package wellbeing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
)

// LossKind names one component of a household's post-flood losses.
type LossKind string

const (
	LossReconstruction LossKind = "reconstruction"
	LossIncome         LossKind = "income"
	LossConsumption    LossKind = "consumption"
	LossUtility        LossKind = "utility"
)

// Defaults for household parameters, shared across studies.
const (
	DefaultCapitalProductivity = 0.15     // pi, from Penn World Tables
	DefaultEta                 = 1.5      // elasticity of marginal utility
	DefaultDiscountRate        = 0.06     // rho
	DefaultTMax                = 10.0     // years simulated
	DefaultDT                  = 1.0 / 52 // weekly grid
	DefaultRebuiltPct          = 95.0     // recovery considered complete
)

// Household models one household's recovery from a flood loss.
//
// LossRatio is the damage divided by the structure value; RecoveryRate may be
// zero, in which case it must be found with OptimizeRecovery before
// loss totals can be computed.
type Household struct {
	LossRatio           float64 // v
	StructureValue      float64 // kStr
	InitialConsumption  float64 // c0
	AverageConsumption  float64 // cAvg
	RecoveryRate        float64 // l, 0 = not yet determined
	CapitalProductivity float64 // pi
	Eta                 float64
	DiscountRate        float64 // rho
	TMax                float64
	DT                  float64
}

// NewHousehold builds a household with the package defaults for the model
// parameters. Callers adjust fields before computing losses.
func NewHousehold(lossRatio, structureValue, initialConsumption, avgConsumption float64) *Household {
	return &Household{
		LossRatio:           lossRatio,
		StructureValue:      structureValue,
		InitialConsumption:  initialConsumption,
		AverageConsumption:  avgConsumption,
		CapitalProductivity: DefaultCapitalProductivity,
		Eta:                 DefaultEta,
		DiscountRate:        DefaultDiscountRate,
		TMax:                DefaultTMax,
		DT:                  DefaultDT,
	}
}

// Times returns the household's time grid: evenly spaced points from 0 to
// TMax with a step no coarser than DT.
func (h *Household) Times() []float64 {
	n := int(h.TMax/h.DT) + 1
	dt := h.TMax / float64(n)
	times := make([]float64, n+1)
	for i := range times {
		times[i] = float64(i) * dt
	}
	times[n] = h.TMax
	return times
}

// RecoveryDuration returns the time to rebuild DefaultRebuiltPct percent of
// the losses at the household's recovery rate.
func (h *Household) RecoveryDuration() (float64, error) {
	if h.RecoveryRate == 0 {
		return 0, fmt.Errorf("recovery rate is not set; call OptimizeRecovery or set RecoveryRate")
	}
	return RecoveryTime(h.RecoveryRate, DefaultRebuiltPct)
}

// LossRate returns the instantaneous rate function for one loss component.
func (h *Household) LossRate(kind LossKind) (RateFunc, error) {
	if h.RecoveryRate == 0 {
		return nil, fmt.Errorf("recovery rate is not set; call OptimizeRecovery or set RecoveryRate")
	}
	return h.lossRateAt(kind, h.RecoveryRate)
}

func (h *Household) lossRateAt(kind LossKind, l float64) (RateFunc, error) {
	v, k, pi, c0 := h.LossRatio, h.StructureValue, h.CapitalProductivity, h.InitialConsumption
	switch kind {
	case LossReconstruction:
		return func(t float64) float64 { return ReconstructionCostRate(t, l, v, k) }, nil
	case LossIncome:
		return func(t float64) float64 { return IncomeLossRate(t, l, v, k, pi) }, nil
	case LossConsumption:
		return func(t float64) float64 { return ConsumptionLossRate(t, l, v, k, pi) }, nil
	case LossUtility:
		eta := h.Eta
		return func(t float64) float64 {
			du, err := UtilityLossRate(t, l, v, k, pi, c0, eta)
			if err != nil {
				return math.NaN()
			}
			return du
		}, nil
	default:
		return nil, fmt.Errorf("unknown loss kind %q", kind)
	}
}

// TotalLoss integrates one loss component over the household's time grid,
// discounted at the household's discount rate.
func (h *Household) TotalLoss(kind LossKind, method IntegrationMethod) (float64, error) {
	rate, err := h.LossRate(kind)
	if err != nil {
		return 0, err
	}
	return TotalLoss(rate, h.DiscountRate, h.Times(), method)
}

// ComputeLosses fills in the discounted totals of all loss components.
func (h *Household) ComputeLosses(method IntegrationMethod) (map[LossKind]float64, error) {
	out := make(map[LossKind]float64, 4)
	for _, kind := range []LossKind{LossReconstruction, LossIncome, LossConsumption, LossUtility} {
		total, err := h.TotalLoss(kind, method)
		if err != nil {
			return nil, err
		}
		out[kind] = total
	}
	return out, nil
}

// WellbeingLoss converts the household's total utility loss into the
// equivalent consumption loss of an average earner.
func (h *Household) WellbeingLoss(method IntegrationMethod) (float64, error) {
	du, err := h.TotalLoss(LossUtility, method)
	if err != nil {
		return 0, err
	}
	return WellbeingLoss(du, h.AverageConsumption, h.Eta), nil
}

// OptimizeRecovery searches [lMin, lMax] for the recovery rate minimizing the
// household's total undiscounted utility loss and stores it on the household.
// Rates where consumption goes non-positive integrate to NaN and are scored
// as +Inf, steering the Nelder-Mead search back into the feasible region.
func (h *Household) OptimizeRecovery(lMin, lMax float64) (float64, error) {
	if lMin <= 0 || lMax <= lMin {
		return 0, fmt.Errorf("recovery rate bounds must satisfy 0 < lMin < lMax, got [%g, %g]", lMin, lMax)
	}

	times := h.Times()
	objective := func(x []float64) float64 {
		l := math.Min(math.Max(x[0], lMin), lMax)
		rate, err := h.lossRateAt(LossUtility, l)
		if err != nil {
			return math.Inf(1)
		}
		total, err := TotalLoss(rate, 0, times, MethodQuad)
		if err != nil || math.IsNaN(total) {
			return math.Inf(1)
		}
		return total
	}

	problem := optimize.Problem{Func: objective}
	result, err := optimize.Minimize(problem, []float64{lMin}, nil, &optimize.NelderMead{})
	if err != nil {
		return 0, fmt.Errorf("optimize recovery rate: %w", err)
	}

	l := math.Min(math.Max(result.X[0], lMin), lMax)
	h.RecoveryRate = l
	return l, nil
}
