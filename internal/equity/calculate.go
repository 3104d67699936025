package equity

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/couchcryptid/flood-equity-etl/internal/table"
)

// UnitResult holds the computed metrics of one aggregation area.
type UnitResult struct {
	Label        string
	Income       float64 // per-capita income
	Population   float64
	AnnualIncome float64 // income * population
	Weight       float64 // equity weight EW

	// Per-return-period values, aligned with Result.ReturnPeriods.
	// Empty when the damage table only carries an EAD column.
	RiskPremiums []float64
	EWCED        []float64

	EWCEAD float64

	// Present only when the damage table has an EAD column.
	EAD         float64
	WeightedEAD float64
}

// Result is one equity calculation over the joined dataset. Rows preserve the
// joined (damage-table) order and count.
type Result struct {
	Gamma         float64
	ReturnPeriods []int
	Unmatched     int
	HasEAD        bool
	Units         []UnitResult
	ProcessedAt   time.Time
}

// Calculate derives equity weights and equity-weighted damages for the given
// elasticity. The result is recomputed from the immutable joined dataset on
// every call; the same gamma yields bit-identical output.
func (c *Calculator) Calculate(gamma float64) (*Result, error) {
	if math.IsNaN(gamma) || math.IsInf(gamma, 0) {
		return nil, &DomainError{Quantity: "gamma", Detail: "must be finite"}
	}
	if gamma == 1 {
		return nil, &DomainError{Quantity: "gamma", Detail: "must not equal 1 (singular certainty-equivalence exponent)"}
	}

	refIncome, err := c.referenceIncome()
	if err != nil {
		return nil, err
	}

	res := &Result{
		Gamma:         gamma,
		ReturnPeriods: c.returnPeriods,
		Unmatched:     c.unmatched,
		HasEAD:        c.hasEAD,
		Units:         make([]UnitResult, len(c.units)),
		ProcessedAt:   clock.Now(),
	}

	coefs := rpCoefficients(c.returnPeriods)

	for i, u := range c.units {
		weight := math.Pow(u.income/refIncome, -gamma)
		if math.IsNaN(weight) || math.IsInf(weight, 0) {
			return nil, &DomainError{
				Quantity: "equity weight",
				Detail:   fmt.Sprintf("area %q: weight is not finite for income %g and gamma %g", u.label, u.income, gamma),
			}
		}

		ur := UnitResult{
			Label:        u.label,
			Income:       u.income,
			Population:   u.population,
			AnnualIncome: u.income * u.population,
			Weight:       weight,
		}

		if len(c.returnPeriods) > 0 {
			ur.RiskPremiums = make([]float64, len(c.returnPeriods))
			ur.EWCED = make([]float64, len(c.returnPeriods))
			for j, rp := range c.returnPeriods {
				premium := riskPremium(u.damages[j], ur.AnnualIncome, rp, gamma)
				ur.RiskPremiums[j] = premium
				ur.EWCED[j] = weight * premium * u.damages[j]
			}
			ur.EWCEAD = floats.Dot(coefs, ur.EWCED)
		}

		if c.hasEAD {
			ur.EAD = u.ead
			ur.WeightedEAD = weight * u.ead
			if len(c.returnPeriods) == 0 {
				ur.EWCEAD = ur.WeightedEAD
			}
		}

		res.Units[i] = ur
	}

	c.last = res
	return res, nil
}

// referenceIncome is the population-weighted mean per-capita income.
func (c *Calculator) referenceIncome() (float64, error) {
	incomes := make([]float64, len(c.units))
	weights := make([]float64, len(c.units))
	for i, u := range c.units {
		incomes[i] = u.income
		weights[i] = u.population
	}
	if floats.Sum(weights) == 0 {
		return 0, &DomainError{Quantity: "reference income", Detail: "total population is zero"}
	}
	ref := stat.Mean(incomes, weights)
	if !(ref > 0) || math.IsInf(ref, 0) {
		return 0, &DomainError{
			Quantity: "reference income",
			Detail:   fmt.Sprintf("population-weighted mean income %g must be strictly positive", ref),
		}
	}
	return ref, nil
}

// riskPremium computes the certainty-equivalence risk premium for one damage
// value. With P the annual exceedance probability and z the damage as a share
// of aggregated annual income, the premium is
//
//	R = (1 - (1 + P*((1-z)^(1-gamma) - 1))^(1/(1-gamma))) / (P * z)
//
// NaN collapses to 0, which covers z = 0 (no damage, no premium) and areas
// with zero annual income.
func riskPremium(damage, annualIncome float64, rp int, gamma float64) float64 {
	p := 1 - math.Exp(-1/float64(rp))
	z := damage / annualIncome
	r := (1 - math.Pow(1+p*(math.Pow(1-z, 1-gamma)-1), 1/(1-gamma))) / (p * z)
	if math.IsNaN(r) {
		return 0
	}
	return r
}

// Table renders a result as the standard equity output table with columns
// [aggregation label, EW, EWCEAD].
func (r *Result) Table(aggregationLabel string) (*table.Table, error) {
	rows := make([][]string, len(r.Units))
	for i, u := range r.Units {
		rows[i] = []string{
			u.Label,
			strconv.FormatFloat(u.Weight, 'g', -1, 64),
			strconv.FormatFloat(u.EWCEAD, 'g', -1, 64),
		}
	}
	return table.New([]string{aggregationLabel, "EW", "EWCEAD"}, rows)
}

// TotalEWCEAD sums the equity-weighted expected annual damage over all areas.
func (r *Result) TotalEWCEAD() float64 {
	total := 0.0
	for _, u := range r.Units {
		total += u.EWCEAD
	}
	return total
}
