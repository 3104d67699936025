package equity

import (
	"fmt"
	"math"
	"sort"

	"github.com/couchcryptid/flood-equity-etl/internal/table"
)

// Default column conventions of FIAT damage exports.
const (
	DefaultDamagePattern = "Total Damage ({rp}Y)"
	DefaultEADColumn     = "Risk (EAD)"
)

// Options names the columns the calculator reads from its two input tables.
type Options struct {
	AggregationLabel string // join key, required
	IncomeLabel      string // per-capita income column in the census table, required
	PopulationLabel  string // total population column in the census table, required

	// DamagePattern matches per-return-period damage columns; {rp} captures
	// the return period in years. Defaults to DefaultDamagePattern.
	DamagePattern string

	// EADColumn names the precomputed expected annual damage column.
	// Defaults to DefaultEADColumn.
	EADColumn string
}

func (o *Options) applyDefaults() {
	if o.DamagePattern == "" {
		o.DamagePattern = DefaultDamagePattern
	}
	if o.EADColumn == "" {
		o.EADColumn = DefaultEADColumn
	}
}

// unit is one joined aggregation area.
type unit struct {
	label      string
	income     float64
	population float64
	damages    []float64 // aligned with Calculator.returnPeriods
	ead        float64
}

// Calculator joins census and damage data once at construction and derives
// equity-weighted risk metrics on demand. A Calculator is not safe for
// concurrent use; callers sharing one instance must serialize access.
type Calculator struct {
	opts          Options
	units         []unit // damage-table row order
	returnPeriods []int  // ascending, empty when only an EAD column exists
	hasEAD        bool
	unmatched     int // damage rows dropped for lack of a census match

	last *Result
}

// New reads both tables from disk and joins them. File read failures
// propagate wrapped with their path.
func New(censusPath, damagePath string, opts Options) (*Calculator, error) {
	census, err := table.ReadCSV(censusPath)
	if err != nil {
		return nil, err
	}
	damage, err := table.ReadCSV(damagePath)
	if err != nil {
		return nil, err
	}
	return NewFromTables(census, damage, opts)
}

// NewFromTables joins in-memory census and damage tables on the aggregation
// label. The damage table is the left side: its row order is preserved, rows
// without a census match are dropped and counted, and census rows without a
// damage row are ignored.
func NewFromTables(census, damage *table.Table, opts Options) (*Calculator, error) {
	opts.applyDefaults()
	if opts.AggregationLabel == "" {
		return nil, &ValidationError{Detail: "aggregation label must not be empty"}
	}

	damage, err := table.NormalizeMetricsTable(damage, opts.AggregationLabel)
	if err != nil {
		return nil, &ValidationError{Detail: err.Error()}
	}

	for _, col := range []string{opts.AggregationLabel, opts.IncomeLabel, opts.PopulationLabel} {
		if !census.HasColumn(col) {
			return nil, &SchemaError{Table: "census", Column: col}
		}
	}
	if !damage.HasColumn(opts.AggregationLabel) {
		return nil, &SchemaError{Table: "damage", Column: opts.AggregationLabel}
	}

	re, err := compileDamagePattern(opts.DamagePattern)
	if err != nil {
		return nil, &ValidationError{Detail: err.Error()}
	}

	rpColumns := map[int]string{}
	for _, name := range damage.Columns {
		if rp, ok := returnPeriodFromColumn(re, name); ok {
			rpColumns[rp] = name
		}
	}
	returnPeriods := make([]int, 0, len(rpColumns))
	for rp := range rpColumns {
		returnPeriods = append(returnPeriods, rp)
	}
	sort.Ints(returnPeriods)

	hasEAD := damage.HasColumn(opts.EADColumn)
	if len(returnPeriods) == 0 && !hasEAD {
		return nil, &SchemaError{Table: "damage", Column: opts.DamagePattern}
	}

	c := &Calculator{
		opts:          opts,
		returnPeriods: returnPeriods,
		hasEAD:        hasEAD,
	}
	if err := c.join(census, damage, rpColumns); err != nil {
		return nil, err
	}
	return c, nil
}

// censusRow holds the validated socio-economic values of one census row.
type censusRow struct {
	income     float64
	population float64
}

// join indexes the census table by label and walks the damage table in order.
func (c *Calculator) join(census, damage *table.Table, rpColumns map[int]string) error {
	censusLabels, err := census.Column(c.opts.AggregationLabel)
	if err != nil {
		return &ValidationError{Detail: err.Error()}
	}
	incomes, err := census.Floats(c.opts.IncomeLabel)
	if err != nil {
		return &ValidationError{Detail: err.Error()}
	}
	populations, err := census.Floats(c.opts.PopulationLabel)
	if err != nil {
		return &ValidationError{Detail: err.Error()}
	}

	byLabel := make(map[string]censusRow, len(censusLabels))
	for i, label := range censusLabels {
		if _, dup := byLabel[label]; dup {
			return &ValidationError{Detail: fmt.Sprintf("census table: duplicate aggregation label %q", label)}
		}
		if err := validateCensusValue(c.opts.IncomeLabel, label, incomes[i]); err != nil {
			return err
		}
		if err := validateCensusValue(c.opts.PopulationLabel, label, populations[i]); err != nil {
			return err
		}
		byLabel[label] = censusRow{income: incomes[i], population: populations[i]}
	}

	damageLabels, err := damage.Column(c.opts.AggregationLabel)
	if err != nil {
		return &ValidationError{Detail: err.Error()}
	}

	rpValues := make([][]float64, len(c.returnPeriods))
	for i, rp := range c.returnPeriods {
		if rpValues[i], err = damage.Floats(rpColumns[rp]); err != nil {
			return &ValidationError{Detail: "damage table: " + err.Error()}
		}
	}
	var eads []float64
	if c.hasEAD {
		if eads, err = damage.Floats(c.opts.EADColumn); err != nil {
			return &ValidationError{Detail: "damage table: " + err.Error()}
		}
	}

	seen := make(map[string]bool, len(damageLabels))
	for i, label := range damageLabels {
		if seen[label] {
			return &ValidationError{Detail: fmt.Sprintf("damage table: duplicate aggregation label %q", label)}
		}
		seen[label] = true

		cr, ok := byLabel[label]
		if !ok {
			c.unmatched++
			continue
		}

		u := unit{
			label:      label,
			income:     cr.income,
			population: cr.population,
			damages:    make([]float64, len(c.returnPeriods)),
		}
		for j := range c.returnPeriods {
			u.damages[j] = rpValues[j][i]
		}
		if c.hasEAD {
			u.ead = eads[i]
		}
		c.units = append(c.units, u)
	}

	return nil
}

// validateCensusValue rejects negative or non-finite population and income.
func validateCensusValue(column, label string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &DomainError{
			Quantity: column,
			Detail:   fmt.Sprintf("area %q: value is not finite", label),
		}
	}
	if v < 0 {
		return &DomainError{
			Quantity: column,
			Detail:   fmt.Sprintf("area %q: %g is negative, must be >= 0", label, v),
		}
	}
	return nil
}

// Units returns the number of joined aggregation areas.
func (c *Calculator) Units() int { return len(c.units) }

// Unmatched returns the number of damage rows dropped for lack of a census match.
func (c *Calculator) Unmatched() int { return c.unmatched }

// ReturnPeriods returns the return periods found in the damage table, ascending.
func (c *Calculator) ReturnPeriods() []int { return c.returnPeriods }
