package equity

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/couchcryptid/flood-equity-etl/internal/table"
)

// Ranking compares one area's priority under unweighted and equity-weighted
// risk. Ranks are ordinal, 1 = highest damage, ties broken by label. A
// negative RankDiff means the area ranks higher (more urgent) once equity
// weighting is applied.
type Ranking struct {
	Label      string
	RankEAD    int
	RankEWCEAD int
	RankDiff   int // RankEWCEAD - RankEAD
	Position   int // 1-based position in the returned ordering
}

// RankEWCED ranks areas by the divergence between their equity-weighted and
// unweighted risk ranks. It requires Calculate to have run and the damage
// table to carry an EAD column. Output is ordered by RankDiff ascending
// (areas whose priority rises most come first), ties by label, and is a
// permutation of the joined area labels.
func (c *Calculator) RankEWCED() ([]Ranking, error) {
	if c.last == nil {
		return nil, &StateError{Operation: "rank_ewced", Requires: "equity_calculation"}
	}
	if !c.hasEAD {
		return nil, &SchemaError{Table: "damage", Column: c.opts.EADColumn}
	}

	units := c.last.Units
	rankEAD := ordinalRanks(units, func(u *UnitResult) float64 { return u.EAD })
	rankEWCEAD := ordinalRanks(units, func(u *UnitResult) float64 { return u.EWCEAD })

	out := make([]Ranking, len(units))
	for i := range units {
		out[i] = Ranking{
			Label:      units[i].Label,
			RankEAD:    rankEAD[i],
			RankEWCEAD: rankEWCEAD[i],
			RankDiff:   rankEWCEAD[i] - rankEAD[i],
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RankDiff != out[j].RankDiff {
			return out[i].RankDiff < out[j].RankDiff
		}
		return out[i].Label < out[j].Label
	})
	for i := range out {
		out[i].Position = i + 1
	}
	return out, nil
}

// ordinalRanks assigns descending ordinal ranks (1 = largest value) to each
// unit, ties broken by label ascending. The returned slice is indexed by the
// unit's position in units.
func ordinalRanks(units []UnitResult, value func(*UnitResult) float64) []int {
	order := make([]int, len(units))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		va, vb := value(&units[order[a]]), value(&units[order[b]])
		if va != vb {
			return va > vb
		}
		return units[order[a]].Label < units[order[b]].Label
	})

	ranks := make([]int, len(units))
	for pos, idx := range order {
		ranks[idx] = pos + 1
	}
	return ranks
}

// RankingTable renders rankings as the priority-ranking output table with
// columns [aggregation label, rank_EAD, rank_EWCEAD, rank_diff, position].
func RankingTable(rankings []Ranking, aggregationLabel string) (*table.Table, error) {
	rows := make([][]string, len(rankings))
	for i, r := range rankings {
		rows[i] = []string{
			r.Label,
			strconv.Itoa(r.RankEAD),
			strconv.Itoa(r.RankEWCEAD),
			strconv.Itoa(r.RankDiff),
			strconv.Itoa(r.Position),
		}
	}
	return table.New([]string{aggregationLabel, "rank_EAD", "rank_EWCEAD", "rank_diff", "position"}, rows)
}

// ResilienceScore is the socio-economic resilience index of one area.
type ResilienceScore struct {
	Label string
	SRI   float64
}

// ResilienceIndex computes SRI = EAD / EWCEAD per area. A zero EWCEAD yields
// NaN rather than an infinity. It requires Calculate to have run and the
// damage table to carry an EAD column.
func (c *Calculator) ResilienceIndex() ([]ResilienceScore, error) {
	if c.last == nil {
		return nil, &StateError{Operation: "calculate_resilience_index", Requires: "equity_calculation"}
	}
	if !c.hasEAD {
		return nil, &SchemaError{Table: "damage", Column: c.opts.EADColumn}
	}

	out := make([]ResilienceScore, len(c.last.Units))
	for i, u := range c.last.Units {
		if math.IsNaN(u.EAD) || math.IsInf(u.EAD, 0) || math.IsNaN(u.EWCEAD) || math.IsInf(u.EWCEAD, 0) {
			return nil, &DomainError{
				Quantity: "resilience index",
				Detail:   fmt.Sprintf("area %q: EAD %g / EWCEAD %g is not computable from non-finite inputs", u.Label, u.EAD, u.EWCEAD),
			}
		}
		sri := u.EAD / u.EWCEAD
		if math.IsInf(sri, 0) {
			sri = math.NaN()
		}
		out[i] = ResilienceScore{Label: u.Label, SRI: sri}
	}
	return out, nil
}

// ResilienceTable renders resilience scores as the output table with columns
// [aggregation label, SRI].
func ResilienceTable(scores []ResilienceScore, aggregationLabel string) (*table.Table, error) {
	rows := make([][]string, len(scores))
	for i, s := range scores {
		rows[i] = []string{s.Label, strconv.FormatFloat(s.SRI, 'g', -1, 64)}
	}
	return table.New([]string{aggregationLabel, "SRI"}, rows)
}
