package table

import "fmt"

// Metadata rows present in FIAT metrics-format exports. The flag row drives
// column filtering; all three are dropped from the normalized table.
const (
	metricsFlagRow        = "Show In Metrics Table"
	metricsDescriptionRow = "Description"
	metricsLongNameRow    = "Long Name"
)

// IsMetricsFormat reports whether the table looks like a FIAT metrics export:
// any first-column cell equals "Show In Metrics Table".
func IsMetricsFormat(t *Table) bool {
	if len(t.Columns) == 0 {
		return false
	}
	for _, row := range t.Rows {
		if row[0] == metricsFlagRow {
			return true
		}
	}
	return false
}

// NormalizeMetricsTable flattens a FIAT metrics-format export into a plain
// table keyed by aggregationLabel. The unnamed first column is renamed to
// aggregationLabel, only metric columns flagged "True" in the
// "Show In Metrics Table" row are kept, and the three metadata rows are
// dropped. Tables not in metrics format are returned unchanged.
func NormalizeMetricsTable(t *Table, aggregationLabel string) (*Table, error) {
	if !IsMetricsFormat(t) {
		return t, nil
	}

	flagIdx := -1
	for i, row := range t.Rows {
		if row[0] == metricsFlagRow {
			flagIdx = i
			break
		}
	}
	flags := t.Rows[flagIdx]

	// First column is the aggregation key and is always kept.
	keep := []int{0}
	for i := 1; i < len(t.Columns); i++ {
		if flags[i] == "True" {
			keep = append(keep, i)
		}
	}
	if len(keep) == 1 {
		return nil, fmt.Errorf("metrics table has no columns flagged %q", metricsFlagRow)
	}

	columns := make([]string, len(keep))
	columns[0] = aggregationLabel
	for j, i := range keep[1:] {
		columns[j+1] = t.Columns[i]
	}

	rows := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		switch row[0] {
		case metricsDescriptionRow, metricsFlagRow, metricsLongNameRow:
			continue
		}
		out := make([]string, len(keep))
		for j, i := range keep {
			out[j] = row[i]
		}
		rows = append(rows, out)
	}

	return New(columns, rows)
}
