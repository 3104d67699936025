// Package domain models the analysis-job contract of the flood-equity worker.
//
// # Job Source
//
// When a flood-impact simulation finishes, the orchestration service writes
// the aggregated damage table and the matching census extract to shared
// storage and publishes an analysis job as flat JSON to the Kafka source
// topic. Each job names the two input files, the column labels to read, and
// the elasticity to apply.
//
// # Column Conventions
//
// Jobs may omit column labels and the elasticity; the worker then falls back
// to its configured defaults, which mirror the FIAT export conventions:
//
//	aggregation label:   "Census_Bg"
//	per-capita income:   "PerCapitaIncomeBG"
//	total population:    "TotalPopulationBG"
//	damage columns:      "Total Damage ({rp}Y)" per return period
//	expected annual dmg: "Risk (EAD)"
//
// # Job IDs
//
// A job carries a caller-assigned ID for end-to-end tracing; when absent, a
// UUID is assigned at parse time so every published result is addressable.
// Scenario IDs group multiple jobs belonging to one simulation run.
package domain
