// Command equitycalc runs the equity weighting calculation once, from CSV
// files on disk, without Kafka. It is the local counterpart of the worker's
// analysis runner: census and damage tables in, equity table out, with
// optional ranking and resilience outputs.
//
// Usage:
//
//	go run ./cmd/equitycalc \
//	  -census data/census.csv \
//	  -damage data/damage.csv \
//	  -out equity.csv \
//	  -rank rank.csv -sri sri.csv -gamma 1.2
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/couchcryptid/flood-equity-etl/internal/equity"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	censusPath := flag.String("census", "", "census CSV with income and population per area")
	damagePath := flag.String("damage", "", "damage CSV (plain or metrics format)")
	outPath := flag.String("out", "", "output path for the equity CSV")
	rankPath := flag.String("rank", "", "optional output path for the priority ranking CSV")
	sriPath := flag.String("sri", "", "optional output path for the resilience index CSV")
	gamma := flag.Float64("gamma", 1.2, "elasticity of marginal utility of income")

	aggLabel := flag.String("label", "Census_Bg", "aggregation label column")
	incomeLabel := flag.String("income", "PerCapitaIncomeBG", "per-capita income column")
	popLabel := flag.String("population", "TotalPopulationBG", "population column")
	pattern := flag.String("pattern", "Total Damage ({rp}Y)", "damage column pattern, {rp} matches the return period")
	eadColumn := flag.String("ead", "Risk (EAD)", "expected annual damage column")
	flag.Parse()

	if *censusPath == "" || *damagePath == "" || *outPath == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -census, -damage, -out")
	}

	calc, err := equity.New(*censusPath, *damagePath, equity.Options{
		AggregationLabel: *aggLabel,
		IncomeLabel:      *incomeLabel,
		PopulationLabel:  *popLabel,
		DamagePattern:    *pattern,
		EADColumn:        *eadColumn,
	})
	if err != nil {
		return err
	}

	res, err := calc.Calculate(*gamma)
	if err != nil {
		return err
	}

	tbl, err := res.Table(*aggLabel)
	if err != nil {
		return err
	}
	if err := tbl.WriteCSV(*outPath); err != nil {
		return err
	}
	log.Printf("equity table: %d areas -> %s", len(res.Units), *outPath)

	if res.Unmatched > 0 {
		log.Printf("warning: %d damage rows had no census match and were dropped", res.Unmatched)
	}
	if len(res.ReturnPeriods) > 0 {
		log.Printf("return periods: %v", res.ReturnPeriods)
	}
	log.Printf("gamma %g, total EWCEAD %g", res.Gamma, res.TotalEWCEAD())

	if *rankPath != "" {
		if err := writeRanking(calc, *aggLabel, *rankPath); err != nil {
			return err
		}
	}
	if *sriPath != "" {
		if err := writeResilience(calc, *aggLabel, *sriPath); err != nil {
			return err
		}
	}

	return nil
}

func writeRanking(calc *equity.Calculator, aggLabel, path string) error {
	rankings, err := calc.RankEWCED()
	if err != nil {
		return fmt.Errorf("ranking: %w", err)
	}
	tbl, err := equity.RankingTable(rankings, aggLabel)
	if err != nil {
		return err
	}
	if err := tbl.WriteCSV(path); err != nil {
		return err
	}
	log.Printf("priority ranking: %d areas -> %s", len(rankings), path)
	return nil
}

func writeResilience(calc *equity.Calculator, aggLabel, path string) error {
	scores, err := calc.ResilienceIndex()
	if err != nil {
		return fmt.Errorf("resilience index: %w", err)
	}
	tbl, err := equity.ResilienceTable(scores, aggLabel)
	if err != nil {
		return err
	}
	if err := tbl.WriteCSV(path); err != nil {
		return err
	}
	log.Printf("resilience index: %d areas -> %s", len(scores), path)
	return nil
}
