// Command genmock generates mock census and flood damage CSV fixtures plus a
// matching analysis-job JSON file, for local pipeline runs and demos. It uses
// a fixed seed so repeated runs produce identical fixtures.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -out data/mock \
//	  -areas 25 \
//	  -metrics-format
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"github.com/couchcryptid/flood-equity-etl/internal/domain"
	"github.com/couchcryptid/flood-equity-etl/internal/table"
)

var returnPeriods = []int{2, 10, 25, 100}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out", "", "output directory for the fixtures")
	areas := flag.Int("areas", 25, "number of census block groups to generate")
	seed := flag.Int64("seed", 42, "random seed")
	metricsFormat := flag.Bool("metrics-format", false, "emit the damage table in Delft-FIAT metrics format")
	flag.Parse()

	if *outDir == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *areas <= 0 {
		return fmt.Errorf("-areas must be positive")
	}

	if err := os.MkdirAll(*outDir, 0o750); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(*seed))

	labels := make([]string, *areas)
	for i := range labels {
		labels[i] = fmt.Sprintf("48201%06d", 223001+i*100)
	}

	censusPath := filepath.Join(*outDir, "census.csv")
	if err := writeCensus(censusPath, labels, rng); err != nil {
		return fmt.Errorf("census fixture: %w", err)
	}
	log.Printf("census: %d areas -> %s", len(labels), censusPath)

	damagePath := filepath.Join(*outDir, "damage.csv")
	if err := writeDamage(damagePath, labels, rng, *metricsFormat); err != nil {
		return fmt.Errorf("damage fixture: %w", err)
	}
	log.Printf("damage: %d areas, return periods %v -> %s", len(labels), returnPeriods, damagePath)

	jobsPath := filepath.Join(*outDir, "jobs.json")
	if err := writeJobs(jobsPath, censusPath, damagePath); err != nil {
		return fmt.Errorf("jobs fixture: %w", err)
	}
	log.Printf("jobs -> %s", jobsPath)

	return nil
}

// writeCensus emits per-area income and population. Incomes are log-normally
// spread around a 30k median so the equity weights have visible divergence.
func writeCensus(path string, labels []string, rng *rand.Rand) error {
	rows := make([][]string, len(labels))
	for i, label := range labels {
		income := 30000 * math.Exp(rng.NormFloat64()*0.5)
		population := 400 + rng.Intn(3200)
		rows[i] = []string{
			label,
			strconv.FormatFloat(math.Round(income), 'f', -1, 64),
			strconv.Itoa(population),
		}
	}
	tbl, err := table.New([]string{"Census_Bg", "PerCapitaIncomeBG", "TotalPopulationBG"}, rows)
	if err != nil {
		return err
	}
	return tbl.WriteCSV(path)
}

// writeDamage emits per-area damages for each return period plus an EAD
// column. Damages grow with the return period and EAD is the log-linear
// integral over the exceedance frequencies, matching how flood risk models
// report it.
func writeDamage(path string, labels []string, rng *rand.Rand, metricsFormat bool) error {
	columns := []string{"Census_Bg"}
	for _, rp := range returnPeriods {
		columns = append(columns, fmt.Sprintf("Total Damage (%dY)", rp))
	}
	columns = append(columns, "Risk (EAD)")

	rows := make([][]string, len(labels))
	for i, label := range labels {
		base := 5000 * math.Exp(rng.NormFloat64()*0.8)
		row := []string{label}
		ead := 0.0
		prevFreq := 1.0 / float64(returnPeriods[0])
		prevDamage := 0.0
		for _, rp := range returnPeriods {
			damage := base * math.Log(float64(rp)+1)
			row = append(row, strconv.FormatFloat(math.Round(damage*100)/100, 'f', -1, 64))

			freq := 1.0 / float64(rp)
			ead += (prevFreq - freq) * (prevDamage + damage) / 2
			prevFreq, prevDamage = freq, damage
		}
		ead += prevFreq * prevDamage
		row = append(row, strconv.FormatFloat(math.Round(ead*100)/100, 'f', -1, 64))
		rows[i] = row
	}

	if metricsFormat {
		return writeMetricsFormat(path, columns, rows)
	}

	tbl, err := table.New(columns, rows)
	if err != nil {
		return err
	}
	return tbl.WriteCSV(path)
}

// writeMetricsFormat wraps the damage table in the Delft-FIAT metrics layout:
// a flag row marking which columns appear in the metrics table, plus
// description and long-name rows that readers are expected to drop.
func writeMetricsFormat(path string, columns []string, rows [][]string) error {
	flagRow := []string{"Show In Metrics Table"}
	descRow := []string{"Description"}
	longRow := []string{"Long Name"}
	for _, col := range columns[1:] {
		flagRow = append(flagRow, "True")
		descRow = append(descRow, "Aggregated damage for "+col)
		longRow = append(longRow, col)
	}

	out := make([][]string, 0, len(rows)+3)
	out = append(out, flagRow, descRow, longRow)
	out = append(out, rows...)

	tbl, err := table.New(columns, out)
	if err != nil {
		return err
	}
	return tbl.WriteCSV(path)
}

// writeJobs emits a pair of analysis jobs pointing at the generated fixtures:
// one with the default gamma and one unweighted baseline.
func writeJobs(path, censusPath, damagePath string) error {
	baseline := 0.0
	jobs := []domain.AnalysisJob{
		{
			JobID:      "mock-weighted",
			ScenarioID: "mock-flood",
			CensusPath: censusPath,
			DamagePath: damagePath,
		},
		{
			JobID:      "mock-unweighted",
			ScenarioID: "mock-flood",
			CensusPath: censusPath,
			DamagePath: damagePath,
			Gamma:      &baseline,
		},
	}

	data, err := json.MarshalIndent(jobs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}
