package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/flood-equity-etl/internal/domain"
	"github.com/couchcryptid/flood-equity-etl/internal/equity"
)

// RunnerConfig carries the defaults applied to jobs that leave fields unset.
type RunnerConfig struct {
	DefaultGamma     float64
	AggregationLabel string
	IncomeLabel      string
	PopulationLabel  string
	DamagePattern    string
	EADColumn        string
	OutputDir        string
}

// AnalysisRunner executes equity analysis jobs. It implements Runner.
type AnalysisRunner struct {
	cfg    RunnerConfig
	logger *slog.Logger
}

// NewAnalysisRunner creates a runner with the given job defaults.
func NewAnalysisRunner(cfg RunnerConfig, logger *slog.Logger) *AnalysisRunner {
	return &AnalysisRunner{cfg: cfg, logger: logger}
}

// Run parses and executes a single analysis job. An error is returned only
// when the message payload cannot be parsed; analysis failures are reported
// as a failed AnalysisResult so they reach the results topic.
func (r *AnalysisRunner) Run(ctx context.Context, raw domain.RawJob) (domain.AnalysisResult, error) {
	job, err := domain.ParseRawJob(raw)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	if err := ctx.Err(); err != nil {
		return domain.AnalysisResult{}, err
	}

	gamma := r.cfg.DefaultGamma
	if job.Gamma != nil {
		gamma = *job.Gamma
	}

	result, err := r.execute(job, gamma)
	if err != nil {
		r.logger.Info("analysis failed",
			"job_id", job.JobID,
			"scenario_id", job.ScenarioID,
			"error", err,
		)
		return domain.NewFailedResult(job, gamma, err), nil
	}
	return result, nil
}

// execute runs the equity calculation for one parsed job and writes the
// output table.
func (r *AnalysisRunner) execute(job domain.AnalysisJob, gamma float64) (domain.AnalysisResult, error) {
	opts := equity.Options{
		AggregationLabel: firstNonEmpty(job.AggregationLabel, r.cfg.AggregationLabel),
		IncomeLabel:      firstNonEmpty(job.IncomeLabel, r.cfg.IncomeLabel),
		PopulationLabel:  firstNonEmpty(job.PopulationLabel, r.cfg.PopulationLabel),
		DamagePattern:    firstNonEmpty(job.DamagePattern, r.cfg.DamagePattern),
		EADColumn:        firstNonEmpty(job.EADColumn, r.cfg.EADColumn),
	}

	calc, err := equity.New(job.CensusPath, job.DamagePath, opts)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	res, err := calc.Calculate(gamma)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	outputPath := job.OutputPath
	if outputPath == "" {
		outputPath = filepath.Join(r.cfg.OutputDir, job.JobID+".csv")
	}
	tbl, err := res.Table(opts.AggregationLabel)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("build output table: %w", err)
	}
	if err := tbl.WriteCSV(outputPath); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("write output: %w", err)
	}

	// With an EAD column available, the ranking and resilience outputs are
	// written next to the equity table.
	var rankingPath, resiliencePath string
	if res.HasEAD {
		rankings, err := calc.RankEWCED()
		if err != nil {
			return domain.AnalysisResult{}, fmt.Errorf("rank units: %w", err)
		}
		rankTbl, err := equity.RankingTable(rankings, opts.AggregationLabel)
		if err != nil {
			return domain.AnalysisResult{}, fmt.Errorf("build ranking table: %w", err)
		}
		rankingPath = derivedPath(outputPath, "rank")
		if err := rankTbl.WriteCSV(rankingPath); err != nil {
			return domain.AnalysisResult{}, fmt.Errorf("write ranking: %w", err)
		}

		scores, err := calc.ResilienceIndex()
		if err != nil {
			return domain.AnalysisResult{}, fmt.Errorf("resilience index: %w", err)
		}
		sriTbl, err := equity.ResilienceTable(scores, opts.AggregationLabel)
		if err != nil {
			return domain.AnalysisResult{}, fmt.Errorf("build resilience table: %w", err)
		}
		resiliencePath = derivedPath(outputPath, "sri")
		if err := sriTbl.WriteCSV(resiliencePath); err != nil {
			return domain.AnalysisResult{}, fmt.Errorf("write resilience index: %w", err)
		}
	}

	r.logger.Info("analysis completed",
		"job_id", job.JobID,
		"scenario_id", job.ScenarioID,
		"units", len(res.Units),
		"unmatched", res.Unmatched,
		"output_path", outputPath,
	)

	return domain.AnalysisResult{
		JobID:          job.JobID,
		ScenarioID:     job.ScenarioID,
		Status:         domain.StatusCompleted,
		Units:          len(res.Units),
		Unmatched:      res.Unmatched,
		ReturnPeriods:  res.ReturnPeriods,
		OutputPath:     outputPath,
		RankingPath:    rankingPath,
		ResiliencePath: resiliencePath,
		Gamma:          gamma,
		TotalEWCEAD:    res.TotalEWCEAD(),
		ProcessedAt:    res.ProcessedAt,
	}, nil
}

// derivedPath names a companion output next to the main one, inserting the
// suffix before the extension: out.csv -> out_rank.csv.
func derivedPath(path, suffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_" + suffix + ext
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
