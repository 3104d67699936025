package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RawJob represents an unprocessed message from the source topic.
type RawJob struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// AnalysisJob is a request to run the equity calculation over one scenario's
// damage output. Column labels and gamma are optional; the worker applies its
// configured defaults where they are empty.
type AnalysisJob struct {
	JobID      string `json:"job_id,omitempty"`
	ScenarioID string `json:"scenario_id"`

	CensusPath string `json:"census_path"`
	DamagePath string `json:"damage_path"`
	OutputPath string `json:"output_path,omitempty"`

	AggregationLabel string `json:"aggregation_label,omitempty"`
	IncomeLabel      string `json:"income_label,omitempty"`
	PopulationLabel  string `json:"population_label,omitempty"`
	DamagePattern    string `json:"damage_pattern,omitempty"`
	EADColumn        string `json:"ead_column,omitempty"`

	// Gamma is the elasticity of marginal utility of income. A pointer so
	// that an absent field and an explicit 0 (weighting disabled) stay
	// distinguishable.
	Gamma *float64 `json:"gamma,omitempty"`
}

// ParseRawJob deserializes a RawJob's value into an AnalysisJob and assigns a
// job ID when the caller did not provide one.
func ParseRawJob(raw RawJob) (AnalysisJob, error) {
	var job AnalysisJob
	if err := json.Unmarshal(raw.Value, &job); err != nil {
		return AnalysisJob{}, fmt.Errorf("parse analysis job: %w", err)
	}

	if job.ScenarioID == "" {
		return AnalysisJob{}, fmt.Errorf("parse analysis job: scenario_id is required")
	}
	if job.CensusPath == "" {
		return AnalysisJob{}, fmt.Errorf("parse analysis job: census_path is required")
	}
	if job.DamagePath == "" {
		return AnalysisJob{}, fmt.Errorf("parse analysis job: damage_path is required")
	}

	if job.JobID == "" {
		job.JobID = uuid.NewString()
	}
	return job, nil
}
