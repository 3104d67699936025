package domain

import "time"

// Result statuses published to the sink topic.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// AnalysisResult is the outcome of one analysis job, destined for the sink
// topic. Failed jobs produce a result too, so downstream consumers see every
// job terminate.
type AnalysisResult struct {
	JobID      string `json:"job_id"`
	ScenarioID string `json:"scenario_id"`
	Status     string `json:"status"`

	Units         int   `json:"units"`
	Unmatched     int   `json:"unmatched"`
	ReturnPeriods []int `json:"return_periods,omitempty"`

	// OutputPath is the equity table; the ranking and resilience paths are
	// set only when the damage table carried an EAD column.
	OutputPath     string `json:"output_path,omitempty"`
	RankingPath    string `json:"ranking_path,omitempty"`
	ResiliencePath string `json:"resilience_path,omitempty"`

	Gamma       float64 `json:"gamma"`
	TotalEWCEAD float64 `json:"total_ewcead"`

	Error string `json:"error,omitempty"`

	ProcessedAt time.Time `json:"processed_at"`
}

// NewFailedResult builds a failed result for a job, stamping the current time.
func NewFailedResult(job AnalysisJob, gamma float64, err error) AnalysisResult {
	return AnalysisResult{
		JobID:       job.JobID,
		ScenarioID:  job.ScenarioID,
		Status:      StatusFailed,
		Gamma:       gamma,
		Error:       err.Error(),
		ProcessedAt: clock.Now(),
	}
}
