package domain

import "time"

// Status is the outcome of a case run
type Status string

const (
	StatusPassed    Status = "passed"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
	StatusRecreated Status = "recreated"
)

// Succeeded reports whether the status counts as a pass. Recreating the
// known-good output is a success even though nothing was compared.
func (s Status) Succeeded() bool {
	return s == StatusPassed || s == StatusRecreated
}

// Stage names the step of a case run that produced a failure
type Stage string

const (
	StageSkipCheck Stage = "skip-check"
	StageFixtures  Stage = "fixtures"
	StageInvoke    Stage = "invoke"
	StageRecreate  Stage = "recreate"
	StageCompare   Stage = "compare"
)

// CaseResult represents the result of running one case
type CaseResult struct {
	CaseID        string        `json:"case_id"`
	Status        Status        `json:"status"`
	Stage         Stage         `json:"stage,omitempty"`
	ExitCode      int           `json:"exit_code"`
	Command       []string      `json:"command,omitempty"`
	Output        string        `json:"output,omitempty"`         // Raw output from the improver CLI
	CompareOutput string        `json:"compare_output,omitempty"` // Raw output from the comparator
	Differences   []Difference  `json:"differences,omitempty"`
	SkipReason    string        `json:"skip_reason,omitempty"`
	Error         string        `json:"error,omitempty"`
	OutputPath    string        `json:"output_path,omitempty"`
	KGOPath       string        `json:"kgo_path,omitempty"`
	Duration      time.Duration `json:"duration"`
	Resolved      bool          `json:"resolved,omitempty"` // Track if a failure is marked as resolved
}

// ResultsMeta contains metadata about a run
type ResultsMeta struct {
	TotalCases      int     `json:"total_cases"`
	PassedCases     int     `json:"passed_cases"`
	FailedCases     int     `json:"failed_cases"`
	SkippedCases    int     `json:"skipped_cases"`
	RecreatedCases  int     `json:"recreated_cases"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Workers         int     `json:"workers"`
	Timestamp       string  `json:"timestamp"`
}

// ResultsOutput is the complete output structure for a run. Details holds
// failed cases only.
type ResultsOutput struct {
	Meta    ResultsMeta  `json:"meta"`
	Details []CaseResult `json:"details"`
}

// NewResultsMeta tallies results into run metadata.
func NewResultsMeta(results []CaseResult, duration time.Duration, workers int, now time.Time) ResultsMeta {
	meta := ResultsMeta{
		TotalCases:      len(results),
		Duration:        duration.String(),
		DurationSeconds: duration.Seconds(),
		Workers:         workers,
		Timestamp:       now.Format(time.RFC3339),
	}
	for _, r := range results {
		switch r.Status {
		case StatusPassed:
			meta.PassedCases++
		case StatusFailed:
			meta.FailedCases++
		case StatusSkipped:
			meta.SkippedCases++
		case StatusRecreated:
			meta.RecreatedCases++
		}
	}
	return meta
}
