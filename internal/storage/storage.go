package storage

import (
	"time"

	"iat/internal/config"
	"iat/internal/domain"
)

// Storage persists and loads run results (e.g. for the failures viewer).
type Storage interface {
	Save(results []domain.CaseResult, duration time.Duration, workers int) error
	Load() (*domain.ResultsOutput, error)
	// SaveOutput writes the full output (e.g. after marking failures resolved).
	SaveOutput(output *domain.ResultsOutput) error
}

// JSONStorage stores results in a JSON file under the configured output path.
type JSONStorage struct {
	cfg *config.Config
	now func() time.Time
}

var _ Storage = (*JSONStorage)(nil)

// NewJSONStorage returns a Storage that reads/writes the config's output JSON path.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg, now: time.Now}
}

// BuildOutput assembles the results file contents: totals for every case
// and details for failed cases only.
func BuildOutput(results []domain.CaseResult, duration time.Duration, workers int, now time.Time) *domain.ResultsOutput {
	failures := make([]domain.CaseResult, 0)
	for _, r := range results {
		if r.Status == domain.StatusFailed {
			failures = append(failures, r)
		}
	}
	return &domain.ResultsOutput{
		Meta:    domain.NewResultsMeta(results, duration, workers, now),
		Details: failures,
	}
}
