package execution

import (
	"context"
	"time"

	"iat/internal/domain"
)

// Executor executes cases and returns results
type Executor interface {
	Execute(ctx context.Context, cases []domain.Case) ([]domain.CaseResult, time.Duration, error)
}

// CaseRunner runs a single case to completion
type CaseRunner interface {
	Run(ctx context.Context, c domain.Case) domain.CaseResult
}

// Progress receives running tallies while cases execute
type Progress interface {
	Update(passed, failed, skipped int)
	Finish()
}
