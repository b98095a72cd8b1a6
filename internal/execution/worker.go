package execution

import (
	"context"
	"sort"
	"sync"
	"time"

	"iat/internal/config"
	"iat/internal/domain"
)

// WorkerPool manages a pool of workers for parallel case execution
type WorkerPool struct {
	config    *config.Config
	runner    CaseRunner
	scheduler Scheduler
	progress  Progress
}

var _ Executor = (*WorkerPool)(nil)

// NewWorkerPool creates a new WorkerPool
func NewWorkerPool(cfg *config.Config, runner CaseRunner, scheduler Scheduler) *WorkerPool {
	return &WorkerPool{
		config:    cfg,
		runner:    runner,
		scheduler: scheduler,
	}
}

// SetProgress sets the progress reporter for the worker pool
func (wp *WorkerPool) SetProgress(progress Progress) {
	wp.progress = progress
}

// Workers returns the number of workers used for n cases.
func (wp *WorkerPool) Workers(n int) int {
	workerCount := wp.config.Processors
	if workerCount <= 0 {
		workerCount = 1
	}
	if n > 0 && workerCount > n {
		workerCount = n
	}
	return workerCount
}

// Execute executes cases in parallel using the worker pool (no fail-fast).
func (wp *WorkerPool) Execute(ctx context.Context, cases []domain.Case) ([]domain.CaseResult, time.Duration, error) {
	return wp.ExecuteWithOptions(ctx, cases, false)
}

// ExecuteWithOptions executes cases with optional fail-fast (stop on first
// failure). Cases already running when a failure is seen finish normally;
// cases not yet started are dropped. Results are sorted by case ID.
func (wp *WorkerPool) ExecuteWithOptions(ctx context.Context, cases []domain.Case, failFast bool) ([]domain.CaseResult, time.Duration, error) {
	if len(cases) == 0 {
		return nil, 0, nil
	}

	dispatch, stop := context.WithCancel(ctx)
	defer stop()

	workerCount := wp.Workers(len(cases))
	distribution := wp.scheduler.Schedule(cases, workerCount)

	var mu sync.Mutex
	var passed, failed, skipped int
	allResults := make([]domain.CaseResult, 0, len(cases))
	startTime := time.Now()

	var wg sync.WaitGroup
	for _, queue := range distribution {
		wg.Add(1)
		go func(queue []domain.Case) {
			defer wg.Done()
			for _, c := range queue {
				if dispatch.Err() != nil {
					return
				}
				result := wp.runner.Run(ctx, c)

				mu.Lock()
				allResults = append(allResults, result)
				switch {
				case result.Status == domain.StatusSkipped:
					skipped++
				case result.Status.Succeeded():
					passed++
				default:
					failed++
				}
				if wp.progress != nil {
					wp.progress.Update(passed, failed, skipped)
				}
				if failFast && result.Status == domain.StatusFailed {
					stop()
				}
				mu.Unlock()
			}
		}(queue)
	}
	wg.Wait()

	if wp.progress != nil {
		wp.progress.Finish()
	}

	sort.Slice(allResults, func(i, j int) bool {
		return allResults[i].CaseID < allResults[j].CaseID
	})
	return allResults, time.Since(startTime), ctx.Err()
}
