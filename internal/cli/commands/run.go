package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"iat/internal/compare"
	"iat/internal/config"
	"iat/internal/discovery"
	"iat/internal/domain"
	"iat/internal/execution"
	"iat/internal/storage"
	"iat/internal/ui"
)

var nowFunc = time.Now

// RunCommand handles the run command
type RunCommand struct {
	config  *config.Config
	filter  *discovery.Filter
	storage storage.Storage
	log     logrus.FieldLogger
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(
	cfg *config.Config,
	filter *discovery.Filter,
	st storage.Storage,
	log logrus.FieldLogger,
) *RunCommand {
	return &RunCommand{
		config:  cfg,
		filter:  filter,
		storage: st,
		log:     log,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	selected, err := rc.selectCases(args)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		fmt.Fprintln(out, color.YellowString("No cases to execute"))
		return nil
	}

	comparator, err := compare.New(rc.config, rc.log)
	if err != nil {
		return err
	}
	runner := execution.NewRunner(rc.config, rc.log)
	scenario := execution.NewScenario(rc.config, runner, comparator, out, rc.log)
	pool := execution.NewWorkerPool(rc.config, scenario, execution.NewRoundRobinScheduler())
	if !rc.config.Flags.DryRun && !rc.config.Flags.Verbose {
		pool.SetProgress(ui.NewProgressBar(len(selected)))
	}

	results, duration, runErr := pool.ExecuteWithOptions(ctx, selected, rc.config.Flags.FailFast)
	workers := pool.Workers(len(selected))

	output := storage.BuildOutput(results, duration, workers, nowFunc())
	if !rc.config.Flags.DryRun {
		if err := rc.storage.SaveOutput(output); err != nil {
			return fmt.Errorf("failed to save results: %w", err)
		}
		rc.recordHistory(ctx, output.Meta, results)
	}

	ui.NewFormatter(out).PrintSummary(output, results)

	if runErr != nil {
		return runErr
	}
	if output.Meta.FailedCases > 0 {
		if rc.config.Flags.OpenFailures {
			if err := ui.NewFailureViewer(rc.storage).View(output); err != nil {
				return err
			}
		}
		return ErrCasesFailed
	}
	return nil
}

// selectCases loads every case and narrows it by pattern and --failed.
func (rc *RunCommand) selectCases(args []string) ([]domain.Case, error) {
	all, err := loadCases(rc.config)
	if err != nil {
		return nil, err
	}

	pattern := rc.config.Flags.Filter
	if len(args) > 0 {
		pattern = args[0]
	}
	selected := rc.filter.FilterByName(all, pattern)

	if rc.config.Flags.OnlyFailed {
		failed, err := failedIDs(rc.storage)
		if err != nil {
			return nil, fmt.Errorf("--failed needs a previous run: %w", err)
		}
		var kept []domain.Case
		for _, c := range selected {
			if _, ok := failed[c.ID()]; ok {
				kept = append(kept, c)
			}
		}
		selected = kept
	}
	return selected, nil
}

// recordHistory appends the run to the history database when one is
// configured. Failures are logged, not fatal: the JSON results are saved.
func (rc *RunCommand) recordHistory(ctx context.Context, meta domain.ResultsMeta, results []domain.CaseResult) {
	if !rc.config.HistoryEnabled() {
		return
	}
	h, err := storage.OpenHistory(ctx, rc.config.History.Driver, rc.config.History.DSN)
	if err != nil {
		rc.log.WithError(err).Warn("history not recorded")
		return
	}
	defer h.Close()
	id, err := h.Record(ctx, meta, results)
	if err != nil {
		rc.log.WithError(err).Warn("history not recorded")
		return
	}
	rc.log.WithField("run", id).Debug("history recorded")
}
