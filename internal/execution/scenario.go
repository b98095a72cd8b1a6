package execution

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"iat/internal/cases"
	"iat/internal/compare"
	"iat/internal/config"
	"iat/internal/domain"
	"iat/internal/fixtures"
	"iat/internal/kgo"
)

// Scenario runs one case end to end: skip check, fixture resolution,
// invocation, then recreation or comparison.
type Scenario struct {
	config     *config.Config
	runner     *Runner
	comparator compare.Comparator
	root       fixtures.Root
	mode       kgo.Mode
	out        io.Writer
	log        logrus.FieldLogger
}

var _ CaseRunner = (*Scenario)(nil)

// NewScenario creates a Scenario. out receives the argv in dry-run mode.
func NewScenario(cfg *config.Config, runner *Runner, comparator compare.Comparator, out io.Writer, log logrus.FieldLogger) *Scenario {
	return &Scenario{
		config:     cfg,
		runner:     runner,
		comparator: comparator,
		root:       fixtures.NewRoot(cfg.AccTestDir),
		mode:       kgo.ParseMode(cfg.RecreateKGO, cfg.AccTestDir),
		out:        out,
		log:        log,
	}
}

// Run executes c and reports its outcome. It never returns early without a
// status.
func (s *Scenario) Run(ctx context.Context, c domain.Case) (result domain.CaseResult) {
	start := time.Now()
	result.CaseID = c.ID()
	log := s.log.WithField("case", result.CaseID)
	defer func() {
		result.Duration = time.Since(start)
		log.WithFields(logrus.Fields{
			"status": result.Status,
			"stage":  result.Stage,
		}).Debug("case finished")
	}()

	fail := func(stage domain.Stage, err error) domain.CaseResult {
		result.Status = domain.StatusFailed
		result.Stage = stage
		result.Error = err.Error()
		return result
	}

	if err := fixtures.CheckSkip(s.config); err != nil {
		var skip *fixtures.SkipError
		if errors.As(err, &skip) {
			result.Status = domain.StatusSkipped
			result.SkipReason = skip.Reason
			return result
		}
		return fail(domain.StageSkipCheck, err)
	}

	if err := cases.Validate(c); err != nil {
		return fail(domain.StageFixtures, err)
	}
	if missing := s.root.Missing(c.FixturePaths()); len(missing) > 0 {
		return fail(domain.StageFixtures, fmt.Errorf("missing fixtures: %s", strings.Join(missing, ", ")))
	}
	result.KGOPath = s.root.Resolve(c.KGO)

	dir, cleanup, err := s.scratchDir(c)
	if err != nil {
		return fail(domain.StageFixtures, err)
	}
	defer cleanup()

	outputPath := filepath.Join(dir, c.OutputName())
	args := cases.Args(c, s.root.Resolve, outputPath)
	result.OutputPath = outputPath
	result.Command = append([]string{s.runner.Path()}, args...)

	if s.config.Flags.DryRun {
		fmt.Fprintln(s.out, strings.Join(result.Command, " "))
		result.Status = domain.StatusSkipped
		result.SkipReason = "dry run"
		return result
	}

	inv, err := s.runner.Invoke(ctx, args)
	result.ExitCode = inv.ExitCode
	result.Output = inv.Output
	if err != nil {
		return fail(domain.StageInvoke, err)
	}
	if inv.ExitCode != 0 {
		return fail(domain.StageInvoke, fmt.Errorf("improver exited with status %d", inv.ExitCode))
	}

	if s.mode.Active() {
		written, err := kgo.Recreate(s.mode, outputPath, c.KGO)
		if err != nil {
			return fail(domain.StageRecreate, err)
		}
		log.WithField("kgo", written).Info("recreated known-good output")
		result.KGOPath = written
		result.Status = domain.StatusRecreated
		return result
	}

	if _, err := os.Stat(result.KGOPath); err != nil {
		return fail(domain.StageCompare, fmt.Errorf("known-good output: %w", err))
	}

	tolerance := c.Tolerance
	if tolerance == 0 {
		tolerance = s.config.Compare.Tolerance
	}
	report, err := s.comparator.Compare(ctx, outputPath, result.KGOPath, tolerance)
	result.CompareOutput = report.Output
	result.Differences = report.Differences
	if err != nil {
		return fail(domain.StageCompare, err)
	}
	if !report.Equal {
		return fail(domain.StageCompare, fmt.Errorf("%s: output differs from known-good output", s.comparator.Name()))
	}

	result.Status = domain.StatusPassed
	return result
}

// scratchDir returns the directory the case writes its output into and a
// cleanup func that removes what the run created unless output is kept.
func (s *Scenario) scratchDir(c domain.Case) (string, func(), error) {
	keep := s.config.KeepOutput || s.config.Flags.Keep

	if s.config.TestDir != "" {
		dir := filepath.Join(s.config.TestDir, c.Slug())
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", nil, fmt.Errorf("create scratch dir: %w", err)
		}
		return dir, func() {
			if keep {
				return
			}
			os.Remove(filepath.Join(dir, c.OutputName()))
			os.Remove(dir) // only succeeds when empty
		}, nil
	}

	dir, err := os.MkdirTemp("", "iat-"+c.Slug()+"-")
	if err != nil {
		return "", nil, fmt.Errorf("create scratch dir: %w", err)
	}
	return dir, func() {
		if !keep {
			os.RemoveAll(dir)
		}
	}, nil
}
