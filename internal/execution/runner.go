package execution

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/sirupsen/logrus"

	"iat/internal/config"
)

// Invocation is the outcome of one improver process
type Invocation struct {
	Args     []string
	ExitCode int
	Output   string
	Duration time.Duration
}

// Runner executes the improver CLI
type Runner struct {
	config *config.Config
	log    logrus.FieldLogger
}

// NewRunner creates a new Runner
func NewRunner(cfg *config.Config, log logrus.FieldLogger) *Runner {
	return &Runner{config: cfg, log: log}
}

// Path returns the improver executable that will be run.
func (r *Runner) Path() string {
	return r.config.GetImproverPath()
}

// Invoke runs improver with args and waits for it. A non-zero exit status
// is reported in the Invocation, not as an error; the error is reserved
// for processes that could not be started or were cancelled.
func (r *Runner) Invoke(ctx context.Context, args []string) (Invocation, error) {
	path := r.Path()
	r.log.WithField("argv", append([]string{path}, args...)).Debug("invoking improver")

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Env = os.Environ() // Start with current environment
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	start := time.Now()
	err := cmd.Run()
	inv := Invocation{
		Args:     args,
		Output:   out.String(),
		Duration: time.Since(start),
	}

	var ee *exec.ExitError
	switch {
	case err == nil:
		inv.ExitCode = 0
	case ctx.Err() != nil:
		inv.ExitCode = -1
		return inv, fmt.Errorf("improver cancelled: %w", ctx.Err())
	case errors.As(err, &ee):
		inv.ExitCode = ee.ExitCode()
	default:
		inv.ExitCode = -1
		return inv, fmt.Errorf("start %s: %w", path, err)
	}

	r.log.WithFields(logrus.Fields{
		"exit_code": inv.ExitCode,
		"duration":  inv.Duration.Round(time.Millisecond),
	}).Debug("improver finished")
	return inv, nil
}
