package compare

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/sirupsen/logrus"

	"iat/internal/parser"
)

// NCCmp shells out to the nccmp utility. Exit status 0 means the files are
// equivalent, 1 means they differ; anything else is a comparator failure.
type NCCmp struct {
	path   string
	args   []string
	parser parser.Parser
	log    logrus.FieldLogger
}

// NewNCCmp creates a new NCCmp comparator
func NewNCCmp(path string, args []string, p parser.Parser, log logrus.FieldLogger) *NCCmp {
	return &NCCmp{path: path, args: args, parser: p, log: log}
}

// Name returns the comparator name
func (n *NCCmp) Name() string {
	return "nccmp"
}

// Args returns the nccmp arguments used to compare actual with expected.
func (n *NCCmp) Args(actual, expected string, tolerance float64) []string {
	args := append([]string{}, n.args...)
	if tolerance > 0 {
		args = append(args, "--tolerance="+strconv.FormatFloat(tolerance, 'g', -1, 64))
	}
	return append(args, actual, expected)
}

// Compare runs nccmp on actual and expected.
func (n *NCCmp) Compare(ctx context.Context, actual, expected string, tolerance float64) (Report, error) {
	args := n.Args(actual, expected, tolerance)
	n.log.WithField("argv", append([]string{n.path}, args...)).Debug("running comparator")

	cmd := exec.CommandContext(ctx, n.path, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	report := Report{Output: out.String()}
	if err == nil {
		report.Equal = true
		return report, nil
	}

	var ee *exec.ExitError
	if errors.As(err, &ee) && ee.ExitCode() == 1 {
		report.Differences = n.parser.ParseDifferences(report.Output)
		return report, nil
	}
	return report, fmt.Errorf("run %s: %w\n%s", n.path, err, report.Output)
}
