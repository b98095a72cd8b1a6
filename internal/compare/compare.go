// Package compare checks produced output against known-good output.
package compare

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"iat/internal/config"
	"iat/internal/domain"
	"iat/internal/parser"
)

// Report is the verdict of one comparison.
type Report struct {
	Equal       bool
	Output      string
	Differences []domain.Difference
}

// Comparator compares an actual output file with an expected one. A
// returned error means the comparison could not be carried out, which is
// distinct from the files differing.
type Comparator interface {
	Name() string
	Compare(ctx context.Context, actual, expected string, tolerance float64) (Report, error)
}

// New returns the comparator selected by cfg.
func New(cfg *config.Config, log logrus.FieldLogger) (Comparator, error) {
	switch cfg.Compare.Tool {
	case config.ComparatorNCCmp:
		return NewNCCmp(cfg.Compare.NCCmpPath, cfg.Compare.Args, parser.NewNCCmpParser(), log), nil
	case config.ComparatorNative:
		return NewNative(log), nil
	default:
		return nil, fmt.Errorf("%w (got %q)", config.ErrInvalidComparator, cfg.Compare.Tool)
	}
}
