package cli

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"

	"iat/internal/config"
)

func TestFlags_ToConfigFlags(t *testing.T) {
	f := Flags{
		ProjectPath:  "/tmp/project",
		Processors:   4,
		Filter:       "*json*",
		FailFast:     true,
		RecreateKGO:  "1",
		Comparator:   "native",
		Tolerance:    0.01,
		Keep:         true,
		DryRun:       true,
		Verbose:      true,
		OnlyFailed:   true,
		OpenFailures: true,
		HistoryLimit: 5,
	}
	want := config.Flags{
		Processors:   4,
		Filter:       "*json*",
		FailFast:     true,
		RecreateKGO:  "1",
		Comparator:   "native",
		Tolerance:    0.01,
		Keep:         true,
		DryRun:       true,
		Verbose:      true,
		OnlyFailed:   true,
		OpenFailures: true,
	}
	if diff := cmp.Diff(want, f.ToConfigFlags()); diff != "" {
		t.Errorf("ToConfigFlags() mismatch (-want +got):\n%s", diff)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, false)
	if log.GetLevel() != logrus.WarnLevel {
		t.Errorf("level = %v, want warn", log.GetLevel())
	}
	log.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug written at warn level: %q", buf.String())
	}

	log = NewLogger(&buf, true)
	log.WithField("argv", []string{"improver"}).Debug("invoking improver")
	if !bytes.Contains(buf.Bytes(), []byte("invoking improver")) {
		t.Errorf("verbose logger did not write debug entry: %q", buf.String())
	}
}
