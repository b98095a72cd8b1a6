package execution

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"

	"github.com/sirupsen/logrus"

	"iat/internal/compare"
	"iat/internal/config"
	"iat/internal/domain"
)

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fakeImprover writes a script that records that it ran, echoes its
// subcommand, writes content to the output path ($3) and exits with code.
func fakeImprover(t *testing.T, content string, code int) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	path := filepath.Join(t.TempDir(), "improver")
	script := "#!/bin/sh\ntouch \"$0.ran\"\necho \"running $1\"\nprintf '%s' '" + content + "' > \"$3\"\nexit " + strconv.Itoa(code) + "\n"
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

// invoked reports whether the fake improver at bin has been started.
func invoked(bin string) bool {
	_, err := os.Stat(bin + ".ran")
	return err == nil
}

// accDir creates a fixture tree holding the inputs of testCase and a
// known-good output with kgo as content.
func accDir(t *testing.T, kgo string) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"nowcast/in.nc":  "input",
		"nowcast/uv.nc":  "uv",
		"nowcast/kgo.nc": kgo,
	}
	for rel, body := range files {
		p := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func testCase(name string) domain.Case {
	return domain.Case{
		Command: "nowcast-extrapolate",
		Name:    name,
		Inputs:  []string{"nowcast/in.nc"},
		Options: []domain.Option{
			{Flag: "u_and_v_filepath", Paths: []string{"nowcast/uv.nc"}},
			{Flag: "max_lead_time", Values: []string{"90"}},
		},
		KGO: "nowcast/kgo.nc",
	}
}

func testConfig(improver, acc string) *config.Config {
	cfg := config.New()
	cfg.ImproverBin = improver
	cfg.AccTestDir = acc
	return cfg
}

// bytesComparator treats files as equal when their contents match.
type bytesComparator struct {
	err error
}

func (bytesComparator) Name() string { return "bytes" }

func (b bytesComparator) Compare(_ context.Context, actual, expected string, _ float64) (compare.Report, error) {
	if b.err != nil {
		return compare.Report{}, b.err
	}
	a, err := os.ReadFile(actual)
	if err != nil {
		return compare.Report{}, err
	}
	e, err := os.ReadFile(expected)
	if err != nil {
		return compare.Report{}, err
	}
	if bytes.Equal(a, e) {
		return compare.Report{Equal: true}, nil
	}
	return compare.Report{
		Output: "DIFFER : contents",
		Differences: []domain.Difference{
			{Kind: domain.DiffOther, Detail: "contents"},
		},
	}, nil
}
