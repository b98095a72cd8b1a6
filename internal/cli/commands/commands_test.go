package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iat/internal/cli"
	"iat/internal/config"
	"iat/internal/storage"
)

const testCaseFile = `command: nowcast-extrapolate
name: fake extrapolation
inputs: [nowcast/in.nc]
options:
  - flag: u_and_v_filepath
    paths: [nowcast/uv.nc]
  - flag: max_lead_time
    values: ["90"]
kgo: nowcast/kgo.nc
`

func init() {
	color.NoColor = true
}

type project struct {
	dir string
	acc string
}

func writeFile(t *testing.T, path, body string, mode os.FileMode) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(body), mode))
}

func script(code int) string {
	return "#!/bin/sh\nexit " + strconv.Itoa(code) + "\n"
}

// newProject lays out a project with one case file, its fixtures, a fake
// improver and a fake nccmp exiting with nccmpCode.
func newProject(t *testing.T, nccmpCode int) project {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	p := project{dir: t.TempDir(), acc: t.TempDir()}
	bin := t.TempDir()

	writeFile(t, filepath.Join(p.acc, "nowcast/in.nc"), "in", 0644)
	writeFile(t, filepath.Join(p.acc, "nowcast/uv.nc"), "uv", 0644)
	writeFile(t, filepath.Join(p.acc, "nowcast/kgo.nc"), "kgo", 0644)
	writeFile(t, filepath.Join(p.dir, "cases/fake.case.yaml"), testCaseFile, 0644)

	improver := filepath.Join(bin, "improver")
	writeFile(t, improver, "#!/bin/sh\nprintf out > \"$3\"\n", 0755)
	nccmp := filepath.Join(bin, "nccmp")
	writeFile(t, nccmp, script(nccmpCode), 0755)

	toml := "[compare]\nnccmp_path = " + strconv.Quote(nccmp) + "\n\n[history]\ndriver = \"sqlite\"\ndsn = " +
		strconv.Quote(filepath.Join(p.dir, "storage", "history.db")) + "\n"
	writeFile(t, filepath.Join(p.dir, "iat.toml"), toml, 0644)

	t.Setenv(config.EnvAccTestDir, p.acc)
	t.Setenv(config.EnvImproverBin, improver)
	t.Setenv(config.EnvImproverDir, "")
	t.Setenv(config.EnvTestDir, "")
	t.Setenv(config.EnvRecreateKGO, "")
	t.Setenv(config.EnvComparator, "")
	t.Setenv(config.EnvHistoryDriver, "")
	t.Setenv(config.EnvHistoryDSN, "")
	return p
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfg := config.New()
	var flags cli.Flags
	root := &cobra.Command{Use: "iat", SilenceUsage: true, SilenceErrors: true}
	NewCommands(cfg, &flags, cli.NewLogger(io.Discard, false)).Register(root)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func loadResults(t *testing.T, dir string) *storage.JSONStorage {
	t.Helper()
	cfg := config.New()
	cfg.ProjectPath = dir
	return storage.NewJSONStorage(cfg)
}

func TestRun_Passes(t *testing.T) {
	p := newProject(t, 0)

	out, err := execute(t, "run", "-d", p.dir, "nowcast-extrapolate/fake*")
	require.NoError(t, err, out)
	assert.Contains(t, out, "All cases passed")

	results, err := loadResults(t, p.dir).Load()
	require.NoError(t, err)
	assert.Equal(t, 1, results.Meta.TotalCases)
	assert.Equal(t, 1, results.Meta.PassedCases)
	assert.Empty(t, results.Details)

	out, err = execute(t, "history", "-d", p.dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Timestamp")
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 2)

	out, err = execute(t, "history", "-d", p.dir, "--run", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "nowcast-extrapolate/fake extrapolation")
}

func TestRun_FailsOnDifference(t *testing.T) {
	p := newProject(t, 1)

	out, err := execute(t, "run", "-d", p.dir, "-f", "*fake*")
	assert.True(t, errors.Is(err, ErrCasesFailed), "err = %v", err)
	assert.Contains(t, out, "1 case(s) failed")

	results, err := loadResults(t, p.dir).Load()
	require.NoError(t, err)
	require.Len(t, results.Details, 1)
	assert.Equal(t, "nowcast-extrapolate/fake extrapolation", results.Details[0].CaseID)

	out, err = execute(t, "list", "-d", p.dir, "--failed", "-f", "*fake*")
	require.NoError(t, err)
	assert.Contains(t, out, "fake extrapolation [F]")
}

func TestRun_DryRun(t *testing.T) {
	p := newProject(t, 0)

	out, err := execute(t, "run", "-d", p.dir, "--dry-run", "*fake*")
	require.NoError(t, err)
	assert.Contains(t, out, "nowcast-extrapolate "+filepath.Join(p.acc, "nowcast/in.nc"))
	assert.Contains(t, out, "All cases skipped")

	_, err = os.Stat(filepath.Join(p.dir, config.DefaultResultsDir, config.DefaultResultsFile))
	assert.True(t, os.IsNotExist(err), "dry run must not write results")
}

func TestRun_RecreateKGO(t *testing.T) {
	p := newProject(t, 1)
	mirror := t.TempDir()

	_, err := execute(t, "run", "-d", p.dir, "--recreate-kgo="+mirror, "*fake*")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(mirror, "nowcast/kgo.nc"))
	require.NoError(t, err)
	assert.Equal(t, "out", string(data))
}

func TestRun_NoMatches(t *testing.T) {
	p := newProject(t, 0)
	out, err := execute(t, "run", "-d", p.dir, "no-such-case")
	require.NoError(t, err)
	assert.Contains(t, out, "No cases to execute")
}

func TestList(t *testing.T) {
	p := newProject(t, 0)
	out, err := execute(t, "list", "-d", p.dir)
	require.NoError(t, err)
	assert.Contains(t, out, "extrapolate with json file (builtin)")
	assert.Contains(t, out, "fake extrapolation ("+filepath.Join(p.dir, "cases", "fake.case.yaml")+")")
}

func TestCompare(t *testing.T) {
	p := newProject(t, 0)
	out, err := execute(t, "compare", "-d", p.dir, "a.nc", "b.nc")
	require.NoError(t, err)
	assert.Contains(t, out, "files are equal (nccmp)")

	p = newProject(t, 1)
	_, err = execute(t, "compare", "-d", p.dir, "a.nc", "b.nc")
	assert.True(t, errors.Is(err, ErrFilesDiffer), "err = %v", err)
}

func TestHistory_Disabled(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvHistoryDriver, "")
	t.Setenv(config.EnvHistoryDSN, "")
	_, err := execute(t, "history", "-d", dir)
	assert.True(t, errors.Is(err, ErrHistoryDisabled), "err = %v", err)
}

func TestPrepare_RejectsBadComparator(t *testing.T) {
	p := newProject(t, 0)
	_, err := execute(t, "run", "-d", p.dir, "--comparator", "cmp")
	assert.True(t, errors.Is(err, config.ErrInvalidComparator), "err = %v", err)
}
