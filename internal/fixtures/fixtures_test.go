package fixtures

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"iat/internal/config"
)

func writeExecutable(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0755); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestRoot_Resolve(t *testing.T) {
	root := NewRoot("/acc")

	if got := root.Resolve("nowcast-extrapolate/kgo.nc"); got != "/acc/nowcast-extrapolate/kgo.nc" {
		t.Errorf("unexpected resolved path %s", got)
	}
	if got := root.Resolve("/abs/kgo.nc"); got != "/abs/kgo.nc" {
		t.Errorf("absolute paths must pass through, got %s", got)
	}

	all := root.ResolveAll([]string{"a.nc", "b/c.nc"})
	if all[0] != "/acc/a.nc" || all[1] != "/acc/b/c.nc" {
		t.Errorf("unexpected ResolveAll result %v", all)
	}
}

func TestRoot_Missing(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "present.nc"), []byte("x"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	root := NewRoot(dir)

	missing := root.Missing([]string{"present.nc", "absent.nc"})
	if len(missing) != 1 || missing[0] != filepath.Join(dir, "absent.nc") {
		t.Errorf("expected only absent.nc missing, got %v", missing)
	}
}

func TestCheckSkip(t *testing.T) {
	binDir := t.TempDir()
	improver := writeExecutable(t, binDir, "improver")
	accDir := t.TempDir()
	notDir := filepath.Join(accDir, "file")
	if err := os.WriteFile(notDir, []byte("x"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	tests := []struct {
		name     string
		cfg      *config.Config
		wantSkip bool
	}{
		{name: "unset acceptance dir", cfg: &config.Config{ImproverBin: improver}, wantSkip: true},
		{name: "missing acceptance dir", cfg: &config.Config{AccTestDir: filepath.Join(accDir, "nope"), ImproverBin: improver}, wantSkip: true},
		{name: "acceptance dir is a file", cfg: &config.Config{AccTestDir: notDir, ImproverBin: improver}, wantSkip: true},
		{name: "missing CLI", cfg: &config.Config{AccTestDir: accDir, ImproverBin: filepath.Join(binDir, "absent")}, wantSkip: true},
		{name: "ready", cfg: &config.Config{AccTestDir: accDir, ImproverBin: improver}, wantSkip: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSkip(tt.cfg)
			var skip *SkipError
			if tt.wantSkip {
				if !errors.As(err, &skip) {
					t.Fatalf("expected SkipError, got %v", err)
				}
				if skip.Reason == "" {
					t.Error("skip reason should not be empty")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
