package storage

import (
	"os"
	"testing"
	"time"

	"iat/internal/config"
	"iat/internal/domain"
)

func TestJSONStorage_SaveLoad(t *testing.T) {
	cfg := config.New()
	cfg.ProjectPath = t.TempDir()
	s := NewJSONStorage(cfg)
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	results := []domain.CaseResult{
		{CaseID: "nowcast-extrapolate/a", Status: domain.StatusPassed},
		{CaseID: "nowcast-extrapolate/b", Status: domain.StatusFailed, Stage: domain.StageCompare, Error: "differs"},
		{CaseID: "nowcast-extrapolate/c", Status: domain.StatusSkipped, SkipReason: "dry run"},
	}
	if err := s.Save(results, 2*time.Second, 2); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(cfg.GetOutputPath()); err != nil {
		t.Fatalf("results file not written: %v", err)
	}

	out, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if out.Meta.TotalCases != 3 || out.Meta.PassedCases != 1 || out.Meta.FailedCases != 1 || out.Meta.SkippedCases != 1 {
		t.Errorf("Meta = %+v", out.Meta)
	}
	if out.Meta.Workers != 2 || out.Meta.Timestamp != "2024-05-01T12:00:00Z" {
		t.Errorf("Meta = %+v", out.Meta)
	}
	if len(out.Details) != 1 || out.Details[0].CaseID != "nowcast-extrapolate/b" {
		t.Errorf("Details = %+v, want only the failed case", out.Details)
	}

	out.Details[0].Resolved = true
	if err := s.SaveOutput(out); err != nil {
		t.Fatalf("SaveOutput() error = %v", err)
	}
	again, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !again.Details[0].Resolved {
		t.Error("Resolved flag was not persisted")
	}
}

func TestJSONStorage_LoadMissing(t *testing.T) {
	cfg := config.New()
	cfg.ProjectPath = t.TempDir()
	if _, err := NewJSONStorage(cfg).Load(); err == nil {
		t.Error("Load() error = nil for missing file")
	}
}

func TestBuildOutput_NoFailures(t *testing.T) {
	out := BuildOutput([]domain.CaseResult{{CaseID: "x/y", Status: domain.StatusRecreated}}, time.Second, 1, time.Now())
	if out.Details == nil || len(out.Details) != 0 {
		t.Errorf("Details = %#v, want empty non-nil slice", out.Details)
	}
	if out.Meta.RecreatedCases != 1 {
		t.Errorf("RecreatedCases = %d, want 1", out.Meta.RecreatedCases)
	}
}
