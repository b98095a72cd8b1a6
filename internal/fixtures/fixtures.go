// Package fixtures resolves acceptance-test data and decides whether the
// acceptance tests can run at all.
package fixtures

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"iat/internal/config"
)

// SkipError reports that a prerequisite is missing and the case must be
// skipped rather than failed.
type SkipError struct {
	Reason string
}

func (e *SkipError) Error() string {
	return "skipping acceptance tests: " + e.Reason
}

// Root is the acceptance fixture root (IMPROVER_ACC_TEST_DIR).
type Root struct {
	dir string
}

// NewRoot returns a Root for dir.
func NewRoot(dir string) Root {
	return Root{dir: dir}
}

// Dir returns the root directory.
func (r Root) Dir() string {
	return r.dir
}

// Resolve joins a fixture-relative path onto the root. Absolute paths are
// returned unchanged.
func (r Root) Resolve(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(r.dir, rel)
}

// ResolveAll resolves every path in rels.
func (r Root) ResolveAll(rels []string) []string {
	out := make([]string, len(rels))
	for i, rel := range rels {
		out[i] = r.Resolve(rel)
	}
	return out
}

// Missing returns the resolved paths among rels that do not exist.
func (r Root) Missing(rels []string) []string {
	var missing []string
	for _, rel := range rels {
		p := r.Resolve(rel)
		if _, err := os.Stat(p); err != nil {
			missing = append(missing, p)
		}
	}
	return missing
}

// CheckSkip returns a *SkipError when acceptance tests cannot run: the
// fixture root is unset or not a directory, or the improver CLI cannot be
// found.
func CheckSkip(cfg *config.Config) error {
	if cfg.AccTestDir == "" {
		return &SkipError{Reason: config.EnvAccTestDir + " is not set"}
	}
	info, err := os.Stat(cfg.AccTestDir)
	if err != nil {
		return &SkipError{Reason: fmt.Sprintf("%s %s does not exist", config.EnvAccTestDir, cfg.AccTestDir)}
	}
	if !info.IsDir() {
		return &SkipError{Reason: fmt.Sprintf("%s %s is not a directory", config.EnvAccTestDir, cfg.AccTestDir)}
	}
	if _, err := exec.LookPath(cfg.GetImproverPath()); err != nil {
		return &SkipError{Reason: fmt.Sprintf("improver CLI not found: %v", err)}
	}
	return nil
}
