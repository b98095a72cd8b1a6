// Package kgo recreates known-good output files from freshly produced output.
package kgo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"iat/internal/fixtures"
)

// Mode describes whether and where known-good outputs are recreated.
type Mode struct {
	root    string
	accDir  string
	inPlace bool
}

// ParseMode interprets a RECREATE_KGO value. Empty, "0", "false", "no" and
// "off" leave recreation off. "1", "true", "yes" and "on" overwrite the
// known-good outputs in place under accDir. Anything else is a directory
// that receives new known-good outputs at the same relative paths.
func ParseMode(value, accDir string) Mode {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "0", "false", "no", "off":
		return Mode{}
	case "1", "true", "yes", "on":
		return Mode{root: accDir, accDir: accDir, inPlace: true}
	default:
		return Mode{root: value, accDir: accDir}
	}
}

// Active reports whether recreation is on.
func (m Mode) Active() bool {
	return m.root != ""
}

// Root returns the directory new known-good outputs are written under.
func (m Mode) Root() string {
	return m.root
}

// Target returns where the known-good output at rel is written. In place,
// this is the same file the comparison reads. In a mirror root, rel keeps
// its position relative to the acceptance dir; an absolute rel outside the
// acceptance dir has no mirror position and is rejected.
func (m Mode) Target(rel string) (string, error) {
	if m.inPlace {
		return fixtures.NewRoot(m.accDir).Resolve(rel), nil
	}
	if !filepath.IsAbs(rel) {
		return filepath.Join(m.root, rel), nil
	}
	if m.accDir == "" {
		return "", fmt.Errorf("kgo %s: no acceptance dir to mirror from", rel)
	}
	r, err := filepath.Rel(m.accDir, rel)
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("kgo %s is outside %s and cannot be mirrored under %s", rel, m.accDir, m.root)
	}
	return filepath.Join(m.root, r), nil
}

// Recreate copies produced over the known-good output at rel and returns the
// path written. The copy is atomic: readers see either the old or the new
// file, never a partial one.
func Recreate(m Mode, produced, rel string) (string, error) {
	if !m.Active() {
		return "", fmt.Errorf("recreate known-good output: mode is not active")
	}
	target, err := m.Target(rel)
	if err != nil {
		return "", err
	}

	src, err := os.Open(produced)
	if err != nil {
		return "", fmt.Errorf("open produced output: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return "", fmt.Errorf("create kgo dir: %w", err)
	}
	if err := atomic.WriteFile(target, src); err != nil {
		return "", fmt.Errorf("write kgo %s: %w", target, err)
	}
	return target, nil
}
