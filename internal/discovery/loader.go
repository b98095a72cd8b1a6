package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"iat/internal/cases"
	"iat/internal/domain"
)

// Loader decodes case files
type Loader struct {
	scanner *Scanner
}

// NewLoader creates a new Loader that finds files with scanner
func NewLoader(scanner *Scanner) *Loader {
	return &Loader{scanner: scanner}
}

// LoadFile decodes and validates one case file.
func (l *Loader) LoadFile(path string) (domain.Case, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Case{}, fmt.Errorf("open case file: %w", err)
	}
	defer f.Close()

	var c domain.Case
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return domain.Case{}, fmt.Errorf("parse %s: %w", path, err)
	}
	c.Source = path
	if err := cases.Validate(c); err != nil {
		return domain.Case{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Discover adds every case file under dir to registry. A missing dir is not
// an error: case files are optional.
func (l *Loader) Discover(registry *cases.Registry, dir string) error {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	paths, err := l.scanner.Scan(dir)
	if err != nil {
		return err
	}
	for _, p := range paths {
		c, err := l.LoadFile(p)
		if err != nil {
			return err
		}
		if err := registry.Add(c); err != nil {
			return err
		}
	}
	return nil
}
