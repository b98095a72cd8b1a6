package domain

import "strings"

// Option is one CLI flag passed to the improver command.
// Paths are fixture-relative and resolved under the acceptance root;
// Values are passed through literally.
type Option struct {
	Flag   string   `json:"flag" yaml:"flag"`
	Paths  []string `json:"paths,omitempty" yaml:"paths,omitempty"`
	Values []string `json:"values,omitempty" yaml:"values,omitempty"`
}

// Case is a single acceptance scenario: one improver invocation checked
// against one known-good output.
type Case struct {
	Command   string   `json:"command" yaml:"command"`
	Name      string   `json:"name" yaml:"name"`
	Inputs    []string `json:"inputs" yaml:"inputs"`
	Output    string   `json:"output,omitempty" yaml:"output,omitempty"`
	Options   []Option `json:"options,omitempty" yaml:"options,omitempty"`
	KGO       string   `json:"kgo" yaml:"kgo"`
	Tolerance float64  `json:"tolerance,omitempty" yaml:"tolerance,omitempty"`
	Source    string   `json:"source,omitempty" yaml:"-"`
}

// DefaultOutputName is the output file written into the scratch directory.
const DefaultOutputName = "output.nc"

// ID identifies a case as "<command>/<name>".
func (c Case) ID() string {
	return c.Command + "/" + c.Name
}

// OutputName returns the scratch output file name.
func (c Case) OutputName() string {
	if c.Output == "" {
		return DefaultOutputName
	}
	return c.Output
}

// Slug is a filesystem-safe form of the ID used for scratch directories.
func (c Case) Slug() string {
	var b strings.Builder
	for _, r := range strings.ToLower(c.ID()) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// Option returns the first option with the given flag.
func (c Case) Option(flag string) (Option, bool) {
	for _, o := range c.Options {
		if o.Flag == flag {
			return o, true
		}
	}
	return Option{}, false
}

// FixturePaths lists every fixture-relative input: positional inputs and path options.
func (c Case) FixturePaths() []string {
	paths := make([]string, 0, len(c.Inputs)+len(c.Options))
	paths = append(paths, c.Inputs...)
	for _, o := range c.Options {
		paths = append(paths, o.Paths...)
	}
	return paths
}
