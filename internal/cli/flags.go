package cli

import "iat/internal/config"

// Flags holds command-line flags
type Flags struct {
	ProjectPath  string
	ConfigFile   string
	Processors   int
	Filter       string
	FailFast     bool
	RecreateKGO  string
	Comparator   string
	Tolerance    float64
	Keep         bool
	DryRun       bool
	Verbose      bool
	OnlyFailed   bool
	OpenFailures bool
	HistoryLimit int
	RunID        int64
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		Processors:   f.Processors,
		Filter:       f.Filter,
		FailFast:     f.FailFast,
		RecreateKGO:  f.RecreateKGO,
		Comparator:   f.Comparator,
		Tolerance:    f.Tolerance,
		Keep:         f.Keep,
		DryRun:       f.DryRun,
		Verbose:      f.Verbose,
		OnlyFailed:   f.OnlyFailed,
		OpenFailures: f.OpenFailures,
	}
}
