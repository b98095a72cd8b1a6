package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Environment variables read by Load.
const (
	EnvImproverDir   = "IMPROVER_DIR"
	EnvAccTestDir    = "IMPROVER_ACC_TEST_DIR"
	EnvTestDir       = "TEST_DIR"
	EnvRecreateKGO   = "RECREATE_KGO"
	EnvImproverBin   = "IMPROVER_BIN"
	EnvComparator    = "IAT_COMPARATOR"
	EnvHistoryDriver = "IAT_HISTORY_DRIVER"
	EnvHistoryDSN    = "IAT_HISTORY_DSN"
)

var (
	// ErrInvalidComparator indicates compare.tool is not a known comparator.
	ErrInvalidComparator = errors.New("compare.tool must be nccmp or native")
	// ErrInvalidHistoryDriver indicates history.driver is not supported.
	ErrInvalidHistoryDriver = errors.New("history.driver must be sqlite or mysql")
	// ErrNegativeTolerance indicates a tolerance below zero.
	ErrNegativeTolerance = errors.New("compare.tolerance must not be negative")
	// ErrInvalidProcessors indicates fewer than one worker.
	ErrInvalidProcessors = errors.New("processors must be at least 1")
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string `toml:"-"`
	CasesDir    string `toml:"cases_dir"`

	// Environment driven paths
	ImproverDir string `toml:"-"`
	AccTestDir  string `toml:"-"`
	TestDir     string `toml:"-"`
	RecreateKGO string `toml:"-"`
	ImproverBin string `toml:"improver_bin"`

	// Execution settings
	Processors int  `toml:"processors"`
	KeepOutput bool `toml:"keep_output"`

	Compare CompareSettings `toml:"compare"`
	History HistorySettings `toml:"history"`
	Results ResultsSettings `toml:"results"`

	// Paths to ignore when scanning for case files
	PathsToIgnore []string `toml:"ignore"`

	// Command flags
	Flags Flags `toml:"-"`
}

// CompareSettings selects and tunes the known-good output comparator.
type CompareSettings struct {
	Tool      string   `toml:"tool"`
	NCCmpPath string   `toml:"nccmp_path"`
	Args      []string `toml:"args"`
	Tolerance float64  `toml:"tolerance"`
}

// HistorySettings configures the SQL run history.
type HistorySettings struct {
	Driver string `toml:"driver"`
	DSN    string `toml:"dsn"`
}

// ResultsSettings locates the JSON results file.
type ResultsSettings struct {
	Dir  string `toml:"dir"`
	File string `toml:"file"`
}

// Flags holds command-line flags
type Flags struct {
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
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ProjectPath: DefaultProjectPath,
		CasesDir:    DefaultCasesDir,
		Processors:  DefaultProcessors,
		Compare: CompareSettings{
			Tool:      DefaultComparator,
			NCCmpPath: DefaultNCCmpPath,
		},
		Results: ResultsSettings{
			Dir:  DefaultResultsDir,
			File: DefaultResultsFile,
		},
		Flags: Flags{Processors: DefaultProcessors},
	}
	cfg.Compare.Args = make([]string, len(DefaultNCCmpArgs))
	copy(cfg.Compare.Args, DefaultNCCmpArgs)
	// Copy default paths to ignore
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)
	return cfg
}

// Load builds the configuration for projectPath: defaults, then the TOML file
// (configPath, or iat.toml in the project), then .env, then the environment.
// A missing TOML or .env file is not an error.
func Load(projectPath, configPath string) (*Config, error) {
	cfg := New()
	if projectPath != "" {
		cfg.ProjectPath = projectPath
	}

	if configPath == "" {
		configPath = filepath.Join(cfg.ProjectPath, DefaultConfigFile)
	}
	if err := cfg.readFile(configPath); err != nil {
		return nil, err
	}

	// .env never overrides variables already present in the environment
	envPath := filepath.Join(cfg.ProjectPath, ".env")
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envPath, err)
	}

	cfg.ApplyEnv(os.Getenv)
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays environment variables using getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	c.ImproverDir = getenv(EnvImproverDir)
	c.AccTestDir = getenv(EnvAccTestDir)
	c.TestDir = getenv(EnvTestDir)
	c.RecreateKGO = getenv(EnvRecreateKGO)
	if v := getenv(EnvImproverBin); v != "" {
		c.ImproverBin = v
	}
	if v := getenv(EnvComparator); v != "" {
		c.Compare.Tool = v
	}
	if v := getenv(EnvHistoryDriver); v != "" {
		c.History.Driver = v
	}
	if v := getenv(EnvHistoryDSN); v != "" {
		c.History.DSN = v
	}
}

// ApplyFlags overlays command-line flags, which take precedence over everything else.
func (c *Config) ApplyFlags(flags Flags) {
	c.Flags = flags
	if flags.Processors > 0 {
		c.Processors = flags.Processors
	}
	if flags.RecreateKGO != "" {
		c.RecreateKGO = flags.RecreateKGO
	}
	if flags.Comparator != "" {
		c.Compare.Tool = flags.Comparator
	}
	if flags.Tolerance > 0 {
		c.Compare.Tolerance = flags.Tolerance
	}
	if flags.Keep {
		c.KeepOutput = true
	}
}

func (c *Config) applyDefaults() {
	c.Compare.Tool = strings.ToLower(strings.TrimSpace(c.Compare.Tool))
	if c.Compare.Tool == "" {
		c.Compare.Tool = DefaultComparator
	}
	if c.Compare.NCCmpPath == "" {
		c.Compare.NCCmpPath = DefaultNCCmpPath
	}
	c.History.Driver = strings.ToLower(strings.TrimSpace(c.History.Driver))
	if c.History.Driver == "" && c.History.DSN != "" {
		c.History.Driver = HistorySQLite
	}
	if c.Results.Dir == "" {
		c.Results.Dir = DefaultResultsDir
	}
	if c.Results.File == "" {
		c.Results.File = DefaultResultsFile
	}
	if c.Processors == 0 {
		c.Processors = DefaultProcessors
	}
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	switch c.Compare.Tool {
	case ComparatorNCCmp, ComparatorNative:
	default:
		return fmt.Errorf("%w (got %q)", ErrInvalidComparator, c.Compare.Tool)
	}
	switch c.History.Driver {
	case "", HistorySQLite, HistoryMySQL:
	default:
		return fmt.Errorf("%w (got %q)", ErrInvalidHistoryDriver, c.History.Driver)
	}
	if c.Compare.Tolerance < 0 {
		return ErrNegativeTolerance
	}
	if c.Processors < 1 {
		return ErrInvalidProcessors
	}
	return nil
}

// GetImproverPath returns the improver CLI to execute: IMPROVER_BIN or the
// configured binary, then $IMPROVER_DIR/bin/improver, then improver on PATH.
func (c *Config) GetImproverPath() string {
	if c.ImproverBin != "" {
		return c.ImproverBin
	}
	if c.ImproverDir != "" {
		return filepath.Join(c.ImproverDir, "bin", DefaultImproverBin)
	}
	return DefaultImproverBin
}

// GetCasesDir returns the case-file directory, relative to the project unless absolute.
func (c *Config) GetCasesDir() string {
	if filepath.IsAbs(c.CasesDir) {
		return c.CasesDir
	}
	return filepath.Join(c.ProjectPath, c.CasesDir)
}

// GetOutputPath returns the full path to the results JSON file.
// Resolves to an absolute path so run and failures always read/write the same file regardless of cwd.
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.ProjectPath, c.Results.Dir, c.Results.File)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// HistoryEnabled reports whether run history should be recorded.
func (c *Config) HistoryEnabled() bool {
	return c.History.Driver != "" && c.History.DSN != ""
}
