package commands

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"iat/internal/cases"
	"iat/internal/cli"
	"iat/internal/config"
	"iat/internal/discovery"
	"iat/internal/domain"
	"iat/internal/storage"
)

var (
	// ErrCasesFailed is returned by run when at least one case failed.
	ErrCasesFailed = errors.New("one or more cases failed")
	// ErrFilesDiffer is returned by compare when the files are not equal.
	ErrFilesDiffer = errors.New("files differ")
	// ErrHistoryDisabled is returned by history when no database is configured.
	ErrHistoryDisabled = errors.New("history is disabled: set " + config.EnvHistoryDSN + " or [history] dsn")
)

// Commands holds all CLI commands
type Commands struct {
	config *config.Config
	flags  *cli.Flags
	log    *logrus.Logger

	Run      *RunCommand
	List     *ListCommand
	Failures *FailuresCommand
	Compare  *CompareCommand
	History  *HistoryCommand
}

// NewCommands creates all commands with dependencies. cfg is filled in by
// Prepare once flags are parsed; commands read it when they execute.
func NewCommands(cfg *config.Config, flags *cli.Flags, log *logrus.Logger) *Commands {
	filter := discovery.NewFilter()
	jsonStorage := storage.NewJSONStorage(cfg)

	return &Commands{
		config:   cfg,
		flags:    flags,
		log:      log,
		Run:      NewRunCommand(cfg, filter, jsonStorage, log),
		List:     NewListCommand(cfg, filter, jsonStorage),
		Failures: NewFailuresCommand(jsonStorage),
		Compare:  NewCompareCommand(cfg, log),
		History:  NewHistoryCommand(cfg, flags),
	}
}

// Prepare loads the configuration and overlays the parsed flags.
func (c *Commands) Prepare(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(c.flags.ProjectPath, c.flags.ConfigFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	*c.config = *loaded
	c.config.ApplyFlags(c.flags.ToConfigFlags())
	if err := c.config.Validate(); err != nil {
		return err
	}
	if c.flags.Verbose {
		c.log.SetLevel(logrus.DebugLevel)
	}
	c.log.WithFields(logrus.Fields{
		"project":    c.config.ProjectPath,
		"acc_dir":    c.config.AccTestDir,
		"improver":   c.config.GetImproverPath(),
		"comparator": c.config.Compare.Tool,
	}).Debug("configuration loaded")
	return nil
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command) {
	flags := c.flags
	rootCmd.PersistentPreRunE = c.Prepare
	rootCmd.PersistentFlags().StringVarP(&flags.ProjectPath, "project", "d", "", "Project directory holding iat.toml, .env and cases/ (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&flags.ConfigFile, "config", "", "Path to the TOML config file (default: <project>/iat.toml)")
	rootCmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Log every executed command line and debug details")

	// Run command
	runCmd := &cobra.Command{
		Use:   "run [pattern]",
		Short: "Run acceptance cases",
		Long:  "Invoke the improver CLI for each acceptance case and compare its output with the known-good output",
		Args:  cobra.MaximumNArgs(1),
		RunE:  c.Run.Execute,
	}
	runCmd.Flags().IntVarP(&flags.Processors, "processors", "p", 0, "Number of cases to run in parallel (default from config)")
	runCmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Filter cases by ID or name (supports wildcards, e.g. 'nowcast-extrapolate/*' or '*json*')")
	runCmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "Stop on first case failure")
	runCmd.Flags().StringVar(&flags.RecreateKGO, "recreate-kgo", "", "Recreate known-good outputs instead of comparing; optionally a directory to write them under")
	runCmd.Flags().Lookup("recreate-kgo").NoOptDefVal = "1"
	runCmd.Flags().StringVar(&flags.Comparator, "comparator", "", "Comparator to use: nccmp or native")
	runCmd.Flags().Float64Var(&flags.Tolerance, "tolerance", 0, "Numeric tolerance used when a case sets none")
	runCmd.Flags().BoolVar(&flags.Keep, "keep", false, "Keep produced output files")
	runCmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "Print the improver command lines without running them")
	runCmd.Flags().BoolVar(&flags.OnlyFailed, "failed", false, "Run only cases that failed in the last run")
	runCmd.Flags().BoolVar(&flags.OpenFailures, "open-failures", false, "Open the failures viewer when the run finishes with failures")
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List acceptance cases",
		Long:  "List built-in and case-file acceptance cases without running them",
		Args:  cobra.NoArgs,
		RunE:  c.List.Execute,
	}
	listCmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Filter cases by ID or name (supports wildcards)")
	listCmd.Flags().BoolVar(&flags.OnlyFailed, "failed", false, "Mark cases that failed in the last run")
	rootCmd.AddCommand(listCmd)

	// Failures command
	failuresCmd := &cobra.Command{
		Use:   "failures",
		Short: "View case failures interactively",
		Long:  "Display case failures from the last run in an interactive viewer",
		Args:  cobra.NoArgs,
		RunE:  c.Failures.Execute,
	}
	rootCmd.AddCommand(failuresCmd)

	// Compare command
	compareCmd := &cobra.Command{
		Use:   "compare ACTUAL EXPECTED",
		Short: "Compare two netCDF files",
		Long:  "Run the configured comparator once on two netCDF files",
		Args:  cobra.ExactArgs(2),
		RunE:  c.Compare.Execute,
	}
	compareCmd.Flags().StringVar(&flags.Comparator, "comparator", "", "Comparator to use: nccmp or native")
	compareCmd.Flags().Float64Var(&flags.Tolerance, "tolerance", 0, "Numeric tolerance")
	rootCmd.AddCommand(compareCmd)

	// History command
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded runs",
		Long:  "List recent runs from the history database, or the case outcomes of one run",
		Args:  cobra.NoArgs,
		RunE:  c.History.Execute,
	}
	historyCmd.Flags().IntVarP(&flags.HistoryLimit, "limit", "n", 10, "Number of runs to show")
	historyCmd.Flags().Int64Var(&flags.RunID, "run", 0, "Show the case outcomes of this run")
	rootCmd.AddCommand(historyCmd)
}

// loadCases returns the built-in cases plus those found in the cases dir.
func loadCases(cfg *config.Config) ([]domain.Case, error) {
	loader := discovery.NewLoader(discovery.NewScanner(cfg.PathsToIgnore))
	registry := cases.Builtin()
	if err := loader.Discover(registry, cfg.GetCasesDir()); err != nil {
		return nil, fmt.Errorf("load case files: %w", err)
	}
	return registry.All(), nil
}

// failedIDs returns the IDs of cases that failed in the last stored run.
func failedIDs(st storage.Storage) (map[string]struct{}, error) {
	output, err := st.Load()
	if err != nil {
		return nil, err
	}
	ids := make(map[string]struct{}, len(output.Details))
	for _, d := range output.Details {
		ids[d.CaseID] = struct{}{}
	}
	return ids, nil
}
