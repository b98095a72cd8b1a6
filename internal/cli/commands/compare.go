package commands

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"iat/internal/compare"
	"iat/internal/config"
	"iat/internal/ui"
)

// CompareCommand handles the compare command
type CompareCommand struct {
	config *config.Config
	log    logrus.FieldLogger
}

// NewCompareCommand creates a new CompareCommand
func NewCompareCommand(cfg *config.Config, log logrus.FieldLogger) *CompareCommand {
	return &CompareCommand{config: cfg, log: log}
}

// Execute runs the command
func (cc *CompareCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	comparator, err := compare.New(cc.config, cc.log)
	if err != nil {
		return err
	}
	report, err := comparator.Compare(ctx, args[0], args[1], cc.config.Compare.Tolerance)
	if err != nil {
		return err
	}

	ui.NewFormatter(cmd.OutOrStdout()).PrintComparison(comparator.Name(), report)
	if !report.Equal {
		return ErrFilesDiffer
	}
	return nil
}
