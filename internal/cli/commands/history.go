package commands

import (
	"context"

	"github.com/spf13/cobra"

	"iat/internal/cli"
	"iat/internal/config"
	"iat/internal/storage"
	"iat/internal/ui"
)

// HistoryCommand handles the history command
type HistoryCommand struct {
	config *config.Config
	flags  *cli.Flags
}

// NewHistoryCommand creates a new HistoryCommand
func NewHistoryCommand(cfg *config.Config, flags *cli.Flags) *HistoryCommand {
	return &HistoryCommand{config: cfg, flags: flags}
}

// Execute runs the command
func (hc *HistoryCommand) Execute(cmd *cobra.Command, args []string) error {
	if !hc.config.HistoryEnabled() {
		return ErrHistoryDisabled
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	h, err := storage.OpenHistory(ctx, hc.config.History.Driver, hc.config.History.DSN)
	if err != nil {
		return err
	}
	defer h.Close()

	formatter := ui.NewFormatter(cmd.OutOrStdout())
	if hc.flags.RunID > 0 {
		records, err := h.Results(ctx, hc.flags.RunID)
		if err != nil {
			return err
		}
		formatter.PrintRunResults(hc.flags.RunID, records)
		return nil
	}

	runs, err := h.Recent(ctx, hc.flags.HistoryLimit)
	if err != nil {
		return err
	}
	formatter.PrintHistory(runs)
	return nil
}
