package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"iat/internal/config"
	"iat/internal/discovery"
	"iat/internal/storage"
	"iat/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	config  *config.Config
	filter  *discovery.Filter
	storage storage.Storage
}

// NewListCommand creates a new ListCommand
func NewListCommand(
	cfg *config.Config,
	filter *discovery.Filter,
	st storage.Storage,
) *ListCommand {
	return &ListCommand{
		config:  cfg,
		filter:  filter,
		storage: st,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	all, err := loadCases(lc.config)
	if err != nil {
		return err
	}
	selected := lc.filter.FilterByName(all, lc.config.Flags.Filter)

	if len(selected) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), color.YellowString("No cases found"))
		return nil
	}

	var failed map[string]struct{}
	if lc.config.Flags.OnlyFailed {
		// Missing results just means nothing is marked
		failed, _ = failedIDs(lc.storage)
	}

	ui.NewFormatter(cmd.OutOrStdout()).PrintCaseList(selected, failed)
	return nil
}
