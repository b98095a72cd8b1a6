package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"iat/internal/cli"
	"iat/internal/cli/commands"
	"iat/internal/config"
)

var version = "dev"

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:           "iat",
		Short:         "Improver acceptance test runner",
		Long:          `Runs the improver CLI against acceptance fixtures and checks each output against its known-good output. Cases run in parallel and results are kept for later inspection.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Create initial config with defaults; filled in once flags are parsed
	cfg := config.New()

	var flags cli.Flags
	log := cli.NewLogger(os.Stderr, false)

	cmds := commands.NewCommands(cfg, &flags, log)
	cmds.Register(rootCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, commands.ErrCasesFailed) && !errors.Is(err, commands.ErrFilesDiffer) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}
