package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/devup-sh/devup/internal/logging"
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "devup",
		Short:         "Supervisor for a local development stack",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	root.AddCommand(newUpCmd())
	root.AddCommand(newRunCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return logging.New(level)
}
