package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/devup-sh/devup/pkg/lib"
	"github.com/devup-sh/devup/pkg/lib/supervisor"
)

func newRunCmd() *cobra.Command {
	var (
		dir   string
		grace time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run -- <command> [args...]",
		Short: "Supervise a single ad-hoc command",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("command to execute is required; use -- to separate CLI flags from the command")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd)
			sup := supervisor.New(logger)

			spec := lib.Spec{
				Name:    filepath.Base(args[0]),
				Dir:     dir,
				Command: args[0],
				Args:    args[1:],
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			h, err := sup.Start(spec)
			if err != nil {
				return err
			}
			logger.Debug("started", "name", spec.Name, "pid", h.PID)

			var relayWG sync.WaitGroup
			if err := relayOutput(sup, h, os.Stdout, os.Stderr, &relayWG); err != nil {
				logger.Warn("output relay unavailable", "error", err)
			}

			st, err := sup.Wait(ctx, h)
			if err != nil {
				// Interrupt: pass it on to the child, then reap it.
				_, _ = sup.Stop(context.Background(), h, grace)
				relayWG.Wait()
				return nil
			}
			relayWG.Wait()

			if code := exitCode(st); code > 0 {
				return fmt.Errorf("%s exited with code %d", spec.Name, code)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "working directory for the command")
	cmd.Flags().DurationVar(&grace, "grace", 5*time.Second, "SIGTERM grace period before SIGKILL on interrupt")

	return cmd
}
