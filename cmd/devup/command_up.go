package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/devup-sh/devup/internal/config"
	"github.com/devup-sh/devup/pkg/lib"
	"github.com/devup-sh/devup/pkg/lib/supervisor"
)

func newUpCmd() *cobra.Command {
	var (
		file       string
		haltOnExit bool
		grace      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Start every process in the stack file and wait for them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd)

			stack, err := config.Load(file)
			if err != nil {
				return err
			}

			sup := supervisor.New(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			// waitCtx also cancels when --halt-on-exit tears the stack down.
			waitCtx, cancel := context.WithCancel(ctx)
			defer cancel()

			var (
				handles []*supervisor.Handle
				relayWG sync.WaitGroup
			)
			for _, spec := range stack.Specs() {
				h, err := sup.Start(spec)
				if err != nil {
					// A later launch failure must not leak the
					// processes already running.
					shutdown(sup, handles, grace, logger)
					relayWG.Wait()
					return err
				}
				logger.Info("started", "name", spec.Name, "pid", h.PID, "command", spec.CommandLine())
				handles = append(handles, h)
				tag := []byte("[" + spec.Name + "] ")
				outW := &prefixWriter{w: os.Stdout, prefix: tag}
				errW := &prefixWriter{w: os.Stderr, prefix: tag}
				if err := relayOutput(sup, h, outW, errW, &relayWG); err != nil {
					logger.Warn("output relay unavailable", "name", spec.Name, "error", err)
				}
			}

			statuses, err := sup.WaitAll(waitCtx, handles, func(h *supervisor.Handle, st lib.ProcessStatus) {
				logger.Info("exited", "name", h.Spec.Name, "code", exitCode(st))
				if haltOnExit {
					cancel()
				}
			})
			if err != nil {
				// Interrupted by a signal or by --halt-on-exit: bring
				// down whatever is still running, then re-collect.
				shutdown(sup, handles, grace, logger)
				for i, h := range handles {
					if st, serr := sup.Status(h); serr == nil {
						statuses[i] = st
					}
				}
			}
			relayWG.Wait()

			interrupted := ctx.Err() != nil
			return report(handles, statuses, interrupted)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", config.DefaultFile, "stack file to load")
	cmd.Flags().BoolVar(&haltOnExit, "halt-on-exit", false, "stop the whole stack as soon as any process exits")
	cmd.Flags().DurationVar(&grace, "grace", 5*time.Second, "SIGTERM grace period before SIGKILL on shutdown")

	return cmd
}

func shutdown(sup *supervisor.Supervisor, handles []*supervisor.Handle, grace time.Duration, logger *slog.Logger) {
	// Reverse launch order, so the frontend goes before the backend it
	// talks to.
	for i := len(handles) - 1; i >= 0; i-- {
		h := handles[i]
		st, err := sup.Stop(context.Background(), h, grace)
		if err != nil {
			logger.Warn("stop failed", "name", h.Spec.Name, "error", err)
			continue
		}
		logger.Info("stopped", "name", h.Spec.Name, "code", exitCode(st))
	}
}

// report turns the collected statuses into the command's exit condition.
// A process brought down during an interactive interrupt is not a
// failure; a process that exited on its own with a non-zero code is.
func report(handles []*supervisor.Handle, statuses []lib.ProcessStatus, interrupted bool) error {
	if interrupted {
		return nil
	}
	for i, h := range handles {
		code := exitCode(statuses[i])
		if code > 0 {
			return fmt.Errorf("%s exited with code %d", h.Spec.Name, code)
		}
	}
	return nil
}

func exitCode(st lib.ProcessStatus) int {
	if st.ExitCode == nil {
		return -1
	}
	return *st.ExitCode
}
