package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devup-sh/devup/internal/config"
	"github.com/devup-sh/devup/pkg/lib/supervisor"
)

func newCheckCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the stack file and resolve every command without launching",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stack, err := config.Load(file)
			if err != nil {
				return err
			}

			rows := make([]checkRow, 0, len(stack.Processes))
			failures := 0
			for _, spec := range stack.Specs() {
				row := checkRow{name: spec.Name, command: spec.CommandLine()}
				path, err := supervisor.Resolve(spec)
				if err != nil {
					row.resolved = "ERROR: " + err.Error()
					failures++
				} else {
					row.resolved = path
				}
				rows = append(rows, row)
			}
			printCheckTable(rows)

			if failures > 0 {
				return fmt.Errorf("%d of %d processes would fail to launch", failures, len(rows))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", config.DefaultFile, "stack file to load")

	return cmd
}
