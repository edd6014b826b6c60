package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"storycast/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check external dependencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := deps.CheckBinaries(deps.Required(cfg))
			statuses = append(statuses, deps.CheckStagingDir(cfg.Paths.StagingDir))

			rows := make([][]string, 0, len(statuses))
			failures := 0
			for _, status := range statuses {
				if !status.Available && !status.Optional {
					failures++
				}
				rows = append(rows, []string{
					status.Name,
					status.Command,
					yesNo(status.Available),
					status.Detail,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Dependency", "Command", "Available", "Detail"},
				rows,
			))

			if failures > 0 {
				return fmt.Errorf("%d required dependencies unavailable", failures)
			}
			return nil
		},
	}
}
