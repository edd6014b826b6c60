package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"storycast/internal/ledger"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show recent assembly runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Ledger.Enabled {
				fmt.Fprintln(cmd.OutOrStdout(), "Run history is disabled in the configuration.")
				return nil
			}

			store, err := ledger.Open(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				detail := ""
				switch run.Status {
				case ledger.StatusCompleted:
					detail = fmt.Sprintf("%.1fs, %d clips", run.TotalSeconds, run.ClipCount)
				case ledger.StatusFailed:
					detail = run.ErrorMessage
				}
				rows = append(rows, []string{
					shortID(run.ID),
					run.DocumentID,
					string(run.Status),
					strconv.Itoa(run.LastIndex),
					run.CreatedAt.Local().Format(time.DateTime),
					detail,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Run", "Document", "Status", "Last", "Started", "Detail"},
				rows,
				3,
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
