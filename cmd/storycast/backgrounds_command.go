package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"storycast/internal/catalog"
)

func newBackgroundsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backgrounds",
		Short: "List the available background sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			backgrounds, err := catalog.Load(cfg.Background.CatalogPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, kind := range []catalog.Kind{catalog.KindAudio, catalog.KindVideo} {
				rows := make([][]string, 0)
				for _, name := range backgrounds.Names(kind) {
					entry, _ := backgrounds.Get(kind, name)
					local := entry.LocalPath(cfg.Paths.BackgroundsDir, kind)
					downloaded := "no"
					if info, err := os.Stat(local); err == nil && info.Size() > 0 {
						downloaded = "yes"
					}
					rows = append(rows, []string{entry.Name, entry.Credit, entry.LocalName(), downloaded})
				}
				fmt.Fprintf(out, "%s backgrounds:\n", kind)
				fmt.Fprintln(out, renderTable(
					[]string{"Name", "Credit", "File", "Downloaded"},
					rows,
				))
			}
			return nil
		},
	}
	return cmd
}
