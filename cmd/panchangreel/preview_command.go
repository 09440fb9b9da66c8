package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newPreviewCommand(ctx *commandContext) *cobra.Command {
	var linesPath string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show how reel text splits across the two panels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := ctx.runner(nil)
			if err != nil {
				return err
			}
			lines, source, err := readReelLines(runner.Config(), linesPath)
			if err != nil {
				return err
			}
			division := runner.Divide(lines)
			if asJSON {
				return writeJSON(cmd, map[string]any{
					"source":  source,
					"panel_1": division.Panel1,
					"panel_2": division.Panel2,
				})
			}

			rows := make([][]string, 0, max(len(division.Panel1), len(division.Panel2)))
			for i := 0; i < len(division.Panel1) || i < len(division.Panel2); i++ {
				row := []string{strconv.Itoa(i + 1), "", ""}
				if i < len(division.Panel1) {
					row[1] = division.Panel1[i]
				}
				if i < len(division.Panel2) {
					row[2] = division.Panel2[i]
				}
				rows = append(rows, row)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Source: %s\n", source)
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Panel 1", "Panel 2"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft},
				[]string{"", plural(len(division.Panel1), "line"), plural(len(division.Panel2), "line")},
			))
			return nil
		},
	}
	cmd.Flags().StringVar(&linesPath, "lines", "", "Reel text file; defaults to the newest fetched text")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the division as JSON")
	return cmd
}
