package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"panchangreel/internal/preflight"
	"panchangreel/internal/services"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var skipAlmanac bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify assets, directories, credentials and ffmpeg",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := ctx.runner(nil)
			if err != nil {
				return err
			}
			results := runner.Preflight(cmd.Context(), !skipAlmanac)

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				kind, label := statusOK, "OK"
				if !r.Passed {
					kind, label = statusError, "FAIL"
				}
				rows = append(rows, []string{r.Name, colorCell(label, kind, colorize), r.Detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, rows, nil, nil))
			if ctx.configPath != "" {
				fmt.Fprintf(out, "Config: %s\n", ctx.configPath)
			}

			failed := preflight.Failures(results)
			if len(failed) > 0 {
				return services.Wrap(services.ErrValidation, "check", "preflight", fmt.Sprintf("%s failed", plural(len(failed), "check")), nil)
			}
			fmt.Fprintln(out, "All checks passed")
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipAlmanac, "skip-almanac", false, "Do not require Prokerala credentials")
	return cmd
}
