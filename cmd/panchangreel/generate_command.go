package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"panchangreel/internal/config"
	"panchangreel/internal/pipeline"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var opts pipeline.GenerateOptions
	var shadow bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Fetch the day's panchang and build the reel",
		Long: "Runs every stage: preflight checks, almanac fetch (or --lines), panel rendering,\n" +
			"video composition, verification and optional publishing.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := ctx.runner(func(cfg *config.Config) {
				if shadow {
					cfg.Render.Shadow = true
				}
			})
			if err != nil {
				return err
			}
			report, err := runner.Generate(cmd.Context(), opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			cfg := runner.Config()
			printLines(out, renderSectionHeader("Reel ready", colorize)...)
			printLines(out,
				renderField("Date", report.Date.Format(cfg.Reel.DateLayout)),
				renderField("Video", report.Video.OutputPath),
				renderField("Frames", fmt.Sprintf("%d (%s)", report.Video.Frames, formatDuration(report.Video.Duration))),
				renderField("Panels", strings.Join(report.Render.Paths[:], ", ")),
			)
			if report.Fetch != nil {
				printLines(out, renderField("Reel text", report.Fetch.Artifacts.Text))
			}
			switch {
			case report.Verify == nil:
				printLines(out, renderStatusLine("Verify", statusInfo, "skipped", colorize))
			case report.Verify.OK():
				printLines(out, renderStatusLine("Verify", statusOK, "", colorize))
			default:
				printLines(out, renderStatusLine("Verify", statusWarn, strings.Join(report.Verify.Problems, "; "), colorize))
			}
			if report.Published != nil {
				printLines(out, renderStatusLine("Published", statusOK, report.Published.Location, colorize))
			}
			if len(report.Pruned) > 0 {
				printLines(out, renderField("Pruned", plural(len(report.Pruned), "old run file")))
			}
			printLines(out, renderField("Elapsed", formatDuration(report.Elapsed)))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Date, "date", "", "Target date (YYYY-MM-DD); defaults to the configured day offset")
	cmd.Flags().StringVar(&opts.LinesPath, "lines", "", "Read reel text from a file instead of the almanac API")
	cmd.Flags().BoolVar(&shadow, "shadow", false, "Draw a drop shadow behind panel text")
	cmd.Flags().BoolVar(&opts.SkipVerify, "skip-verify", false, "Skip ffprobe verification of the written video")
	return cmd
}
