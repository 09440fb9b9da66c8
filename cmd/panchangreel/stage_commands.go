package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"panchangreel/internal/config"
	"panchangreel/internal/pipeline"
	"panchangreel/internal/services"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var date string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the panchang and save the reel text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := ctx.runner(nil)
			if err != nil {
				return err
			}
			at, err := runner.TargetDate(date)
			if err != nil {
				return services.Wrap(services.ErrValidation, "fetch", "parse date", date, err)
			}
			result, err := runner.Fetch(cmd.Context(), at)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, result.Day)
			}
			out := cmd.OutOrStdout()
			printLines(out, result.Lines...)
			fmt.Fprintln(out)
			printLines(out,
				renderField("Reel text", result.Artifacts.Text),
				renderField("Content", result.Artifacts.Content),
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Target date (YYYY-MM-DD); defaults to the configured day offset")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the day as JSON")
	return cmd
}

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var linesPath string
	var shadow bool

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the two text panels",
		Long:  "Renders reel text onto the background image. Without --lines the newest fetched reel text is used.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := ctx.runner(func(cfg *config.Config) {
				if shadow {
					cfg.Render.Shadow = true
				}
			})
			if err != nil {
				return err
			}
			lines, source, err := readReelLines(runner.Config(), linesPath)
			if err != nil {
				return err
			}
			result, err := runner.Render(cmd.Context(), lines)
			if err != nil {
				return err
			}
			printLines(cmd.OutOrStdout(),
				renderField("Source", source),
				renderField("Panel 1", fmt.Sprintf("%s (%s)", result.Paths[0], plural(len(result.Panel1), "line"))),
				renderField("Panel 2", fmt.Sprintf("%s (%s)", result.Paths[1], plural(len(result.Panel2), "line"))),
				renderField("Font", result.FontSource),
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&linesPath, "lines", "", "Reel text file")
	cmd.Flags().BoolVar(&shadow, "shadow", false, "Draw a drop shadow behind panel text")
	return cmd
}

func newComposeCommand(ctx *commandContext) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Build the video from the assets and rendered panels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := ctx.runner(nil)
			if err != nil {
				return err
			}
			at, err := runner.TargetDate(date)
			if err != nil {
				return services.Wrap(services.ErrValidation, "compose", "parse date", date, err)
			}
			result, removed, err := runner.Compose(cmd.Context(), pipeline.ComposeInput{Date: at})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printLines(out,
				renderField("Video", result.OutputPath),
				renderField("Frames", fmt.Sprintf("%d (%s)", result.Frames, formatDuration(result.Duration))),
			)
			for _, seg := range result.Segments {
				printLines(out, renderField(seg.Name, fmt.Sprintf("%d frames", seg.Frames)))
			}
			if len(removed) > 0 {
				printLines(out, renderField("Removed", plural(len(removed), "old video")))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Date drawn on the intro (YYYY-MM-DD); defaults to the configured day offset")
	return cmd
}

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var strict bool

	cmd := &cobra.Command{
		Use:   "verify [PATH]",
		Short: "Check a written reel with ffprobe",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := ctx.runner(nil)
			if err != nil {
				return err
			}
			path := runner.Config().VideoPath()
			if len(args) == 1 {
				if path, err = config.ExpandPath(args[0]); err != nil {
					return fmt.Errorf("resolve video path: %w", err)
				}
			}
			report, err := runner.Verify(cmd.Context(), path)
			if err != nil {
				return err
			}
			if asJSON {
				if err := writeJSON(cmd, report); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				printLines(out,
					renderField("Path", report.Path),
					renderField("Codec", report.Codec),
					renderField("Dimensions", fmt.Sprintf("%dx%d", report.Width, report.Height)),
					renderField("Frame rate", fmt.Sprintf("%.2f fps", report.FPS)),
					renderField("Frames", fmt.Sprintf("%d (expected %d)", report.Frames, runner.ExpectedFrames())),
					renderField("Duration", fmt.Sprintf("%.2fs", report.DurationSeconds)),
					renderField("Size", fmt.Sprintf("%s, %s", formatSize(report.SizeBytes), plural(report.VideoStreams, "video stream"))),
				)
				if report.OK() {
					printLines(out, renderStatusLine("Result", statusOK, "video matches the timeline", colorize))
				}
				for _, problem := range report.Problems {
					printLines(out, renderStatusLine("Result", statusWarn, problem, colorize))
				}
			}
			if strict && !report.OK() {
				return services.Wrap(services.ErrValidation, "verify", "compare", strings.Join(report.Problems, "; "), nil)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when the video does not match")
	return cmd
}
