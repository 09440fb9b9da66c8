package pipeline

import (
	"context"
	"fmt"
	"image"
	"time"

	"panchangreel/internal/almanac"
	"panchangreel/internal/artifacts"
	"panchangreel/internal/imageio"
	"panchangreel/internal/logging"
	"panchangreel/internal/media/ffprobe"
	"panchangreel/internal/overlay"
	"panchangreel/internal/partition"
	"panchangreel/internal/publish"
	"panchangreel/internal/reel"
	"panchangreel/internal/services"
	"panchangreel/internal/textutil"
	"panchangreel/internal/typeface"
)

// FetchResult holds the almanac for a run and the artifacts saved from it.
type FetchResult struct {
	Day       almanac.Day
	Lines     []string
	Artifacts artifacts.Paths
}

// Fetch retrieves the almanac for at, formats it as reel text and records
// both in the data directory.
func (r *Runner) Fetch(ctx context.Context, at time.Time) (FetchResult, error) {
	ctx = services.WithStage(ctx, "fetch")
	logger := logging.WithContext(ctx, r.logger)

	fetcher := r.fetcher
	if fetcher == nil {
		client, err := almanac.New(r.cfg.Almanac, almanac.WithLogger(r.logger))
		if err != nil {
			return FetchResult{}, err
		}
		fetcher = client
	}
	day, err := fetcher.Fetch(ctx, at)
	if err != nil {
		return FetchResult{}, err
	}
	lines := almanac.Lines(day)
	paths, err := artifacts.NewStore(r.cfg.Paths.DataDir).Save(day, lines)
	if err != nil {
		return FetchResult{}, services.Wrap(services.ErrConfiguration, "fetch", "save artifacts", r.cfg.Paths.DataDir, err)
	}
	logger.Info("almanac fetched",
		logging.String("date", day.DateText),
		logging.Int("lines", len(lines)),
		logging.String("text_file", paths.Text),
	)
	return FetchResult{Day: day, Lines: lines, Artifacts: paths}, nil
}

// Division is how reel text splits across the two panels. Lines is the input
// as given; the panels hold the cleaned text that gets drawn.
type Division struct {
	Lines  []string
	Panel1 partition.Panel
	Panel2 partition.Panel
}

// Divide partitions the raw lines, then cleans each panel for rendering.
// Headings are detected before pictographs are stripped, so a line such as
// "Note: 🌙" does not become a heading once the moon is removed.
func (r *Runner) Divide(lines []string) Division {
	p1, p2 := partition.NewClassifier(r.cfg.Partition.HeadingKeywords).Partition(lines)
	strip := r.cfg.Render.StripEmoji
	return Division{
		Lines:  lines,
		Panel1: textutil.CleanLines(p1, strip),
		Panel2: textutil.CleanLines(p2, strip),
	}
}

// RenderResult holds the two rendered panels.
type RenderResult struct {
	Division
	Images     [2]*image.RGBA
	Paths      [2]string
	FontSource string
}

// Render draws both panels over the background and saves them as JPEG at
// their fixed paths.
func (r *Runner) Render(ctx context.Context, lines []string) (RenderResult, error) {
	ctx = services.WithStage(ctx, "render")
	logger := logging.WithContext(ctx, r.logger)

	division := r.Divide(lines)
	background, err := imageio.Load(r.cfg.BackgroundPath())
	if err != nil {
		return RenderResult{}, services.Wrap(services.ErrAssetLoad, "render", "load background", r.cfg.BackgroundPath(), err)
	}
	opts, err := r.overlayOptions()
	if err != nil {
		return RenderResult{}, err
	}
	renderer := overlay.NewRenderer(opts, r.logger)

	result := RenderResult{Division: division, FontSource: renderer.FontSource()}
	p1, p2 := r.cfg.PanelPaths()
	result.Paths = [2]string{p1, p2}
	for i, panel := range []partition.Panel{division.Panel1, division.Panel2} {
		img := renderer.Render(background, panel)
		if err := imageio.SaveJPEG(result.Paths[i], img, r.cfg.Render.JPEGQuality); err != nil {
			return RenderResult{}, services.Wrap(services.ErrWriterOpen, "render", "save panel", result.Paths[i], err)
		}
		result.Images[i] = img
	}
	logger.Info("panels rendered",
		logging.Int("panel1_lines", len(division.Panel1)),
		logging.Int("panel2_lines", len(division.Panel2)),
		logging.String("font_source", result.FontSource),
		logging.String("panel1", p1),
		logging.String("panel2", p2),
	)
	logger.Debug("panel text",
		logging.Lines("panel1_text", division.Panel1),
		logging.Lines("panel2_text", division.Panel2),
	)
	return result, nil
}

func (r *Runner) overlayOptions() (overlay.Options, error) {
	textColor, err := overlay.ParseColor(r.cfg.Render.Color)
	if err != nil {
		return overlay.Options{}, services.Wrap(services.ErrConfiguration, "render", "text color", "", err)
	}
	shadowColor, err := overlay.ParseColor(r.cfg.Render.ShadowColor)
	if err != nil {
		return overlay.Options{}, services.Wrap(services.ErrConfiguration, "render", "shadow color", "", err)
	}
	return overlay.Options{
		FontSize:     r.cfg.Render.FontSize,
		LineSpacing:  r.cfg.Render.LineSpacing,
		Color:        textColor,
		Shadow:       r.cfg.Render.Shadow,
		ShadowColor:  shadowColor,
		ShadowOffset: r.cfg.Render.ShadowOffset,
		Fonts:        r.fonts(),
	}, nil
}

func (r *Runner) fonts() typeface.Chain {
	paths := append([]string{r.cfg.Render.FontPath}, r.cfg.Render.FallbackFontPaths...)
	return typeface.NewChain(paths...)
}

// ComposeInput selects the panels for Compose. Nil images are loaded from the
// fixed panel paths.
type ComposeInput struct {
	Date   time.Time
	Panel1 image.Image
	Panel2 image.Image
}

// Compose clears the video directory and writes the reel.
func (r *Runner) Compose(ctx context.Context, in ComposeInput) (reel.Result, []string, error) {
	removed, err := reel.PrepareOutput(r.cfg.Paths.VideoDir)
	if err != nil {
		return reel.Result{}, removed, services.Wrap(services.ErrWriterOpen, "compose", "prepare output", r.cfg.Paths.VideoDir, err)
	}
	if len(removed) > 0 {
		logging.WithContext(ctx, r.logger).Debug("previous videos removed", logging.Int("count", len(removed)))
	}

	composer, err := r.composer()
	if err != nil {
		return reel.Result{}, removed, err
	}
	p1, p2 := r.cfg.PanelPaths()
	result, err := composer.Compose(ctx, reel.Request{
		IntroPath:  r.cfg.IntroPath(),
		OutroPath:  r.cfg.OutroPath(),
		Panel1:     in.Panel1,
		Panel2:     in.Panel2,
		Panel1Path: p1,
		Panel2Path: p2,
		Date:       in.Date,
		OutputPath: r.cfg.VideoPath(),
	})
	return result, removed, err
}

func (r *Runner) composer() (*reel.Composer, error) {
	textColor, err := overlay.ParseColor(r.cfg.Render.Color)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "compose", "text color", "", err)
	}
	c := reel.NewComposer(r.encoder, r.logger)
	c.Width = r.cfg.Render.Width
	c.Height = r.cfg.Render.Height
	c.FPS = r.cfg.Reel.FPS
	c.Durations = reel.Durations{
		Intro: seconds(r.cfg.Reel.IntroSeconds),
		Panel: seconds(r.cfg.Reel.PanelSeconds),
		Outro: seconds(r.cfg.Reel.OutroSeconds),
	}
	c.DateLayout = r.cfg.Reel.DateLayout
	c.Caption = r.cfg.Reel.Caption
	c.TextColor = textColor
	c.Fonts = r.fonts()
	return c, nil
}

// ExpectedFrames is the frame count a reel built from the current
// configuration should contain.
func (r *Runner) ExpectedFrames() int {
	d := reel.Durations{
		Intro: seconds(r.cfg.Reel.IntroSeconds),
		Panel: seconds(r.cfg.Reel.PanelSeconds),
		Outro: seconds(r.cfg.Reel.OutroSeconds),
	}
	return reel.BuildTimeline(d, nil, nil, nil, nil).TotalFrames(r.cfg.Reel.FPS)
}

// Verify inspects path with ffprobe and compares it to the configured
// timeline.
func (r *Runner) Verify(ctx context.Context, path string) (ffprobe.Report, error) {
	ctx = services.WithStage(ctx, "verify")
	result, err := r.probe(ctx, r.cfg.Reel.FFprobeBinary, path)
	if err != nil {
		return ffprobe.Report{}, services.Wrap(services.ErrExternalTool, "verify", "ffprobe", path, err)
	}
	report := ffprobe.Verify(result, ffprobe.Expectation{
		Frames: r.ExpectedFrames(),
		FPS:    r.cfg.Reel.FPS,
		Width:  r.cfg.Render.Width,
		Height: r.cfg.Render.Height,
	})
	if report.Path == "" {
		report.Path = path
	}
	logger := logging.WithContext(ctx, r.logger)
	if report.OK() {
		logger.Info("video verified",
			logging.Int("frames", report.Frames),
			logging.Float64("fps", report.FPS),
			logging.String("dimensions", fmt.Sprintf("%dx%d", report.Width, report.Height)),
		)
	} else {
		logging.WarnWithContext(logger, "video does not match timeline", "verify_mismatch",
			logging.Any("problems", report.Problems),
			logging.String(logging.FieldErrorHint, "inspect the video with ffprobe and check the encoder settings"),
		)
	}
	return report, nil
}

// Publish uploads the reel and panels when publishing is enabled. It returns
// nil when publishing is off.
func (r *Runner) Publish(ctx context.Context, date time.Time) (*publish.Result, error) {
	if !r.cfg.Publish.Enabled {
		return nil, nil
	}
	store := r.store
	if store == nil {
		s3Store, err := publish.NewS3Store(ctx, r.cfg.Publish)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "publish", "aws config", "", err)
		}
		store = s3Store
	}
	p1, p2 := r.cfg.PanelPaths()
	pub := publish.NewPublisher(store, r.cfg.Publish.Bucket, r.cfg.Publish.Prefix, r.logger)
	result, err := pub.Publish(ctx, date, r.cfg.VideoPath(), p1, p2)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
