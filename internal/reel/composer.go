package reel

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"time"

	"panchangreel/internal/imageio"
	"panchangreel/internal/logging"
	"panchangreel/internal/overlay"
	"panchangreel/internal/services"
	"panchangreel/internal/typeface"
)

const (
	DefaultWidth      = 1080
	DefaultHeight     = 1920
	DefaultFPS        = 30
	DefaultDateLayout = "02 January 2006"
	DefaultCaption    = "panchang"

	stageName       = "compose"
	introTop        = 50
	introCaptionGap = 10
)

// Composer assembles the intro, two panels and outro into a video.
type Composer struct {
	Width      int
	Height     int
	FPS        int
	Durations  Durations
	DateLayout string
	Caption    string
	TextColor  color.Color
	Fonts      typeface.Chain
	Encoder    Encoder
	Logger     *slog.Logger
}

// Request names the inputs for one composition. A panel given as an image is
// used directly; otherwise it is loaded from its path.
type Request struct {
	IntroPath  string
	OutroPath  string
	Panel1     image.Image
	Panel2     image.Image
	Panel1Path string
	Panel2Path string
	Date       time.Time
	OutputPath string
}

// Result summarizes a finished video.
type Result struct {
	OutputPath string
	Frames     int
	Duration   time.Duration
	Segments   []SegmentSummary
}

// SegmentSummary reports how many frames one segment contributed.
type SegmentSummary struct {
	Name     string
	Frames   int
	Duration time.Duration
}

// NewComposer returns a composer with the standard 1080x1920, 30 fps,
// 3s/10s/10s/3s layout.
func NewComposer(encoder Encoder, logger *slog.Logger) *Composer {
	return &Composer{
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		FPS:        DefaultFPS,
		Durations:  DefaultDurations(),
		DateLayout: DefaultDateLayout,
		Caption:    DefaultCaption,
		TextColor:  overlay.DefaultColor,
		Fonts:      typeface.NewChain(),
		Encoder:    encoder,
		Logger:     logger,
	}
}

// Compose runs the full sequence: load assets, resize them, draw the date on
// the intro, build the timeline, then stream every frame to the encoder.
// Nothing is written to OutputPath unless every step succeeds.
func (c *Composer) Compose(ctx context.Context, req Request) (Result, error) {
	ctx = services.WithStage(ctx, stageName)
	logger := logging.WithContext(ctx, logging.NewComponentLogger(c.Logger, "composer"))

	assets, err := c.loadAssets(req)
	if err != nil {
		return Result{}, err
	}

	intro := imageio.Resize(assets.intro, c.Width, c.Height)
	panel1 := imageio.Resize(assets.panel1, c.Width, c.Height)
	panel2 := imageio.Resize(assets.panel2, c.Width, c.Height)
	outro := imageio.Resize(assets.outro, c.Width, c.Height)

	intro = c.RenderIntro(intro, req.Date)

	timeline := BuildTimeline(c.Durations, intro, panel1, panel2, outro)
	total := timeline.TotalFrames(c.FPS)
	logger.Info("timeline built",
		logging.Date("date", req.Date),
		logging.Int("frames", total),
		logging.Duration("duration", timeline.Duration(c.FPS)),
	)

	spec := FrameSpec{Width: c.Width, Height: c.Height, FPS: c.FPS}
	writer, err := c.Encoder.Open(ctx, req.OutputPath, spec)
	if err != nil {
		return Result{}, services.Wrap(services.ErrWriterOpen, stageName, "open writer", req.OutputPath, err)
	}
	logger.Debug("video writer opened", logging.String("output", req.OutputPath), logging.String("spec", spec.String()))

	written, err := WriteTimeline(ctx, writer, timeline, c.FPS)
	if err != nil {
		writer.Abort()
		return Result{}, services.Wrap(services.ErrExternalTool, stageName, "write frames",
			fmt.Sprintf("after %d of %d frames", written, total), err)
	}
	if err := writer.Close(); err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, stageName, "close writer", req.OutputPath, err)
	}

	result := Result{
		OutputPath: req.OutputPath,
		Frames:     written,
		Duration:   timeline.Duration(c.FPS),
	}
	for _, seg := range timeline {
		result.Segments = append(result.Segments, SegmentSummary{Name: seg.Name, Frames: seg.Frames(c.FPS), Duration: seg.Duration})
	}
	logger.Info("video written",
		logging.String("output", req.OutputPath),
		logging.Int("frames", written),
		logging.Duration("duration", result.Duration),
		logging.Event("video_written"),
	)
	return result, nil
}

// WriteTimeline streams round(duration*fps) copies of every segment image to
// w, checking ctx between frames. It returns the number of frames written.
func WriteTimeline(ctx context.Context, w FrameWriter, timeline Timeline, fps int) (int, error) {
	written := 0
	for _, seg := range timeline {
		for range seg.Frames(fps) {
			if err := ctx.Err(); err != nil {
				return written, err
			}
			if err := w.WriteFrame(seg.Image); err != nil {
				return written, fmt.Errorf("segment %s: %w", seg.Name, err)
			}
			written++
		}
	}
	return written, nil
}

// RenderIntro draws the date and caption at the top center of a copy of
// intro. The date uses a font one fifteenth of the image width and starts 50
// pixels from the top; the caption uses one twentieth of the width and sits
// 10 pixels below the date text.
func (c *Composer) RenderIntro(intro image.Image, date time.Time) *image.RGBA {
	dst := imageio.Clone(intro)
	width := dst.Bounds().Dx()
	textColor := c.TextColor
	if textColor == nil {
		textColor = overlay.DefaultColor
	}
	fonts := c.Fonts
	if fonts == nil {
		fonts = typeface.NewChain()
	}

	dateFace, _ := fonts.Resolve(float64(width / 15))
	dateHeight := overlay.DrawCentered(dst, dateFace, date.Format(c.dateLayout()), introTop, textColor)
	if c.Caption != "" {
		captionFace, _ := fonts.Resolve(float64(width / 20))
		overlay.DrawCentered(dst, captionFace, c.Caption, introTop+dateHeight+introCaptionGap, textColor)
	}
	return dst
}

func (c *Composer) dateLayout() string {
	if c.DateLayout == "" {
		return DefaultDateLayout
	}
	return c.DateLayout
}

type assetSet struct {
	intro, panel1, panel2, outro image.Image
}

func (c *Composer) loadAssets(req Request) (assetSet, error) {
	var set assetSet
	load := func(name, path string, provided image.Image) (image.Image, error) {
		if provided != nil {
			return provided, nil
		}
		if path == "" {
			return nil, services.Wrap(services.ErrAssetLoad, stageName, "load "+name, "no image or path provided", nil)
		}
		img, err := imageio.Load(path)
		if err != nil {
			return nil, services.Wrap(services.ErrAssetLoad, stageName, "load "+name, path, err)
		}
		return img, nil
	}
	var err error
	if set.intro, err = load("intro", req.IntroPath, nil); err != nil {
		return set, err
	}
	if set.panel1, err = load("panel1", req.Panel1Path, req.Panel1); err != nil {
		return set, err
	}
	if set.panel2, err = load("panel2", req.Panel2Path, req.Panel2); err != nil {
		return set, err
	}
	if set.outro, err = load("outro", req.OutroPath, nil); err != nil {
		return set, err
	}
	return set, nil
}
