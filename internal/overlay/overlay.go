package overlay

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"panchangreel/internal/imageio"
	"panchangreel/internal/logging"
	"panchangreel/internal/typeface"
)

const (
	DefaultFontSize     = 40
	DefaultLineSpacing  = 10
	DefaultShadowOffset = 2
)

var (
	// DefaultColor is the primary text color.
	DefaultColor = color.RGBA{A: 255}
	// DefaultShadowColor is the light gray drawn behind text in shadow mode.
	DefaultShadowColor = color.RGBA{R: 200, G: 200, B: 200, A: 255}
)

// Options controls how panel text is laid out and drawn.
type Options struct {
	FontSize     int
	LineSpacing  int
	Color        color.Color
	Shadow       bool
	ShadowColor  color.Color
	ShadowOffset int
	Fonts        typeface.Chain
}

// DefaultOptions returns black 40px text without a shadow using the
// standard font chain.
func DefaultOptions() Options {
	return Options{
		FontSize:     DefaultFontSize,
		LineSpacing:  DefaultLineSpacing,
		Color:        DefaultColor,
		ShadowColor:  DefaultShadowColor,
		ShadowOffset: DefaultShadowOffset,
		Fonts:        typeface.NewChain(),
	}
}

// ParseColor converts a #rrggbb string into an opaque RGBA color.
func ParseColor(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parse color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// Renderer draws blocks of centered text over background images.
type Renderer struct {
	opts   Options
	face   font.Face
	source string
}

// NewRenderer resolves the font face once and returns a renderer that can be
// reused for any number of panels.
func NewRenderer(opts Options, logger *slog.Logger) *Renderer {
	defaults := DefaultOptions()
	if opts.FontSize <= 0 {
		opts.FontSize = defaults.FontSize
	}
	if opts.LineSpacing < 0 {
		opts.LineSpacing = defaults.LineSpacing
	}
	if opts.Color == nil {
		opts.Color = defaults.Color
	}
	if opts.ShadowColor == nil {
		opts.ShadowColor = defaults.ShadowColor
	}
	if opts.Fonts == nil {
		opts.Fonts = defaults.Fonts
	}
	face, source := opts.Fonts.Resolve(float64(opts.FontSize))
	logging.NewComponentLogger(logger, "overlay").Debug("font resolved",
		logging.String("font_source", source),
		logging.Int("font_size", opts.FontSize),
	)
	return &Renderer{opts: opts, face: face, source: source}
}

// FontSource names the font strategy the renderer ended up using.
func (r *Renderer) FontSource() string { return r.source }

// LineHeight is the vertical distance between consecutive line tops.
func (r *Renderer) LineHeight() int { return r.opts.FontSize + r.opts.LineSpacing }

// Render draws lines onto a copy of background. The block of lines is
// centered vertically and every line is centered horizontally on its own
// width. Blank lines take up a line of height but draw nothing. The
// background is never modified.
func (r *Renderer) Render(background image.Image, lines []string) *image.RGBA {
	dst := imageio.Clone(background)
	width := dst.Bounds().Dx()
	height := dst.Bounds().Dy()
	lineHeight := r.LineHeight()

	y := (height - len(lines)*lineHeight) / 2
	for _, line := range lines {
		if line != "" {
			x := (width - MeasureWidth(r.face, line)) / 2
			if r.opts.Shadow {
				DrawText(dst, r.face, line, x+r.opts.ShadowOffset, y+r.opts.ShadowOffset, r.opts.ShadowColor)
			}
			DrawText(dst, r.face, line, x, y, r.opts.Color)
		}
		y += lineHeight
	}
	return dst
}

// MeasureWidth returns the advance width of text in pixels.
func MeasureWidth(face font.Face, text string) int {
	return font.MeasureString(face, text).Round()
}

// MeasureHeight returns the height of the inked area of text in pixels.
func MeasureHeight(face font.Face, text string) int {
	bounds, _ := font.BoundString(face, text)
	return (bounds.Max.Y - bounds.Min.Y).Ceil()
}

// DrawText draws text with the top of the font's ascent at y.
func DrawText(dst *image.RGBA, face font.Face, text string, x, y int, c color.Color) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
}

// DrawCentered draws text horizontally centered with its top at y and
// returns the height of the drawn text.
func DrawCentered(dst *image.RGBA, face font.Face, text string, y int, c color.Color) int {
	x := (dst.Bounds().Dx() - MeasureWidth(face, text)) / 2
	DrawText(dst, face, text, x, y, c)
	return MeasureHeight(face, text)
}
