package overlay_test

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"panchangreel/internal/logging"
	"panchangreel/internal/overlay"
	"panchangreel/internal/typeface"
)

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

func background(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 255, 255, 255, 255
	}
	return img
}

// inkBounds returns the smallest rectangle covering every non-white pixel.
func inkBounds(img *image.RGBA) image.Rectangle {
	var r image.Rectangle
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y) != white {
				r = r.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	return r
}

func newRenderer(mutate func(*overlay.Options)) *overlay.Renderer {
	opts := overlay.DefaultOptions()
	if mutate != nil {
		mutate(&opts)
	}
	return overlay.NewRenderer(opts, logging.NewNop())
}

func TestRenderDoesNotModifyBackground(t *testing.T) {
	bg := background(400, 300)
	before := append([]byte(nil), bg.Pix...)
	out := newRenderer(nil).Render(bg, []string{"Tithi: Ekadashi"})
	if !bytes.Equal(bg.Pix, before) {
		t.Fatal("background was modified")
	}
	if out.Bounds() != bg.Bounds() {
		t.Fatalf("unexpected output bounds %v", out.Bounds())
	}
	if inkBounds(out).Empty() {
		t.Fatal("expected text to be drawn")
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	bg := background(400, 300)
	lines := []string{"Header:", "A", "", "B"}
	first := newRenderer(nil).Render(bg, lines)
	second := newRenderer(nil).Render(bg, lines)
	if !bytes.Equal(first.Pix, second.Pix) {
		t.Fatal("expected identical renders")
	}
}

func TestRenderEmptyPanelReturnsCopy(t *testing.T) {
	bg := background(200, 200)
	out := newRenderer(nil).Render(bg, nil)
	if !bytes.Equal(out.Pix, bg.Pix) {
		t.Fatal("expected empty panel to equal background")
	}
	out.Pix[0] = 0
	if bg.Pix[0] != 255 {
		t.Fatal("output aliases background")
	}
}

func TestRenderCentersSingleLine(t *testing.T) {
	bg := background(400, 300)
	r := newRenderer(nil)
	out := r.Render(bg, []string{"Header"})
	ink := inkBounds(out)

	top := (300 - r.LineHeight()) / 2
	if ink.Min.Y < top || ink.Max.Y > top+r.LineHeight() {
		t.Fatalf("ink %v outside line box starting at %d", ink, top)
	}
	center := (ink.Min.X + ink.Max.X) / 2
	if center < 200-4 || center > 200+4 {
		t.Fatalf("expected horizontal center near 200, got %d (%v)", center, ink)
	}
}

func TestRenderBlankLineConsumesHeight(t *testing.T) {
	bg := background(400, 400)
	r := newRenderer(nil)
	lh := r.LineHeight()
	top := (400 - 3*lh) / 2

	out := r.Render(bg, []string{"A", "", "B"})
	middle := out.SubImage(image.Rect(0, top+lh+lh/2, 400, top+2*lh)).(*image.RGBA)
	if !inkBounds(middle).Empty() {
		t.Fatal("expected blank line band to stay empty")
	}
	last := out.SubImage(image.Rect(0, top+2*lh, 400, top+3*lh)).(*image.RGBA)
	if inkBounds(last).Empty() {
		t.Fatal("expected third line to be drawn two line heights down")
	}
}

func TestRenderShadowToggle(t *testing.T) {
	bg := background(400, 300)
	red := color.RGBA{R: 255, A: 255}
	lines := []string{"Sunrise: 05:45 AM"}

	plain := newRenderer(func(o *overlay.Options) { o.Color = red }).Render(bg, lines)
	shadowed := newRenderer(func(o *overlay.Options) { o.Color = red; o.Shadow = true }).Render(bg, lines)

	hasGray := func(img *image.RGBA) bool {
		for i := 0; i < len(img.Pix); i += 4 {
			if img.Pix[i] < 255 {
				return true
			}
		}
		return false
	}
	if hasGray(plain) {
		t.Fatal("expected no shadow pixels when shadow disabled")
	}
	if !hasGray(shadowed) {
		t.Fatal("expected shadow pixels when shadow enabled")
	}
	plainInk, shadowInk := inkBounds(plain), inkBounds(shadowed)
	if shadowInk.Max.X != plainInk.Max.X+2 || shadowInk.Max.Y != plainInk.Max.Y+2 {
		t.Fatalf("expected shadow offset by 2px, plain=%v shadow=%v", plainInk, shadowInk)
	}
}

func TestRenderWithBitmapFallback(t *testing.T) {
	r := newRenderer(func(o *overlay.Options) { o.Fonts = typeface.Chain{typeface.Bitmap()} })
	if r.FontSource() != "bitmap:7x13" {
		t.Fatalf("unexpected font source %q", r.FontSource())
	}
	if inkBounds(r.Render(background(200, 200), []string{"Hello"})).Empty() {
		t.Fatal("expected bitmap text to be drawn")
	}
}

func TestParseColor(t *testing.T) {
	c, err := overlay.ParseColor("#c8c8c8")
	if err != nil {
		t.Fatalf("ParseColor returned error: %v", err)
	}
	if c != overlay.DefaultShadowColor {
		t.Fatalf("unexpected color %v", c)
	}
	if _, err := overlay.ParseColor("gray"); err == nil {
		t.Fatal("expected error for named color")
	}
}
