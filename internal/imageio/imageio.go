package imageio

import (
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"panchangreel/internal/fileutil"
)

// Load opens and decodes an image file. The format is detected from the file
// contents: PNG, JPEG, GIF, BMP and WebP are supported.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// Probe reads only the header of an image file and returns its format name
// and dimensions.
func Probe(path string) (string, image.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", image.Point{}, err
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return "", image.Point{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return format, image.Pt(cfg.Width, cfg.Height), nil
}

// Clone returns an RGBA copy of img anchored at the origin.
func Clone(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// Resize scales img to exactly width x height, ignoring aspect ratio. The
// result is always a new image.
func Resize(img image.Image, width, height int) *image.RGBA {
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return Clone(img)
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// SaveJPEG encodes img at the given quality and replaces path atomically.
func SaveJPEG(path string, img image.Image, quality int) error {
	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	})
}
