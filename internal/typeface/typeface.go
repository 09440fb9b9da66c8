package typeface

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Strategy produces a font face at a requested pixel size.
type Strategy interface {
	Name() string
	Face(size float64) (font.Face, error)
}

// Chain tries strategies in order and falls back to the built-in bitmap face
// when every strategy fails. Resolving a chain never fails.
type Chain []Strategy

// NewChain builds the standard chain: each scalable font file in paths, then
// the embedded Go Regular font, then the bitmap face.
func NewChain(paths ...string) Chain {
	chain := make(Chain, 0, len(paths)+2)
	for _, path := range paths {
		if path = strings.TrimSpace(path); path != "" {
			chain = append(chain, File(path))
		}
	}
	return append(chain, Embedded(), Bitmap())
}

// Resolve returns the first face any strategy can produce and the name of the
// strategy that produced it.
func (c Chain) Resolve(size float64) (font.Face, string) {
	for _, strategy := range c {
		face, err := strategy.Face(size)
		if err == nil && face != nil {
			return face, strategy.Name()
		}
	}
	fallback := Bitmap()
	face, _ := fallback.Face(size)
	return face, fallback.Name()
}

var (
	parsedMu sync.Mutex
	parsed   = map[string]*opentype.Font{}
)

func parseCached(key string, load func() ([]byte, error)) (*opentype.Font, error) {
	parsedMu.Lock()
	defer parsedMu.Unlock()
	if f, ok := parsed[key]; ok {
		return f, nil
	}
	data, err := load()
	if err != nil {
		return nil, err
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", key, err)
	}
	parsed[key] = f
	return f, nil
}

func newFace(f *opentype.Font, size float64) (font.Face, error) {
	if size <= 0 {
		return nil, errors.New("font size must be positive")
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

type fileStrategy struct {
	path string
}

// File loads a TrueType or OpenType font from disk.
func File(path string) Strategy { return fileStrategy{path: path} }

func (s fileStrategy) Name() string { return "file:" + s.path }

func (s fileStrategy) Face(size float64) (font.Face, error) {
	f, err := parseCached(s.path, func() ([]byte, error) { return os.ReadFile(s.path) })
	if err != nil {
		return nil, err
	}
	return newFace(f, size)
}

type embeddedStrategy struct{}

// Embedded uses the Go Regular font compiled into the binary.
func Embedded() Strategy { return embeddedStrategy{} }

func (embeddedStrategy) Name() string { return "embedded:goregular" }

func (embeddedStrategy) Face(size float64) (font.Face, error) {
	f, err := parseCached("embedded:goregular", func() ([]byte, error) { return goregular.TTF, nil })
	if err != nil {
		return nil, err
	}
	return newFace(f, size)
}

type bitmapStrategy struct{}

// Bitmap is the terminal fallback. It ignores the requested size.
func Bitmap() Strategy { return bitmapStrategy{} }

func (bitmapStrategy) Name() string { return "bitmap:7x13" }

func (bitmapStrategy) Face(float64) (font.Face, error) { return basicfont.Face7x13, nil }
