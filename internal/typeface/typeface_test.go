package typeface_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"panchangreel/internal/typeface"
)

type failingStrategy struct{}

func (failingStrategy) Name() string { return "failing" }

func (failingStrategy) Face(float64) (font.Face, error) { return nil, errors.New("nope") }

func TestChainSkipsMissingFiles(t *testing.T) {
	chain := typeface.NewChain(filepath.Join(t.TempDir(), "missing.ttf"), "  ")
	if len(chain) != 3 {
		t.Fatalf("expected file, embedded and bitmap strategies, got %d", len(chain))
	}
	face, source := chain.Resolve(40)
	if face == nil {
		t.Fatal("expected face")
	}
	if source != "embedded:goregular" {
		t.Fatalf("expected embedded font, got %q", source)
	}
	if h := face.Metrics().Height.Ceil(); h < 40 {
		t.Fatalf("expected scalable face near requested size, got height %d", h)
	}
}

func TestChainRejectsCorruptFontFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.ttf")
	if err := os.WriteFile(path, []byte("not a font"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := typeface.File(path).Face(40); err == nil {
		t.Fatal("expected parse error")
	}
	_, source := typeface.NewChain(path).Resolve(40)
	if source != "embedded:goregular" {
		t.Fatalf("expected fallback to embedded font, got %q", source)
	}
}

func TestChainEndsAtBitmap(t *testing.T) {
	chain := typeface.Chain{failingStrategy{}}
	face, source := chain.Resolve(40)
	if face != basicfont.Face7x13 {
		t.Fatalf("expected bitmap face, got %T", face)
	}
	if source != "bitmap:7x13" {
		t.Fatalf("unexpected source %q", source)
	}

	face, _ = typeface.Chain{}.Resolve(12)
	if face == nil {
		t.Fatal("empty chain must still resolve")
	}
}

func TestEmbeddedRejectsNonPositiveSize(t *testing.T) {
	if _, err := typeface.Embedded().Face(0); err == nil {
		t.Fatal("expected error for zero size")
	}
	_, source := typeface.Chain{typeface.Embedded()}.Resolve(0)
	if source != "bitmap:7x13" {
		t.Fatalf("expected bitmap fallback for zero size, got %q", source)
	}
}
