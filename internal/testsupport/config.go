package testsupport

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"panchangreel/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.AssetsDir = filepath.Join(base, "assets")
	cfgVal.Paths.ImageDir = filepath.Join(base, "images")
	cfgVal.Paths.VideoDir = filepath.Join(base, "videos")
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Almanac.Timezone = "UTC"
	cfgVal.Notifications.NtfyTopic = ""

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithAssets writes solid background, intro and outro images into the assets
// directory.
func WithAssets() ConfigOption {
	return func(b *configBuilder) {
		WritePNG(b.t, b.cfg.BackgroundPath(), 54, 96, color.White)
		WritePNG(b.t, b.cfg.IntroPath(), 54, 96, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		WritePNG(b.t, b.cfg.OutroPath(), 54, 96, color.RGBA{R: 40, G: 80, B: 160, A: 255})
	}
}

// WithSmallFrames shrinks the output to 108x192 at 2 fps so full renders
// stay fast.
func WithSmallFrames() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Render.Width = 108
		b.cfg.Render.Height = 192
		b.cfg.Render.FontSize = 8
		b.cfg.Render.LineSpacing = 2
		b.cfg.Reel.FPS = 2
	}
}

// WithAlmanacCredentials sets Prokerala credentials on the test config.
func WithAlmanacCredentials(id, secret string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Almanac.ClientID = id
		b.cfg.Almanac.ClientSecret = secret
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, ffmpeg and ffprobe are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\necho \"$(basename \"$0\") version 7.1-stub Copyright (c) the FFmpeg developers\"\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.AssetsDir)
}
