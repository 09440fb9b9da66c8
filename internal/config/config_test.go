package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"panchangreel/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("PROKERALA_CLIENT_ID", "")
	t.Setenv("PROKERALA_CLIENT_SECRET", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantVideo := filepath.Join(tempHome, ".local", "share", "panchangreel", "videos")
	if cfg.Paths.VideoDir != wantVideo {
		t.Fatalf("unexpected video dir: got %q want %q", cfg.Paths.VideoDir, wantVideo)
	}
	if got := cfg.VideoPath(); got != filepath.Join(wantVideo, "reel_video.mp4") {
		t.Fatalf("unexpected video path: %q", got)
	}
	if got := cfg.BackgroundPath(); got != filepath.Join(cfg.Paths.AssetsDir, "background.jpg") {
		t.Fatalf("unexpected background path: %q", got)
	}
	if cfg.Render.FontSize != 40 || cfg.Render.Color != "#000000" || cfg.Render.Shadow {
		t.Fatalf("unexpected render defaults: %+v", cfg.Render)
	}
	if cfg.Reel.FPS != 30 || cfg.Reel.IntroSeconds != 3 || cfg.Reel.PanelSeconds != 10 || cfg.Reel.OutroSeconds != 3 {
		t.Fatalf("unexpected reel defaults: %+v", cfg.Reel)
	}
	if len(cfg.Partition.HeadingKeywords) != len(config.DefaultHeadingKeywords) {
		t.Fatalf("expected default heading keywords, got %v", cfg.Partition.HeadingKeywords)
	}
	if cfg.HasAlmanacCredentials() {
		t.Fatal("expected no almanac credentials by default")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.ImageDir, cfg.Paths.VideoDir, cfg.Paths.DataDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "panchangreel.toml")

	type payload struct {
		Paths struct {
			AssetsDir string `toml:"assets_dir"`
		} `toml:"paths"`
		Assets struct {
			Intro string `toml:"intro"`
		} `toml:"assets"`
		Render struct {
			Shadow   bool `toml:"shadow"`
			FontSize int  `toml:"font_size"`
		} `toml:"render"`
		Partition struct {
			HeadingKeywords []string `toml:"heading_keywords"`
		} `toml:"partition"`
	}
	custom := payload{}
	custom.Paths.AssetsDir = filepath.Join(tempDir, "assets")
	custom.Assets.Intro = "/srv/intro.png"
	custom.Render.Shadow = true
	custom.Render.FontSize = 52
	custom.Partition.HeadingKeywords = []string{"Header:", "", "Header:", "Other"}
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if !cfg.Render.Shadow || cfg.Render.FontSize != 52 {
		t.Fatalf("expected render overrides, got %+v", cfg.Render)
	}
	if cfg.IntroPath() != "/srv/intro.png" {
		t.Fatalf("expected absolute intro path to be kept, got %q", cfg.IntroPath())
	}
	if cfg.OutroPath() != filepath.Join(tempDir, "assets", "outro.jpg") {
		t.Fatalf("unexpected outro path: %q", cfg.OutroPath())
	}
	want := []string{"Header:", "Other"}
	if strings.Join(cfg.Partition.HeadingKeywords, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected keywords: %v", cfg.Partition.HeadingKeywords)
	}
}

func TestAlmanacCredentialsFromEnv(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "missing.toml")
	t.Setenv("PROKERALA_CLIENT_ID", " env-id ")
	t.Setenv("PROKERALA_CLIENT_SECRET", "env-secret")

	cfg, _, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected missing config file")
	}
	if cfg.Almanac.ClientID != "env-id" || cfg.Almanac.ClientSecret != "env-secret" {
		t.Fatalf("expected credentials from env, got %q/%q", cfg.Almanac.ClientID, cfg.Almanac.ClientSecret)
	}
	if !cfg.HasAlmanacCredentials() {
		t.Fatal("expected HasAlmanacCredentials to be true")
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "PROKERALA_CLIENT_ID") {
		t.Fatalf("sample config missing credential hint: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if !strings.Contains(cfg.Paths.VideoDir, "panchangreel") {
		t.Fatalf("expected video dir to contain panchangreel, got %q", cfg.Paths.VideoDir)
	}
	if cfg.Reel.FPS != 30 {
		t.Fatalf("expected sample fps 30, got %d", cfg.Reel.FPS)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"zero fps", func(c *config.Config) { c.Reel.FPS = 0 }},
		{"zero panel seconds", func(c *config.Config) { c.Reel.PanelSeconds = 0 }},
		{"bad color", func(c *config.Config) { c.Render.Color = "black" }},
		{"bad shadow color", func(c *config.Config) { c.Render.ShadowColor = "#12" }},
		{"jpeg quality", func(c *config.Config) { c.Render.JPEGQuality = 101 }},
		{"font size", func(c *config.Config) { c.Render.FontSize = 0 }},
		{"no keywords", func(c *config.Config) { c.Partition.HeadingKeywords = nil }},
		{"half credentials", func(c *config.Config) { c.Almanac.ClientID = "id" }},
		{"latitude", func(c *config.Config) { c.Almanac.Latitude = 91 }},
		{"publish without bucket", func(c *config.Config) { c.Publish.Enabled = true }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}
