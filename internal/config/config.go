package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	AssetsDir string `toml:"assets_dir"`
	ImageDir  string `toml:"image_dir"`
	VideoDir  string `toml:"video_dir"`
	DataDir   string `toml:"data_dir"`
	LogDir    string `toml:"log_dir"`
}

// Assets names the static images every reel is built from. Relative names
// resolve inside Paths.AssetsDir.
type Assets struct {
	Background string `toml:"background"`
	Intro      string `toml:"intro"`
	Outro      string `toml:"outro"`
}

// Render contains configuration for drawing panel text.
type Render struct {
	Width             int      `toml:"width"`
	Height            int      `toml:"height"`
	FontSize          int      `toml:"font_size"`
	LineSpacing       int      `toml:"line_spacing"`
	Color             string   `toml:"color"`
	Shadow            bool     `toml:"shadow"`
	ShadowColor       string   `toml:"shadow_color"`
	ShadowOffset      int      `toml:"shadow_offset"`
	FontPath          string   `toml:"font_path"`
	FallbackFontPaths []string `toml:"fallback_font_paths"`
	JPEGQuality       int      `toml:"jpeg_quality"`
	StripEmoji        bool     `toml:"strip_emoji"`
}

// Reel contains configuration for the video timeline and encoder.
type Reel struct {
	FPS           int     `toml:"fps"`
	IntroSeconds  float64 `toml:"intro_seconds"`
	PanelSeconds  float64 `toml:"panel_seconds"`
	OutroSeconds  float64 `toml:"outro_seconds"`
	Caption       string  `toml:"caption"`
	DateLayout    string  `toml:"date_layout"`
	VideoCodec    string  `toml:"video_codec"`
	PixelFormat   string  `toml:"pixel_format"`
	Preset        string  `toml:"preset"`
	CRF           int     `toml:"crf"`
	FFmpegBinary  string  `toml:"ffmpeg_binary"`
	FFprobeBinary string  `toml:"ffprobe_binary"`
	Verify        bool    `toml:"verify"`
}

// Partition contains configuration for splitting reel text into panels.
type Partition struct {
	HeadingKeywords []string `toml:"heading_keywords"`
}

// Almanac contains configuration for the Prokerala astrology API.
type Almanac struct {
	ClientID       string  `toml:"client_id"`
	ClientSecret   string  `toml:"client_secret"`
	BaseURL        string  `toml:"base_url"`
	TokenURL       string  `toml:"token_url"`
	Latitude       float64 `toml:"latitude"`
	Longitude      float64 `toml:"longitude"`
	Timezone       string  `toml:"timezone"`
	Ayanamsa       int     `toml:"ayanamsa"`
	Language       string  `toml:"language"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	DayOffset      int     `toml:"day_offset"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	Completed      bool   `toml:"completed"`
	Errors         bool   `toml:"errors"`
}

// Publish contains configuration for uploading finished reels to S3.
type Publish struct {
	Enabled      bool   `toml:"enabled"`
	Bucket       string `toml:"bucket"`
	Prefix       string `toml:"prefix"`
	Region       string `toml:"region"`
	Profile      string `toml:"profile"`
	Endpoint     string `toml:"endpoint"`
	UsePathStyle bool   `toml:"use_path_style"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for panchangreel.
//
// Configuration sections by subsystem:
//   - Paths: asset, output, data and log directories
//   - Assets: background, intro and outro images
//   - Render: panel text layout, colors and fonts
//   - Reel: timeline durations and encoder settings
//   - Partition: heading keywords used to group lines
//   - Almanac: Prokerala API credentials and location
//   - Notifications: ntfy push notification settings
//   - Publish: optional S3 upload of finished reels
//   - Logging: log format, level, and retention
type Config struct {
	Paths         Paths         `toml:"paths"`
	Assets        Assets        `toml:"assets"`
	Render        Render        `toml:"render"`
	Reel          Reel          `toml:"reel"`
	Partition     Partition     `toml:"partition"`
	Almanac       Almanac       `toml:"almanac"`
	Notifications Notifications `toml:"notifications"`
	Publish       Publish       `toml:"publish"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("panchangreel.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the output, data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.ImageDir, c.Paths.VideoDir, c.Paths.DataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// AssetPath resolves an asset name against the assets directory.
func (c *Config) AssetPath(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Paths.AssetsDir, name)
}

// BackgroundPath returns the resolved background image path.
func (c *Config) BackgroundPath() string { return c.AssetPath(c.Assets.Background) }

// IntroPath returns the resolved intro image path.
func (c *Config) IntroPath() string { return c.AssetPath(c.Assets.Intro) }

// OutroPath returns the resolved outro image path.
func (c *Config) OutroPath() string { return c.AssetPath(c.Assets.Outro) }

// VideoPath returns the fixed location of the rendered reel.
func (c *Config) VideoPath() string {
	return filepath.Join(c.Paths.VideoDir, VideoFileName)
}

// PanelPaths returns the fixed locations of the two rendered panels.
func (c *Config) PanelPaths() (string, string) {
	return filepath.Join(c.Paths.ImageDir, Panel1FileName), filepath.Join(c.Paths.ImageDir, Panel2FileName)
}

// LockPath returns the advisory lock file guarding the output directories.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.VideoDir, ".panchangreel.lock")
}

// HasAlmanacCredentials reports whether both Prokerala credentials are set.
func (c *Config) HasAlmanacCredentials() bool {
	return c.Almanac.ClientID != "" && c.Almanac.ClientSecret != ""
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
