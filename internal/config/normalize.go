package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAssets()
	if err := c.normalizeRender(); err != nil {
		return err
	}
	c.normalizeReel()
	c.normalizePartition()
	c.normalizeAlmanac()
	c.normalizeNotifications()
	c.normalizePublish()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	fields := []struct {
		key      string
		value    *string
		fallback string
	}{
		{"paths.assets_dir", &c.Paths.AssetsDir, defaultAssetsDir},
		{"paths.image_dir", &c.Paths.ImageDir, defaultImageDir},
		{"paths.video_dir", &c.Paths.VideoDir, defaultVideoDir},
		{"paths.data_dir", &c.Paths.DataDir, defaultDataDir},
		{"paths.log_dir", &c.Paths.LogDir, defaultLogDir},
	}
	for _, field := range fields {
		if strings.TrimSpace(*field.value) == "" {
			*field.value = field.fallback
		}
		expanded, err := expandPath(strings.TrimSpace(*field.value))
		if err != nil {
			return fmt.Errorf("%s: %w", field.key, err)
		}
		*field.value = expanded
	}
	return nil
}

func (c *Config) normalizeAssets() {
	c.Assets.Background = strings.TrimSpace(c.Assets.Background)
	c.Assets.Intro = strings.TrimSpace(c.Assets.Intro)
	c.Assets.Outro = strings.TrimSpace(c.Assets.Outro)
	if c.Assets.Background == "" {
		c.Assets.Background = defaultBackground
	}
	if c.Assets.Intro == "" {
		c.Assets.Intro = defaultIntro
	}
	if c.Assets.Outro == "" {
		c.Assets.Outro = defaultOutro
	}
}

func (c *Config) normalizeRender() error {
	c.Render.Color = strings.TrimSpace(c.Render.Color)
	if c.Render.Color == "" {
		c.Render.Color = defaultColor
	}
	c.Render.ShadowColor = strings.TrimSpace(c.Render.ShadowColor)
	if c.Render.ShadowColor == "" {
		c.Render.ShadowColor = defaultShadowColor
	}
	if c.Render.LineSpacing < 0 {
		c.Render.LineSpacing = 0
	}
	if c.Render.FontPath != "" {
		expanded, err := expandPath(strings.TrimSpace(c.Render.FontPath))
		if err != nil {
			return fmt.Errorf("render.font_path: %w", err)
		}
		c.Render.FontPath = expanded
	}
	paths := make([]string, 0, len(c.Render.FallbackFontPaths))
	for _, path := range c.Render.FallbackFontPaths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		paths = append(paths, path)
	}
	c.Render.FallbackFontPaths = paths
	return nil
}

func (c *Config) normalizeReel() {
	c.Reel.Caption = strings.TrimSpace(c.Reel.Caption)
	c.Reel.DateLayout = strings.TrimSpace(c.Reel.DateLayout)
	if c.Reel.DateLayout == "" {
		c.Reel.DateLayout = defaultDateLayout
	}
	c.Reel.VideoCodec = strings.TrimSpace(c.Reel.VideoCodec)
	if c.Reel.VideoCodec == "" {
		c.Reel.VideoCodec = defaultVideoCodec
	}
	c.Reel.PixelFormat = strings.TrimSpace(c.Reel.PixelFormat)
	if c.Reel.PixelFormat == "" {
		c.Reel.PixelFormat = defaultPixelFormat
	}
	c.Reel.Preset = strings.ToLower(strings.TrimSpace(c.Reel.Preset))
	c.Reel.FFmpegBinary = strings.TrimSpace(c.Reel.FFmpegBinary)
	if c.Reel.FFmpegBinary == "" {
		c.Reel.FFmpegBinary = defaultFFmpegBinary
	}
	c.Reel.FFprobeBinary = strings.TrimSpace(c.Reel.FFprobeBinary)
	if c.Reel.FFprobeBinary == "" {
		c.Reel.FFprobeBinary = defaultFFprobeBinary
	}
}

func (c *Config) normalizePartition() {
	if len(c.Partition.HeadingKeywords) == 0 {
		c.Partition.HeadingKeywords = append([]string(nil), DefaultHeadingKeywords...)
		return
	}
	keywords := make([]string, 0, len(c.Partition.HeadingKeywords))
	seen := make(map[string]struct{}, len(c.Partition.HeadingKeywords))
	for _, keyword := range c.Partition.HeadingKeywords {
		// A blank keyword would match every line.
		if strings.TrimSpace(keyword) == "" {
			continue
		}
		if _, exists := seen[keyword]; exists {
			continue
		}
		seen[keyword] = struct{}{}
		keywords = append(keywords, keyword)
	}
	c.Partition.HeadingKeywords = keywords
}

func (c *Config) normalizeAlmanac() {
	c.Almanac.ClientID = strings.TrimSpace(c.Almanac.ClientID)
	if c.Almanac.ClientID == "" {
		if value, ok := os.LookupEnv("PROKERALA_CLIENT_ID"); ok {
			c.Almanac.ClientID = strings.TrimSpace(value)
		}
	}
	c.Almanac.ClientSecret = strings.TrimSpace(c.Almanac.ClientSecret)
	if c.Almanac.ClientSecret == "" {
		if value, ok := os.LookupEnv("PROKERALA_CLIENT_SECRET"); ok {
			c.Almanac.ClientSecret = strings.TrimSpace(value)
		}
	}
	c.Almanac.BaseURL = strings.TrimRight(strings.TrimSpace(c.Almanac.BaseURL), "/")
	if c.Almanac.BaseURL == "" {
		c.Almanac.BaseURL = defaultAlmanacBaseURL
	}
	c.Almanac.TokenURL = strings.TrimSpace(c.Almanac.TokenURL)
	if c.Almanac.TokenURL == "" {
		c.Almanac.TokenURL = defaultAlmanacTokenURL
	}
	c.Almanac.Timezone = strings.TrimSpace(c.Almanac.Timezone)
	if c.Almanac.Timezone == "" {
		c.Almanac.Timezone = defaultTimezone
	}
	c.Almanac.Language = strings.ToLower(strings.TrimSpace(c.Almanac.Language))
	if c.Almanac.Language == "" {
		c.Almanac.Language = defaultLanguage
	}
	if c.Almanac.TimeoutSeconds <= 0 {
		c.Almanac.TimeoutSeconds = defaultAlmanacTimeout
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv("NTFY_TOPIC"); ok {
			c.Notifications.NtfyTopic = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizePublish() {
	c.Publish.Bucket = strings.TrimSpace(c.Publish.Bucket)
	c.Publish.Prefix = strings.Trim(strings.TrimSpace(c.Publish.Prefix), "/")
	c.Publish.Region = strings.TrimSpace(c.Publish.Region)
	if c.Publish.Region == "" {
		if value, ok := os.LookupEnv("AWS_REGION"); ok {
			c.Publish.Region = strings.TrimSpace(value)
		}
	}
	c.Publish.Profile = strings.TrimSpace(c.Publish.Profile)
	c.Publish.Endpoint = strings.TrimRight(strings.TrimSpace(c.Publish.Endpoint), "/")
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
