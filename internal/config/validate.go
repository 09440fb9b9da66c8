package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateReel(); err != nil {
		return err
	}
	if err := c.validatePartition(); err != nil {
		return err
	}
	if err := c.validateAlmanac(); err != nil {
		return err
	}
	if err := c.validatePublish(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRender() error {
	if err := ensurePositiveMap(map[string]int{
		"render.width":     c.Render.Width,
		"render.height":    c.Render.Height,
		"render.font_size": c.Render.FontSize,
	}); err != nil {
		return err
	}
	if c.Render.JPEGQuality < 1 || c.Render.JPEGQuality > 100 {
		return errors.New("render.jpeg_quality must be between 1 and 100")
	}
	if _, err := colorful.Hex(c.Render.Color); err != nil {
		return fmt.Errorf("render.color %q is not a #rrggbb color", c.Render.Color)
	}
	if _, err := colorful.Hex(c.Render.ShadowColor); err != nil {
		return fmt.Errorf("render.shadow_color %q is not a #rrggbb color", c.Render.ShadowColor)
	}
	return nil
}

func (c *Config) validateReel() error {
	if c.Reel.FPS <= 0 {
		return errors.New("reel.fps must be positive")
	}
	for key, value := range map[string]float64{
		"reel.intro_seconds": c.Reel.IntroSeconds,
		"reel.panel_seconds": c.Reel.PanelSeconds,
		"reel.outro_seconds": c.Reel.OutroSeconds,
	} {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	if c.Reel.CRF < 0 || c.Reel.CRF > 51 {
		return errors.New("reel.crf must be between 0 and 51")
	}
	return nil
}

func (c *Config) validatePartition() error {
	if len(c.Partition.HeadingKeywords) == 0 {
		return errors.New("partition.heading_keywords must include at least one keyword")
	}
	return nil
}

func (c *Config) validateAlmanac() error {
	if c.Almanac.Latitude < -90 || c.Almanac.Latitude > 90 {
		return errors.New("almanac.latitude must be between -90 and 90")
	}
	if c.Almanac.Longitude < -180 || c.Almanac.Longitude > 180 {
		return errors.New("almanac.longitude must be between -180 and 180")
	}
	if c.Almanac.DayOffset < 0 {
		return errors.New("almanac.day_offset must be >= 0")
	}
	if (c.Almanac.ClientID == "") != (c.Almanac.ClientSecret == "") {
		return errors.New("almanac.client_id and almanac.client_secret must be set together (or set PROKERALA_CLIENT_ID and PROKERALA_CLIENT_SECRET)")
	}
	return nil
}

func (c *Config) validatePublish() error {
	if !c.Publish.Enabled {
		return nil
	}
	if strings.TrimSpace(c.Publish.Bucket) == "" {
		return errors.New("publish.bucket must be set when publish.enabled is true")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
