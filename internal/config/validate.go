package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRecording(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRecording() error {
	if err := ensurePositiveMap(map[string]int{
		"recording.width":  c.Recording.Width,
		"recording.height": c.Recording.Height,
	}); err != nil {
		return err
	}
	if c.Recording.FPS <= 0 {
		return errors.New("recording.fps must be positive")
	}
	if strings.TrimSpace(c.Recording.OutputFile) == "" {
		return errors.New("recording.output_file must be set")
	}
	switch c.Recording.PixelFormat {
	case "rgba", "bgra":
	default:
		return fmt.Errorf("recording.pixel_format: unsupported value %q (use rgba or bgra)", c.Recording.PixelFormat)
	}
	return nil
}

func (c *Config) validateAudio() error {
	if !c.Audio.Enabled {
		return nil
	}
	if err := ensurePositiveMap(map[string]int{
		"audio.sample_rate": c.Audio.SampleRate,
		"audio.channels":    c.Audio.Channels,
	}); err != nil {
		return err
	}
	switch c.Audio.BitDepth {
	case 8, 16, 24, 32:
	default:
		return fmt.Errorf("audio.bit_depth must be one of 8, 16, 24, 32 (got %d)", c.Audio.BitDepth)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must be >= 0")
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
