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
	if err := c.normalizeRecording(); err != nil {
		return err
	}
	c.normalizeAudio()
	c.normalizeFFmpeg()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeRecording() error {
	var err error
	c.Recording.OutputFile = strings.TrimSpace(c.Recording.OutputFile)
	if c.Recording.OutputFile != "" {
		if c.Recording.OutputFile, err = expandPath(c.Recording.OutputFile); err != nil {
			return fmt.Errorf("recording.output_file: %w", err)
		}
	}
	c.Recording.Codec = strings.TrimSpace(c.Recording.Codec)
	if c.Recording.Codec == "" {
		c.Recording.Codec = defaultCodec
	}
	c.Recording.PixelFormat = strings.ToLower(strings.TrimSpace(c.Recording.PixelFormat))
	if c.Recording.PixelFormat == "" {
		c.Recording.PixelFormat = defaultPixelFormat
	}
	args := make([]string, 0, len(c.Recording.ExtraArgs))
	for _, arg := range c.Recording.ExtraArgs {
		if trimmed := strings.TrimSpace(arg); trimmed != "" {
			args = append(args, trimmed)
		}
	}
	c.Recording.ExtraArgs = args
	return nil
}

func (c *Config) normalizeAudio() {
	c.Audio.CaptureFile = strings.TrimSpace(c.Audio.CaptureFile)
	if c.Audio.CaptureFile == "" {
		c.Audio.CaptureFile = defaultAudioCaptureFile
	}
	c.Audio.Codec = strings.TrimSpace(c.Audio.Codec)
	if c.Audio.Codec == "" {
		c.Audio.Codec = defaultAudioCodec
	}
	c.Audio.Bitrate = strings.TrimSpace(c.Audio.Bitrate)
}

func (c *Config) normalizeFFmpeg() {
	c.FFmpeg.Binary = strings.TrimSpace(c.FFmpeg.Binary)
	if value, ok := os.LookupEnv("FRAMECAP_FFMPEG"); ok && strings.TrimSpace(value) != "" {
		c.FFmpeg.Binary = strings.TrimSpace(value)
	}
	if c.FFmpeg.Binary == "" {
		c.FFmpeg.Binary = defaultFFmpegBinary
	}
	c.FFmpeg.FFprobeBinary = strings.TrimSpace(c.FFmpeg.FFprobeBinary)
	if value, ok := os.LookupEnv("FRAMECAP_FFPROBE"); ok && strings.TrimSpace(value) != "" {
		c.FFmpeg.FFprobeBinary = strings.TrimSpace(value)
	}
	if c.FFmpeg.FFprobeBinary == "" {
		c.FFmpeg.FFprobeBinary = defaultFFprobeBinary
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
