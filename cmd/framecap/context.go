package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"framecap/internal/config"
	"framecap/internal/encoder"
	"framecap/internal/remux"
	"framecap/internal/services/ffmpeg"
)

// Replaced in tests so commands run without a real ffmpeg.
var (
	newVideoEncoder = func(cfg *config.Config, logger *slog.Logger) encoder.Encoder {
		return ffmpeg.NewEncoder(ffmpeg.WithBinary(cfg.FFmpegBinary()), ffmpeg.WithLogger(logger))
	}
	newAudioMuxer = func(cfg *config.Config, logger *slog.Logger) remux.Muxer {
		return ffmpeg.NewMuxer(cfg.Audio.Codec, cfg.Audio.Bitrate, ffmpeg.WithBinary(cfg.FFmpegBinary()), ffmpeg.WithLogger(logger))
	}
)

type commandContext struct {
	configFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
