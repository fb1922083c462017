package main

import (
	"framecap/internal/audio"
	"framecap/internal/config"
	"framecap/internal/recorder"
)

// renderSettings converts the [recording] section into recorder settings.
func renderSettings(cfg *config.Config) recorder.Settings {
	rec := cfg.Recording
	return recorder.Settings{
		Width:       rec.Width,
		Height:      rec.Height,
		OutputFile:  rec.OutputFile,
		FPS:         rec.FPS,
		Codec:       rec.Codec,
		PixelFormat: rec.PixelFormat,
		ExtraArgs:   append([]string(nil), rec.ExtraArgs...),
	}
}

func audioFormat(cfg *config.Config) audio.Format {
	return audio.Format{
		SampleRate: cfg.Audio.SampleRate,
		Channels:   cfg.Audio.Channels,
		BitDepth:   cfg.Audio.BitDepth,
	}
}
