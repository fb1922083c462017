package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"framecap/internal/config"
)

// ConfigOption adjusts a test config. root is the per-test temp directory
// holding state, logs and the output file.
type ConfigOption func(t testing.TB, root string, cfg *config.Config)

// NewConfig returns a 64x36@30 config whose directories live under a fresh
// t.TempDir.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	root := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(root, "state")
	cfg.Paths.LogDir = filepath.Join(root, "logs")
	cfg.Recording.OutputFile = filepath.Join(root, "videos", "recording.mp4")
	cfg.Recording.Width, cfg.Recording.Height = 64, 36
	cfg.Recording.FPS = 30

	for _, opt := range opts {
		opt(t, root, &cfg)
	}
	return &cfg
}

// WithResolution sets the frame size.
func WithResolution(width, height int) ConfigOption {
	return func(_ testing.TB, _ string, cfg *config.Config) {
		cfg.Recording.Width, cfg.Recording.Height = width, height
	}
}

// WithAudio turns on audio capture.
func WithAudio() ConfigOption {
	return func(_ testing.TB, _ string, cfg *config.Config) {
		cfg.Audio.Enabled = true
	}
}

// WithStubbedBinaries puts shell stubs for names (ffmpeg and ffprobe when
// empty) first on PATH. Each stub prints "<name> version stub" and exits 0.
// It uses t.Setenv, so callers cannot run in parallel.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(t testing.TB, root string, _ *config.Config) {
		t.Helper()
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe"}
		}
		bin := filepath.Join(root, "bin")
		if err := os.MkdirAll(bin, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", bin, err)
		}
		for _, name := range names {
			script := "#!/bin/sh\necho '" + name + " version stub'\n"
			if err := os.WriteFile(filepath.Join(bin, name), []byte(script), 0o755); err != nil {
				t.Fatalf("write stub %s: %v", name, err)
			}
		}
		t.Setenv("PATH", bin+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
}
