package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"framecap/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
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

	wantState := filepath.Join(tempHome, ".local", "share", "framecap")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	wantOutput := filepath.Join(tempHome, "Videos", "framecap", "recording.mp4")
	if cfg.Recording.OutputFile != wantOutput {
		t.Fatalf("unexpected output file: got %q want %q", cfg.Recording.OutputFile, wantOutput)
	}
	if cfg.Recording.Width != 1920 || cfg.Recording.Height != 1080 {
		t.Fatalf("unexpected resolution %dx%d", cfg.Recording.Width, cfg.Recording.Height)
	}
	if cfg.Recording.Codec != "libx264" {
		t.Fatalf("unexpected codec %q", cfg.Recording.Codec)
	}
	if cfg.Audio.Enabled {
		t.Fatal("expected audio disabled by default")
	}
	if cfg.FFmpegBinary() != "ffmpeg" || cfg.FFprobeBinary() != "ffprobe" {
		t.Fatalf("unexpected binaries %q %q", cfg.FFmpegBinary(), cfg.FFprobeBinary())
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("unexpected log format %q", cfg.Logging.Format)
	}
}

func TestLoadCustomConfigOverrides(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := `
[paths]
state_dir = "~/state"

[recording]
width = 1280
height = 720
fps = 30
codec = " libx265 "
output_file = "~/clips/demo.mp4"
pixel_format = "BGRA"
extra_args = ["-preset", " ", "veryfast"]

[audio]
enabled = true
capture_file = "mix.wav"

[logging]
format = "JSON"
level = "DEBUG"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected config at %q, got %q (exists=%v)", configPath, resolved, exists)
	}
	if cfg.Paths.StateDir != filepath.Join(tempHome, "state") {
		t.Fatalf("unexpected state dir %q", cfg.Paths.StateDir)
	}
	if cfg.Recording.Width != 1280 || cfg.Recording.Height != 720 || cfg.Recording.FPS != 30 {
		t.Fatalf("unexpected recording settings %+v", cfg.Recording)
	}
	if cfg.Recording.Codec != "libx265" {
		t.Fatalf("expected trimmed codec, got %q", cfg.Recording.Codec)
	}
	if cfg.Recording.PixelFormat != "bgra" {
		t.Fatalf("expected lowercased pixel format, got %q", cfg.Recording.PixelFormat)
	}
	if strings.Join(cfg.Recording.ExtraArgs, " ") != "-preset veryfast" {
		t.Fatalf("unexpected extra args %v", cfg.Recording.ExtraArgs)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging %+v", cfg.Logging)
	}
	wantCapture := filepath.Join(tempHome, "clips", "mix.wav")
	if got := cfg.AudioCapturePath(cfg.Recording.OutputFile); got != wantCapture {
		t.Fatalf("unexpected capture path: got %q want %q", got, wantCapture)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[recording]\nbogus = 1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected unknown field to be rejected")
	}
}

func TestEnvOverridesFFmpegBinary(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	t.Setenv("FRAMECAP_FFMPEG", "/opt/ffmpeg/bin/ffmpeg")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.FFmpegBinary() != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("expected env override, got %q", cfg.FFmpegBinary())
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"zero width", func(c *config.Config) { c.Recording.Width = 0 }, "recording.width"},
		{"negative height", func(c *config.Config) { c.Recording.Height = -1 }, "recording.height"},
		{"zero fps", func(c *config.Config) { c.Recording.FPS = 0 }, "recording.fps"},
		{"missing output", func(c *config.Config) { c.Recording.OutputFile = "" }, "recording.output_file"},
		{"pixel format", func(c *config.Config) { c.Recording.PixelFormat = "yuv420p" }, "recording.pixel_format"},
		{"bit depth", func(c *config.Config) {
			c.Audio.Enabled = true
			c.Audio.BitDepth = 12
		}, "audio.bit_depth"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Recording.OutputFile = "/tmp/out.mp4"
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestCreateSampleProducesLoadableConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		t.Fatalf("sample config is not valid TOML: %v", err)
	}
	for _, section := range []string{"paths", "recording", "audio", "ffmpeg", "logging"} {
		if _, ok := raw[section]; !ok {
			t.Fatalf("sample config missing [%s] section", section)
		}
	}

	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
}

func TestEnsureDirectoriesCreatesOutputParent(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Recording.OutputFile = filepath.Join(base, "videos", "out.mp4")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir, filepath.Join(base, "videos")} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q: %v", dir, err)
		}
	}
}
