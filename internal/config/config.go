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
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Recording contains the render settings applied to each session.
type Recording struct {
	Width       int      `toml:"width"`
	Height      int      `toml:"height"`
	FPS         float64  `toml:"fps"`
	Codec       string   `toml:"codec"`
	OutputFile  string   `toml:"output_file"`
	PixelFormat string   `toml:"pixel_format"`
	ExtraArgs   []string `toml:"extra_args"`
}

// Audio contains configuration for audio capture and the post-recording remux.
type Audio struct {
	Enabled     bool   `toml:"enabled"`
	CaptureFile string `toml:"capture_file"`
	SampleRate  int    `toml:"sample_rate"`
	Channels    int    `toml:"channels"`
	BitDepth    int    `toml:"bit_depth"`
	Codec       string `toml:"codec"`
	Bitrate     string `toml:"bitrate"`
}

// FFmpeg contains external tool locations.
type FFmpeg struct {
	Binary        string `toml:"binary"`
	FFprobeBinary string `toml:"ffprobe_binary"`
	VerifyOutput  bool   `toml:"verify_output"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for framecap.
//
// Configuration sections by subsystem:
//   - Paths: state (history database, locks) and log directories
//   - Recording: resolution, frame rate, codec and output file
//   - Audio: capture sink format and remux codec
//   - FFmpeg: encoder/muxer and ffprobe binaries
//   - Logging: log format, level, and retention
type Config struct {
	Paths     Paths     `toml:"paths"`
	Recording Recording `toml:"recording"`
	Audio     Audio     `toml:"audio"`
	FFmpeg    FFmpeg    `toml:"ffmpeg"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/framecap/config.toml")
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
		decoder.DisallowUnknownFields()
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

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("framecap.toml")
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

// EnsureDirectories creates the state and log directories plus the parent of
// the configured output file.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if out := strings.TrimSpace(c.Recording.OutputFile); out != "" {
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return fmt.Errorf("create output directory for %q: %w", out, err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable used for encoding and muxing.
func (c *Config) FFmpegBinary() string {
	if c == nil || strings.TrimSpace(c.FFmpeg.Binary) == "" {
		return defaultFFmpegBinary
	}
	return strings.TrimSpace(c.FFmpeg.Binary)
}

// FFprobeBinary returns the ffprobe executable name used for output verification.
func (c *Config) FFprobeBinary() string {
	if c == nil || strings.TrimSpace(c.FFmpeg.FFprobeBinary) == "" {
		return defaultFFprobeBinary
	}
	return strings.TrimSpace(c.FFmpeg.FFprobeBinary)
}

// AudioCapturePath resolves the raw audio capture file for an output file.
// Relative capture names live next to the output so the remux temp file,
// the capture and the video share one directory.
func (c *Config) AudioCapturePath(outputFile string) string {
	name := defaultAudioCaptureFile
	if c != nil && strings.TrimSpace(c.Audio.CaptureFile) != "" {
		name = strings.TrimSpace(c.Audio.CaptureFile)
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(filepath.Dir(outputFile), name)
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

// Encode renders the configuration back to TOML.
func (c *Config) Encode() (string, error) {
	var buf strings.Builder
	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(c); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return buf.String(), nil
}
