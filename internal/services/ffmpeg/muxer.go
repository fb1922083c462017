package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"

	"framecap/internal/logging"
)

// CommandRunner executes an external command to completion.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Muxer combines a finished video file and a captured audio file.
type Muxer struct {
	binary       string
	audioCodec   string
	audioBitrate string
	logger       *slog.Logger
	run          CommandRunner
}

// NewMuxer constructs an ffmpeg muxer. audioCodec defaults to aac.
func NewMuxer(audioCodec, audioBitrate string, opts ...Option) *Muxer {
	o := buildOptions("ffmpeg-muxer", opts)
	if strings.TrimSpace(audioCodec) == "" {
		audioCodec = "aac"
	}
	return &Muxer{
		binary:       o.binary,
		audioCodec:   strings.TrimSpace(audioCodec),
		audioBitrate: strings.TrimSpace(audioBitrate),
		logger:       o.logger,
		run:          defaultCommandRunner,
	}
}

// WithCommandRunner allows injecting a custom command runner for tests.
func (m *Muxer) WithCommandRunner(r CommandRunner) {
	if m != nil && r != nil {
		m.run = r
	}
}

// Mux copies the video stream of videoPath and encodes the audio of audioPath
// into outputPath. The container format follows videoPath's extension so
// outputPath may carry a temporary suffix.
func (m *Muxer) Mux(ctx context.Context, videoPath, audioPath, outputPath string) error {
	if m == nil {
		return errors.New("muxer not initialized")
	}
	if videoPath == "" || audioPath == "" || outputPath == "" {
		return errors.New("video, audio and output paths are required")
	}
	args := m.muxArgs(videoPath, audioPath, outputPath)
	m.logger.Debug("executing ffmpeg mux",
		logging.String("video_path", videoPath),
		logging.String("audio_path", audioPath),
		logging.String("output_path", outputPath),
	)
	if err := m.run(ctx, m.binary, args...); err != nil {
		return fmt.Errorf("ffmpeg mux failed: %w", err)
	}
	return nil
}

func (m *Muxer) muxArgs(videoPath, audioPath, outputPath string) []string {
	args := []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-i", videoPath,
		"-i", audioPath,
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-c:v", "copy",
		"-c:a", m.audioCodec,
	}
	if m.audioBitrate != "" {
		args = append(args, "-b:a", m.audioBitrate)
	}
	args = append(args, "-shortest")
	if format := containerFormat(videoPath); format != "" {
		args = append(args, "-f", format)
	}
	return append(args, outputPath)
}

func containerFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4", ".m4v":
		return "mp4"
	case ".mov":
		return "mov"
	case ".mkv":
		return "matroska"
	case ".webm":
		return "webm"
	case ".avi":
		return "avi"
	default:
		return ""
	}
}

func defaultCommandRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
