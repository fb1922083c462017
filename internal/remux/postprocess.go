package remux

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"framecap/internal/logging"
	"framecap/internal/media/ffprobe"
	"framecap/internal/services"
)

const stage = "remux"

// Muxer combines a video file and an audio file into outputPath.
type Muxer interface {
	Mux(ctx context.Context, videoPath, audioPath, outputPath string) error
}

// InspectFunc inspects a media file.
type InspectFunc func(ctx context.Context, path string) (ffprobe.Result, error)

// Request describes one merge. Width and Height, when set, are checked
// against the inspected video stream.
type Request struct {
	VideoPath string
	AudioPath string
	Width     int
	Height    int
}

// Result reports the outcome of a merge.
type Result struct {
	OutputPath   string
	AudioRemoved bool
}

// TempPath returns the temporary merge target for videoPath.
func TempPath(videoPath string) string {
	return filepath.Join(filepath.Dir(videoPath), ".remux-"+filepath.Base(videoPath)+".tmp")
}

// PostProcessor performs the atomic audio merge.
type PostProcessor struct {
	muxer   Muxer
	inspect InspectFunc
	logger  *slog.Logger
}

// Option configures a PostProcessor.
type Option func(*PostProcessor)

// WithInspector enables verification of the video before merging and of the
// merged file before it replaces the video.
func WithInspector(inspect InspectFunc) Option {
	return func(p *PostProcessor) {
		p.inspect = inspect
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *PostProcessor) {
		p.logger = logging.NewComponentLogger(logger, "remux")
	}
}

// New constructs a PostProcessor around muxer.
func New(muxer Muxer, opts ...Option) *PostProcessor {
	p := &PostProcessor{muxer: muxer, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PostProcess merges req.AudioPath into req.VideoPath. On muxer failure the
// temporary file is removed and both inputs are left untouched. On success the
// merged file replaces the video and the raw audio file is deleted.
func (p *PostProcessor) PostProcess(ctx context.Context, req Request) (Result, error) {
	if p == nil || p.muxer == nil {
		return Result{}, services.Wrap(services.ErrConfiguration, stage, "init", "muxer not configured", nil)
	}
	if strings.TrimSpace(req.VideoPath) == "" || strings.TrimSpace(req.AudioPath) == "" {
		return Result{}, services.Wrap(services.ErrInvalidSettings, stage, "validate", "video and audio paths are required", nil)
	}
	if _, err := os.Stat(req.VideoPath); err != nil {
		return Result{}, services.Wrap(services.ErrNotFound, stage, "stat video", req.VideoPath, err)
	}
	if _, err := os.Stat(req.AudioPath); err != nil {
		return Result{}, services.Wrap(services.ErrNotFound, stage, "stat audio", req.AudioPath, err)
	}

	if err := p.verify(ctx, req.VideoPath, ffprobe.Expect{Width: req.Width, Height: req.Height}); err != nil {
		return Result{}, services.Wrap(services.ErrMux, stage, "inspect video", req.VideoPath, err)
	}

	tmpPath := TempPath(req.VideoPath)
	p.logger.Debug("merging captured audio",
		logging.String("video_path", req.VideoPath),
		logging.String("audio_path", req.AudioPath),
		logging.String("tmp_path", tmpPath),
	)

	if err := p.muxer.Mux(ctx, req.VideoPath, req.AudioPath, tmpPath); err != nil {
		_ = os.Remove(tmpPath)
		return Result{}, services.Wrap(services.ErrMux, stage, "mux", "", err)
	}
	if _, err := os.Stat(tmpPath); err != nil {
		return Result{}, services.Wrap(services.ErrMux, stage, "mux", "muxer did not produce output", err)
	}
	if err := p.verify(ctx, tmpPath, ffprobe.Expect{Width: req.Width, Height: req.Height, Audio: true}); err != nil {
		_ = os.Remove(tmpPath)
		return Result{}, services.Wrap(services.ErrMux, stage, "inspect merged output", "", err)
	}

	if err := os.Rename(tmpPath, req.VideoPath); err != nil {
		_ = os.Remove(tmpPath)
		return Result{}, services.Wrap(services.ErrMux, stage, "replace video", "", err)
	}

	result := Result{OutputPath: req.VideoPath}
	if err := os.Remove(req.AudioPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.WarnWithContext(p.logger, "failed to remove captured audio after merge", "audio_cleanup_failed",
			logging.Error(err),
			logging.String("audio_path", req.AudioPath),
			logging.String(logging.FieldErrorHint, "delete the capture file manually"),
			logging.String(logging.FieldImpact, "raw capture file remains next to the recording"),
		)
	} else {
		result.AudioRemoved = true
	}

	p.logger.Info("audio merged into recording",
		logging.String(logging.FieldEventType, "audio_mux_complete"),
		logging.String("output_path", req.VideoPath),
	)
	return result, nil
}

func (p *PostProcessor) verify(ctx context.Context, path string, want ffprobe.Expect) error {
	if p.inspect == nil {
		return nil
	}
	result, err := p.inspect(ctx, path)
	if err != nil {
		return err
	}
	return result.Check(want)
}
