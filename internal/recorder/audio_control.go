package recorder

import (
	"context"
	"fmt"

	"framecap/internal/logging"
	"framecap/internal/remux"
	"framecap/internal/services"
)

// StartAudio redirects the audio engine into a capture file next to the
// current (or most recent) output file.
func (c *Controller) StartAudio(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.engine == nil || c.newSink == nil {
		return services.Wrap(services.ErrConfiguration, stageAudio, "start", "audio capture not configured", nil)
	}
	if c.audio != AudioIdle {
		return fmt.Errorf("%w: start audio while %s", ErrInvalidState, c.audio)
	}
	output := c.settings.OutputFile
	if output == "" {
		return fmt.Errorf("%w: start audio before any recording", ErrInvalidState)
	}

	path := c.capturePath(output)
	sink, err := c.newSink(path)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, stageAudio, "open capture", path, err)
	}
	if err := c.engine.SetOutput(sink); err != nil {
		_ = sink.Close()
		return services.Wrap(services.ErrConfiguration, stageAudio, "redirect output", "", err)
	}
	c.audio = AudioCapturing
	c.audioPath = path
	c.audioFor = audioTarget{
		output:    output,
		sessionID: c.sessionID,
		worker:    c.worker,
		width:     c.settings.Width,
		height:    c.settings.Height,
	}

	logger := logging.WithContext(services.WithStage(services.WithSessionID(ctx, c.sessionID), stageAudio), c.logger)
	logger.Info("audio capture started",
		logging.String(logging.FieldEventType, "audio_capture_started"),
		logging.String("capture_path", path),
	)
	return nil
}

// StopAudio restores the default audio output and merges the capture into the
// finished video. It refuses while video is still recording, and otherwise
// waits (bounded by ctx) for the encoder to finalize before merging.
func (c *Controller) StopAudio(ctx context.Context) error {
	c.mu.Lock()
	if c.audio != AudioCapturing {
		state := c.audio
		c.mu.Unlock()
		return fmt.Errorf("%w: stop audio while %s", ErrInvalidState, state)
	}
	target := c.audioFor
	if c.video == VideoRecording && (c.worker == target.worker || c.settings.OutputFile == target.output) {
		c.mu.Unlock()
		return fmt.Errorf("%w: stop video before stopping audio", ErrVideoNotFinalized)
	}
	restoreErr := c.engine.RestoreDefault()
	c.audio = AudioIdle
	videoPath, audioPath := target.output, c.audioPath
	worker := target.worker
	sessionID := target.sessionID
	post := c.post
	c.mu.Unlock()

	ctx = services.WithStage(services.WithSessionID(ctx, sessionID), stageAudio)
	logger := logging.WithContext(ctx, c.logger)

	if restoreErr != nil {
		return services.Wrap(services.ErrMux, stageAudio, "restore output", "capture file may be incomplete", restoreErr)
	}
	if err := waitWorker(ctx, worker); err != nil {
		return err
	}
	if post == nil {
		logger.Info("audio capture stopped; no post-processor configured",
			logging.String("capture_path", audioPath),
		)
		return nil
	}

	result, err := post.PostProcess(ctx, remux.Request{
		VideoPath: videoPath,
		AudioPath: audioPath,
		Width:     target.width,
		Height:    target.height,
	})
	if err != nil {
		logging.ErrorWithContext(logger, "audio merge failed; recording kept without audio", "audio_mux_failed",
			logging.Error(err),
			logging.String("video_path", videoPath),
			logging.String("capture_path", audioPath),
			logging.String(logging.FieldErrorHint, "merge the capture file manually with ffmpeg"),
		)
		return err
	}
	logger.Info("audio capture merged",
		logging.String(logging.FieldEventType, "audio_capture_merged"),
		logging.String("output", result.OutputPath),
	)
	return nil
}
