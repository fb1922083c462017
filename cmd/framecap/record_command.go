package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"framecap/internal/audio"
	"framecap/internal/config"
	"framecap/internal/frameslot"
	"framecap/internal/history"
	"framecap/internal/logging"
	"framecap/internal/media/ffprobe"
	"framecap/internal/preflight"
	"framecap/internal/recorder"
	"framecap/internal/remux"
	"framecap/internal/services"
)

const (
	toneAmplitude = 0.2
	drainTimeout  = 2 * time.Minute
)

type recordOptions struct {
	frames  int
	output  string
	codec   string
	noAudio bool
	toneHz  float64
}

func newRecordCommand(ctx *commandContext) *cobra.Command {
	var opts recordOptions

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Render a test scene and record it to the configured output",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.frames <= 0 {
				return fmt.Errorf("--frames must be positive")
			}
			return runRecord(cmd, ctx, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.frames, "frames", "n", 120, "Number of frames to render")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file (overrides recording.output_file)")
	cmd.Flags().StringVar(&opts.codec, "codec", "", "Video codec (overrides recording.codec)")
	cmd.Flags().BoolVar(&opts.noAudio, "no-audio", false, "Skip audio capture even when enabled in config")
	cmd.Flags().Float64Var(&opts.toneHz, "tone", 440, "Frequency of the generated test tone in Hz")
	return cmd
}

func runRecord(cmd *cobra.Command, ctx *commandContext, opts recordOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	run, err := logging.NewRun(cfg, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer run.Close()
	logger := run.Logger

	if failed := preflight.Failed(preflight.RunAll(signalCtx, cfg)); len(failed) > 0 {
		parts := make([]string, 0, len(failed))
		for _, r := range failed {
			parts = append(parts, fmt.Sprintf("%s: %s", r.Name, r.Detail))
		}
		return fmt.Errorf("preflight failed: %s", strings.Join(parts, "; "))
	}

	settings := renderSettings(cfg)
	if opts.output != "" {
		output, err := config.ExpandPath(opts.output)
		if err != nil {
			return fmt.Errorf("resolve output: %w", err)
		}
		settings.OutputFile = output
	}
	if opts.codec != "" {
		settings.Codec = opts.codec
	}
	withAudio := cfg.Audio.Enabled && !opts.noAudio

	store, err := history.Open(cfg)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()
	lockDir := filepath.Join(cfg.Paths.StateDir, "locks")
	stillRecording := func(s *history.Session) bool {
		return recorder.OutputLocked(lockDir, s.OutputPath)
	}
	if n, err := store.MarkAbandoned(signalCtx, "session did not finish", stillRecording); err != nil {
		logger.Warn("mark abandoned sessions failed", logging.Error(err))
	} else if n > 0 {
		logger.Info("marked abandoned sessions", logging.Int64("count", n))
	}

	controllerOpts := []recorder.Option{
		recorder.WithLogger(logger),
		recorder.WithLockDir(lockDir),
	}
	var router *audio.Router
	if withAudio {
		router = audio.NewRouter(nil)
		format := audioFormat(cfg)
		post := remux.New(newAudioMuxer(cfg, logger), postOptions(cfg, logger)...)
		newSink := func(path string) (audio.Sink, error) {
			return audio.NewWAVSink(path, format)
		}
		controllerOpts = append(controllerOpts, recorder.WithAudio(router, newSink, post, cfg.AudioCapturePath))
	}
	ctrl := recorder.NewController(newVideoEncoder(cfg, logger), controllerOpts...)

	if err := checkCodec(signalCtx, ctrl, settings.Codec, logger); err != nil {
		return err
	}

	if err := ctrl.Start(signalCtx, settings); err != nil {
		return err
	}
	status := ctrl.Status()
	if _, err := store.Begin(signalCtx, history.Session{
		ID:         status.SessionID,
		OutputPath: status.OutputFile,
		Width:      settings.Width,
		Height:     settings.Height,
		FPS:        settings.FPS,
		Codec:      settings.Codec,
	}); err != nil {
		logger.Warn("record session start failed", logging.Error(err))
	}

	var audioErr error
	if withAudio {
		if audioErr = ctrl.StartAudio(signalCtx); audioErr != nil {
			logger.Warn("audio capture unavailable", logging.Error(audioErr))
		}
	}

	renderErr := renderFrames(signalCtx, ctrl, router, cfg, settings, opts, logger)

	if err := ctrl.Stop(); err != nil {
		logger.Warn("stop failed", logging.Error(err))
	}
	drainCtx, drainCancel := context.WithTimeout(context.WithoutCancel(signalCtx), drainTimeout)
	defer drainCancel()
	workerErr := ctrl.Wait(drainCtx)

	audioMuxed := false
	if withAudio && audioErr == nil {
		audioErr = ctrl.StopAudio(drainCtx)
		audioMuxed = audioErr == nil
	}

	final := ctrl.Status()
	sessionErr := errors.Join(renderErr, workerErr, audioErr)
	outcome := history.Outcome{
		Status:         services.FailureStatus(sessionErr),
		FramesCaptured: final.FramesCaptured,
		FramesEncoded:  final.FramesEncoded,
		AudioMuxed:     audioMuxed,
		Err:            sessionErr,
	}
	if err := store.Finish(drainCtx, status.SessionID, outcome); err != nil {
		logger.Warn("record session outcome failed", logging.Error(err))
	}
	if sessionErr != nil {
		logging.ErrorWithContext(logger, "recording session ended with errors", services.Kind(sessionErr),
			logging.String(logging.FieldSessionID, status.SessionID),
			logging.String("status", string(outcome.Status)),
			logging.Error(sessionErr),
		)
	}

	printRecordSummary(cmd.OutOrStdout(), final, outcome, withAudio, shouldColorize(cmd.OutOrStdout()))
	return sessionErr
}

func renderFrames(ctx context.Context, ctrl *recorder.Controller, router *audio.Router, cfg *config.Config, settings recorder.Settings, opts recordOptions, logger *slog.Logger) error {
	var tone *audio.ToneGenerator
	samplesPerFrame := 0
	if router != nil {
		tone = audio.NewToneGenerator(audioFormat(cfg), opts.toneHz, toneAmplitude)
		samplesPerFrame = int(float64(cfg.Audio.SampleRate) / settings.FPS)
	}
	sampler := logging.NewProgressSampler(int64(settings.FPS) * 5)

	dc := ctrl.Surface().Context()
	for i := range opts.frames {
		if err := ctx.Err(); err != nil {
			logger.Info("recording interrupted", logging.Int("frame", i))
			return nil
		}
		if err := drawScene(dc, i, opts.frames); err != nil {
			return fmt.Errorf("draw frame %d: %w", i, err)
		}
		if err := ctrl.CaptureFrame(); err != nil {
			if errors.Is(err, frameslot.ErrClosed) {
				logger.Warn("encoder stopped accepting frames", logging.Int("frame", i))
				return nil
			}
			return err
		}
		if tone != nil && samplesPerFrame > 0 {
			if err := router.Write(tone.Next(samplesPerFrame)); err != nil {
				logger.Warn("audio write failed", logging.Error(err))
			}
		}
		if sampler.ShouldLog(int64(i+1), "recording") {
			st := ctrl.Status()
			logger.Info("recording progress",
				logging.String(logging.FieldEventType, "progress"),
				logging.Int64("frames_captured", st.FramesCaptured),
				logging.Int64("frames_encoded", st.FramesEncoded),
			)
		}
	}
	return nil
}

func checkCodec(ctx context.Context, ctrl *recorder.Controller, codec string, logger *slog.Logger) error {
	codecs, err := ctrl.AvailableCodecs(ctx)
	if err != nil {
		logger.Warn("list codecs failed; skipping codec check", logging.Error(err))
		return nil
	}
	if len(codecs) == 0 {
		return nil
	}
	if _, ok := codecs[codec]; !ok {
		return services.Wrap(services.ErrInvalidSettings, "start", "codec", fmt.Sprintf("encoder %q not available (see `framecap codecs`)", codec), nil)
	}
	return nil
}

func postOptions(cfg *config.Config, logger *slog.Logger) []remux.Option {
	opts := []remux.Option{remux.WithLogger(logger)}
	if cfg.FFmpeg.VerifyOutput {
		binary := cfg.FFprobeBinary()
		opts = append(opts, remux.WithInspector(func(ctx context.Context, path string) (ffprobe.Result, error) {
			return ffprobe.Inspect(ctx, binary, path)
		}))
	}
	return opts
}

func printRecordSummary(out io.Writer, st recorder.Status, outcome history.Outcome, withAudio, colorize bool) {
	fmt.Fprintln(out, renderStatusLine("Session", sessionStatusKind(outcome.Status), stateLabel(string(outcome.Status)), colorize))
	fmt.Fprintln(out, renderStatusLine("Output", statusInfo, st.OutputFile, colorize))
	fmt.Fprintln(out, renderStatusLine("Frames", statusInfo,
		fmt.Sprintf("%d captured, %d encoded", outcome.FramesCaptured, outcome.FramesEncoded), colorize))
	if withAudio {
		kind := statusOK
		if !outcome.AudioMuxed {
			kind = statusWarn
		}
		fmt.Fprintln(out, renderStatusLine("Audio merged", kind, yesNo(outcome.AudioMuxed), colorize))
	}
	fmt.Fprintln(out, renderStatusLine("Encoder", statusInfo, stateLabel(st.Worker.String()), colorize))
	if outcome.Err != nil {
		fmt.Fprintln(out, renderStatusLine("Error", statusError, outcome.Err.Error(), colorize))
	}
}
