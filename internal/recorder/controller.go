package recorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"framecap/internal/audio"
	"framecap/internal/encoder"
	"framecap/internal/frameslot"
	"framecap/internal/logging"
	"framecap/internal/remux"
	"framecap/internal/services"
	"framecap/internal/surface"
)

// PostProcessor merges captured audio into a finished recording.
type PostProcessor interface {
	PostProcess(ctx context.Context, req remux.Request) (remux.Result, error)
}

// SinkFactory opens a capture sink at path.
type SinkFactory func(path string) (audio.Sink, error)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logging.NewComponentLogger(logger, "recorder")
	}
}

// WithAudio enables StartAudio/StopAudio with the given engine, sink factory
// and post-processor. capturePath maps an output file to its raw capture file;
// nil places capture.wav next to the output.
func WithAudio(engine audio.Engine, newSink SinkFactory, post PostProcessor, capturePath func(string) string) Option {
	return func(c *Controller) {
		c.engine = engine
		c.newSink = newSink
		c.post = post
		if capturePath != nil {
			c.capturePath = capturePath
		}
	}
}

// WithLockDir places session lock files in dir instead of next to the output.
func WithLockDir(dir string) Option {
	return func(c *Controller) {
		c.lockDir = dir
	}
}

// Controller drives one recording session at a time.
type Controller struct {
	enc         encoder.Encoder
	engine      audio.Engine
	newSink     SinkFactory
	post        PostProcessor
	capturePath func(string) string
	lockDir     string
	logger      *slog.Logger

	mu        sync.Mutex
	video     VideoState
	audio     AudioState
	settings  Settings
	sessionID string
	surface   *surface.Surface
	slot      *frameslot.Slot
	worker    *Worker
	lock      *flock.Flock
	frame     []byte
	captured  atomic.Int64
	audioPath string
	audioFor  audioTarget
}

// audioTarget is the recording a capture belongs to, fixed at StartAudio.
type audioTarget struct {
	output    string
	sessionID string
	worker    *Worker
	width     int
	height    int
}

// NewController constructs a controller around enc.
func NewController(enc encoder.Encoder, opts ...Option) *Controller {
	c := &Controller{
		enc:         enc,
		logger:      logging.NewNop(),
		capturePath: defaultCapturePath,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func defaultCapturePath(output string) string {
	return filepath.Join(filepath.Dir(output), "capture.wav")
}

// Start validates settings, locks the output, allocates the surface, resets
// the slot, opens the encoder and spawns the worker. Encoder failures are
// returned synchronously and no worker is started.
func (c *Controller) Start(ctx context.Context, settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	settings = settings.clone()
	if abs, err := filepath.Abs(settings.OutputFile); err == nil {
		settings.OutputFile = abs
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.video != VideoIdle {
		return fmt.Errorf("%w: start while %s", ErrInvalidState, c.video)
	}
	if c.enc == nil {
		return services.Wrap(services.ErrConfiguration, stageStart, "init", "no encoder configured", nil)
	}

	if err := os.MkdirAll(filepath.Dir(settings.OutputFile), 0o755); err != nil {
		return services.Wrap(services.ErrInvalidSettings, stageStart, "create output directory", "", err)
	}
	lock, err := c.acquireLock(settings.OutputFile)
	if err != nil {
		return err
	}

	surf, err := surface.New(settings.Width, settings.Height, settings.PixelFormat)
	if err != nil {
		_ = lock.Unlock()
		return services.Wrap(services.ErrInvalidSettings, stageStart, "allocate surface", "", err)
	}
	if err := surf.Begin(); err != nil {
		_ = surf.Close()
		_ = lock.Unlock()
		return services.Wrap(services.ErrInvalidSettings, stageStart, "begin surface", "", err)
	}

	frameSize := settings.FrameSize()
	if c.slot == nil || c.slot.Size() != frameSize {
		c.slot = frameslot.New(frameSize)
	} else {
		c.slot.Reset()
	}

	sessionID := uuid.NewString()
	ctx = services.WithStage(services.WithSessionID(ctx, sessionID), stageStart)
	logger := logging.WithContext(ctx, c.logger)

	session, err := c.enc.Init(ctx, settings.params())
	if err != nil {
		_ = surf.Close()
		_ = lock.Unlock()
		logging.ErrorWithContext(logger, "encoder init failed", "encoder_init_failed",
			logging.String("codec", settings.Codec),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "run `framecap codecs` to list supported encoders"),
		)
		return services.Wrap(services.ErrEncoderInit, stageStart, "init encoder", settings.Codec, err)
	}

	c.settings = settings
	c.sessionID = sessionID
	c.surface = surf
	c.lock = lock
	c.captured.Store(0)
	c.worker = newWorker(session, c.slot, frameSize, logger)
	c.video = VideoRecording

	logger.Info("recording started",
		logging.String(logging.FieldEventType, "recording_started"),
		logging.String("output", settings.OutputFile),
		logging.String("codec", settings.Codec),
		logging.Int("width", settings.Width),
		logging.Int("height", settings.Height),
		logging.Float64("fps", settings.FPS),
	)
	go c.worker.run(c.workerFinished)
	return nil
}

// MustStart is Start for callers that treat a failed start as fatal.
func (c *Controller) MustStart(ctx context.Context, settings Settings) {
	if err := c.Start(ctx, settings); err != nil {
		panic(fmt.Sprintf("recorder start: %v", err))
	}
}

// Surface returns the active render target, or nil when idle.
func (c *Controller) Surface() *surface.Surface {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.surface
}

// CaptureFrame snapshots the surface into the slot, blocking while the worker
// still holds the previous frame. A capture that started before Stop always
// reaches the encoder. It returns frameslot.ErrClosed when the worker has
// stopped accepting frames.
func (c *Controller) CaptureFrame() error {
	c.mu.Lock()
	if c.video != VideoRecording {
		state := c.video
		c.mu.Unlock()
		return fmt.Errorf("%w: capture while %s", ErrInvalidState, state)
	}
	frame, err := c.surface.Capture(c.frame)
	if err != nil {
		c.mu.Unlock()
		return fmt.Errorf("capture surface: %w", err)
	}
	c.frame = frame
	slot := c.slot
	// Admitted before unlocking so a concurrent Stop cannot drop this frame.
	if err := slot.Admit(); err != nil {
		c.mu.Unlock()
		return err
	}
	c.mu.Unlock()

	if err := slot.Deliver(frame); err != nil {
		return err
	}
	c.captured.Add(1)
	return nil
}

// Stop closes the slot and ends the surface. It does not wait for the worker.
func (c *Controller) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.video != VideoRecording {
		return fmt.Errorf("%w: stop while %s", ErrInvalidState, c.video)
	}
	c.video = VideoDraining
	c.slot.Close()
	if err := c.surface.End(); err != nil {
		c.logger.Debug("surface end failed", logging.Error(err))
	}
	c.logger.Info("recording stopped; draining encoder",
		logging.String(logging.FieldSessionID, c.sessionID),
		logging.Int64("frames_captured", c.captured.Load()),
	)
	if c.worker.State() == WorkerDone {
		c.releaseLocked()
	}
	return nil
}

// Wait blocks until the current worker is done or ctx ends, returning the
// worker's terminal error.
func (c *Controller) Wait(ctx context.Context) error {
	c.mu.Lock()
	w := c.worker
	c.mu.Unlock()
	if w == nil {
		return nil
	}
	select {
	case <-w.Done():
		return w.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AvailableCodecs lists the encoder's codecs.
func (c *Controller) AvailableCodecs(ctx context.Context) (map[string]int, error) {
	if c.enc == nil {
		return nil, services.Wrap(services.ErrConfiguration, stageStart, "codecs", "no encoder configured", nil)
	}
	return c.enc.AvailableCodecs(ctx)
}

// Status returns a snapshot of the controller.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := Status{
		SessionID:      c.sessionID,
		OutputFile:     c.settings.OutputFile,
		Video:          c.video,
		Audio:          c.audio,
		Worker:         WorkerDone,
		FramesCaptured: c.captured.Load(),
		AudioPath:      c.audioPath,
	}
	if c.slot != nil {
		st.ProducerBlocked = c.slot.Waiting()
	}
	if c.worker != nil {
		st.Worker = c.worker.State()
		st.FramesEncoded = c.worker.FramesEncoded()
		st.Err = c.worker.Err()
	}
	return st
}

// workerFinished runs on the worker goroutine once the encoder is finalized.
func (c *Controller) workerFinished(w *Worker) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.worker != w || c.video != VideoDraining {
		return
	}
	c.releaseLocked()
}

// releaseLocked returns the controller to idle after the worker is done.
func (c *Controller) releaseLocked() {
	if c.surface != nil {
		if err := c.surface.Close(); err != nil {
			c.logger.Debug("surface close failed", logging.Error(err))
		}
		c.surface = nil
	}
	if c.lock != nil {
		if err := c.lock.Unlock(); err != nil {
			logging.WarnWithContext(c.logger, "failed to release output lock", "lock_release_failed",
				logging.Error(err),
				logging.String("lock_path", c.lock.Path()),
				logging.String(logging.FieldImpact, "next recording to this output may be refused"),
			)
		}
		c.lock = nil
	}
	c.video = VideoIdle
}

func (c *Controller) acquireLock(output string) (*flock.Flock, error) {
	if c.lockDir != "" {
		if err := os.MkdirAll(c.lockDir, 0o755); err != nil {
			return nil, services.Wrap(services.ErrConfiguration, stageStart, "create lock directory", "", err)
		}
	}
	lockPath := outputLockPath(c.lockDir, output)
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, stageStart, "acquire output lock", lockPath, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOutputLocked, output)
	}
	return lock, nil
}

// OutputLocked reports whether some process holds the session lock for
// output, using the same lock placement as a controller built with
// WithLockDir(lockDir). Errors other than a missing lock file count as held.
func OutputLocked(lockDir, output string) bool {
	lockPath := outputLockPath(lockDir, output)
	if _, err := os.Stat(lockPath); errors.Is(err, os.ErrNotExist) {
		return false
	}
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil || !ok {
		return true
	}
	_ = lock.Unlock()
	return false
}

func outputLockPath(lockDir, output string) string {
	if lockDir == "" {
		return output + ".lock"
	}
	return filepath.Join(lockDir, lockName(output))
}

// lockName derives a stable lock file name for an output path.
func lockName(output string) string {
	return "session-" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(output)).String() + ".lock"
}

// waitWorker blocks until w is done or ctx ends.
func waitWorker(ctx context.Context, w *Worker) error {
	if w == nil {
		return nil
	}
	select {
	case <-w.Done():
		return nil
	case <-ctx.Done():
		return errors.Join(ErrVideoNotFinalized, ctx.Err())
	}
}
