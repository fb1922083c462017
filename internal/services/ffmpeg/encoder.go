package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"sync"

	"framecap/internal/encoder"
	"framecap/internal/logging"
)

var commandContext = exec.CommandContext

// stderrLimit bounds how much ffmpeg diagnostic output is kept per session.
const stderrLimit = 8 * 1024

// Option configures the ffmpeg adapters.
type Option func(*options)

type options struct {
	binary string
	logger *slog.Logger
}

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(o *options) {
		if strings.TrimSpace(binary) != "" {
			o.binary = strings.TrimSpace(binary)
		}
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func buildOptions(component string, opts []Option) options {
	o := options{binary: "ffmpeg"}
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = logging.NewComponentLogger(o.logger, component)
	return o
}

// Encoder implements encoder.Encoder by piping raw frames into ffmpeg.
type Encoder struct {
	binary string
	logger *slog.Logger
}

// NewEncoder constructs an ffmpeg-backed encoder.
func NewEncoder(opts ...Option) *Encoder {
	o := buildOptions("ffmpeg-encoder", opts)
	return &Encoder{binary: o.binary, logger: o.logger}
}

// Init starts an ffmpeg process that reads raw frames from stdin and writes
// params.OutputPath. The process outlives ctx cancellation; it ends when the
// session is finished.
func (e *Encoder) Init(ctx context.Context, params encoder.Params) (encoder.Session, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	args := encodeArgs(params)
	cmd := commandContext(context.WithoutCancel(ctx), e.binary, args...) //nolint:gosec
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	stderr := &tailBuffer{limit: stderrLimit}
	cmd.Stderr = stderr

	e.logger.Debug("starting ffmpeg encoder",
		logging.String("binary", e.binary),
		logging.String("codec", params.Codec),
		logging.String("output", params.OutputPath),
		logging.Int("width", params.Width),
		logging.Int("height", params.Height),
		logging.Float64("fps", params.FPS),
	)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", e.binary, err)
	}

	return &session{
		cmd:       cmd,
		stdin:     stdin,
		stderr:    stderr,
		frameSize: params.FrameSize(),
	}, nil
}

func encodeArgs(params encoder.Params) []string {
	pixFmt := params.PixelFormat
	if pixFmt == "" {
		pixFmt = "rgba"
	}
	args := []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-f", "rawvideo",
		"-pix_fmt", pixFmt,
		"-s", fmt.Sprintf("%dx%d", params.Width, params.Height),
		"-r", strconv.FormatFloat(params.FPS, 'f', -1, 64),
		"-i", "-",
		"-an",
		"-c:v", params.Codec,
	}
	if !hasArg(params.ExtraArgs, "-pix_fmt") {
		args = append(args, "-pix_fmt", "yuv420p")
	}
	args = append(args, params.ExtraArgs...)
	return append(args, params.OutputPath)
}

func hasArg(args []string, name string) bool {
	for _, arg := range args {
		if arg == name {
			return true
		}
	}
	return false
}

type session struct {
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stderr    *tailBuffer
	frameSize int

	finishOnce sync.Once
	finishErr  error
}

func (s *session) WriteFrame(frame []byte) error {
	if len(frame) != s.frameSize {
		return fmt.Errorf("frame is %d bytes, want %d", len(frame), s.frameSize)
	}
	if _, err := s.stdin.Write(frame); err != nil {
		return s.withStderr(fmt.Errorf("write frame: %w", err))
	}
	return nil
}

func (s *session) Finish() error {
	s.finishOnce.Do(func() {
		closeErr := s.stdin.Close()
		if err := s.cmd.Wait(); err != nil {
			s.finishErr = s.withStderr(fmt.Errorf("ffmpeg encode failed: %w", err))
			return
		}
		if closeErr != nil && !errors.Is(closeErr, io.ErrClosedPipe) {
			s.finishErr = fmt.Errorf("close encoder input: %w", closeErr)
		}
	})
	return s.finishErr
}

func (s *session) withStderr(err error) error {
	if tail := strings.TrimSpace(s.stderr.String()); tail != "" {
		return fmt.Errorf("%w: %s", err, tail)
	}
	return err
}

// AvailableCodecs lists the video encoders reported by `ffmpeg -encoders`.
// Identifiers are indexes into the name-sorted list.
func (e *Encoder) AvailableCodecs(ctx context.Context) (map[string]int, error) {
	cmd := commandContext(ctx, e.binary, "-hide_banner", "-encoders") //nolint:gosec
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("list encoders: %w", err)
	}
	names := parseVideoEncoders(output)
	if len(names) == 0 {
		return nil, errors.New("ffmpeg reported no video encoders")
	}
	codecs := make(map[string]int, len(names))
	for i, name := range names {
		codecs[name] = i
	}
	return codecs, nil
}

// parseVideoEncoders extracts encoder names whose capability flags start with
// V from `ffmpeg -encoders` output.
func parseVideoEncoders(output []byte) []string {
	var names []string
	seen := make(map[string]struct{})
	inList := false
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !inList {
			if strings.HasPrefix(line, "------") {
				inList = true
			}
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		flags, name := fields[0], fields[1]
		if len(flags) != 6 || flags[0] != 'V' || name == "=" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	mu    sync.Mutex
	limit int
	buf   []byte
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	if over := len(b.buf) - b.limit; over > 0 {
		b.buf = append(b.buf[:0], b.buf[over:]...)
	}
	return len(p), nil
}

func (b *tailBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.buf)
}

var _ encoder.Encoder = (*Encoder)(nil)
