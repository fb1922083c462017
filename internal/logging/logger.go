package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"framecap/internal/config"
)

// RunLogPattern matches the per-run log files created by NewRun.
const RunLogPattern = "framecap-*.log"

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Format string
	// OutputPaths lists destinations: "stdout", "stderr" or file paths.
	// Empty means stdout.
	OutputPaths []string
	Development bool
}

// New constructs a logger writing opts.Format records to every output.
func New(opts Options) (*slog.Logger, error) {
	levelVar := new(slog.LevelVar)
	levelVar.Set(parseLevel(opts.Level))

	paths := opts.OutputPaths
	if len(paths) == 0 {
		paths = []string{"stdout"}
	}
	writer, err := openWriters(paths)
	if err != nil {
		return nil, err
	}
	handler, err := newHandler(opts.Format, writer, levelVar, opts.Development || levelVar.Level() <= slog.LevelDebug)
	if err != nil {
		return nil, err
	}
	return slog.New(handler), nil
}

// RunLogger is the logger for one CLI invocation. Records go to the console
// in the configured format and, as JSON, to a run log file under log_dir.
type RunLogger struct {
	*slog.Logger
	Path string
	file *os.File
}

// NewRun opens a fresh run log in cfg.Paths.LogDir and prunes run logs older
// than the configured retention. A nil console writes only the file.
func NewRun(cfg *config.Config, console io.Writer) (*RunLogger, error) {
	if cfg == nil {
		return nil, fmt.Errorf("run logger requires config")
	}
	levelVar := new(slog.LevelVar)
	levelVar.Set(parseLevel(cfg.Logging.Level))
	addSource := levelVar.Level() <= slog.LevelDebug

	var consoleHandler slog.Handler
	if console != nil {
		h, err := newHandler(cfg.Logging.Format, console, levelVar, addSource)
		if err != nil {
			return nil, err
		}
		consoleHandler = h
	}

	path := filepath.Join(cfg.Paths.LogDir, runFileName(time.Now()))
	if err := ensureLogDir(path); err != nil {
		return nil, fmt.Errorf("ensure log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
	if err != nil {
		return nil, fmt.Errorf("open run log %s: %w", path, err)
	}

	run := &RunLogger{
		Logger: slog.New(TeeHandler(consoleHandler, newJSONHandler(file, levelVar, addSource))),
		Path:   path,
		file:   file,
	}
	CleanupOldLogs(run.Logger, cfg.Logging.RetentionDays,
		RetentionTarget{Dir: cfg.Paths.LogDir, Pattern: RunLogPattern, Exclude: []string{path}},
	)
	return run, nil
}

// Close closes the run log file.
func (r *RunLogger) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	return r.file.Close()
}

func runFileName(now time.Time) string {
	return "framecap-" + now.UTC().Format("20060102T150405.000Z") + ".log"
}

func newHandler(format string, w io.Writer, lvl *slog.LevelVar, addSource bool) (slog.Handler, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "console":
		return newPrettyHandler(w, lvl, addSource), nil
	case "json":
		return newJSONHandler(w, lvl, addSource), nil
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", format)
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func openWriters(paths []string) (io.Writer, error) {
	seen := map[string]struct{}{}
	var writers []io.Writer
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		if _, dup := seen[path]; dup {
			continue
		}
		seen[path] = struct{}{}

		switch path {
		case "stdout":
			writers = append(writers, os.Stdout)
		case "stderr":
			writers = append(writers, os.Stderr)
		default:
			if err := ensureLogDir(path); err != nil {
				return nil, err
			}
			file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
			if err != nil {
				return nil, fmt.Errorf("open log file %s: %w", path, err)
			}
			writers = append(writers, file)
		}
	}
	switch len(writers) {
	case 0:
		return os.Stdout, nil
	case 1:
		return writers[0], nil
	default:
		return io.MultiWriter(writers...), nil
	}
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
