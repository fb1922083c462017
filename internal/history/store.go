package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"framecap/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema changes.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Store manages session history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
	sessionColumns          = "id, output_path, width, height, fps, codec, status, frames_captured, frames_encoded, audio_muxed, error_message, started_at, finished_at"
)

// Open initializes or connects to the history database under the state directory.
func Open(cfg *config.Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("history store requires config")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(filepath.Join(cfg.Paths.StateDir, "history.db"))
}

// OpenPath opens the history database at an explicit location.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Begin records a new session in the recording state.
func (s *Store) Begin(ctx context.Context, session Session) (*Session, error) {
	if strings.TrimSpace(session.ID) == "" {
		return nil, errors.New("session id required")
	}
	if strings.TrimSpace(session.OutputPath) == "" {
		return nil, errors.New("output path required")
	}
	started := session.StartedAt
	if started.IsZero() {
		started = time.Now()
	}
	_, err := s.execWithRetry(ctx,
		`INSERT INTO sessions (
            id, output_path, width, height, fps, codec, status, started_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.OutputPath,
		session.Width,
		session.Height,
		session.FPS,
		nullableString(session.Codec),
		StatusRecording,
		started.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return s.Get(ctx, session.ID)
}

// Finish stamps the terminal outcome of a session.
func (s *Store) Finish(ctx context.Context, id string, outcome Outcome) error {
	status := outcome.Status
	if status == "" {
		status = StatusCompleted
	}
	var message string
	if outcome.Err != nil {
		message = outcome.Err.Error()
	}
	res, err := s.execWithRetry(ctx,
		`UPDATE sessions SET status = ?, frames_captured = ?, frames_encoded = ?,
            audio_muxed = ?, error_message = ?, finished_at = ?
        WHERE id = ?`,
		status,
		outcome.FramesCaptured,
		outcome.FramesEncoded,
		boolToInt(outcome.AudioMuxed),
		nullableString(message),
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("session %s not found", id)
	}
	return nil
}

// Get returns a single session by identifier, or nil when absent.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		"SELECT "+sessionColumns+" FROM sessions WHERE id = ?", id)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

// List returns the most recent sessions first, optionally filtered by status.
// A limit <= 0 returns every row.
func (s *Store) List(ctx context.Context, limit int, statuses ...Status) ([]*Session, error) {
	query := "SELECT " + sessionColumns + " FROM sessions"
	args := make([]any, 0, len(statuses)+1)
	if len(statuses) > 0 {
		query += " WHERE status IN (" + makePlaceholders(len(statuses)) + ")"
		for _, status := range statuses {
			args = append(args, status)
		}
	}
	query += " ORDER BY started_at DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// MarkAbandoned fails sessions left in the recording state, e.g. after a
// crash. Sessions for which live reports true are still being recorded by
// another process and are left alone; a nil live treats every row as stale.
func (s *Store) MarkAbandoned(ctx context.Context, reason string, live func(*Session) bool) (int64, error) {
	open, err := s.List(ctx, 0, StatusRecording)
	if err != nil {
		return 0, fmt.Errorf("mark abandoned sessions: %w", err)
	}
	finishedAt := time.Now().UTC().Format(time.RFC3339Nano)
	var marked int64
	for _, session := range open {
		if live != nil && live(session) {
			continue
		}
		res, err := s.execWithRetry(ctx,
			`UPDATE sessions SET status = ?, error_message = ?, finished_at = ? WHERE id = ? AND status = ?`,
			StatusFailed,
			nullableString(reason),
			finishedAt,
			session.ID,
			StatusRecording,
		)
		if err != nil {
			return marked, fmt.Errorf("mark session %s abandoned: %w", session.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return marked, fmt.Errorf("mark session %s abandoned: %w", session.ID, err)
		}
		marked += n
	}
	return marked, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset history)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
