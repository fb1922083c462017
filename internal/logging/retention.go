package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// RetentionTarget selects files in Dir matching Pattern ("*" when empty).
// Paths in Exclude are never removed.
type RetentionTarget struct {
	Dir     string
	Pattern string
	Exclude []string
}

// CleanupOldLogs removes target files last modified more than retentionDays
// ago and returns how many were removed. retentionDays <= 0 disables pruning.
func CleanupOldLogs(logger *slog.Logger, retentionDays int, targets ...RetentionTarget) int {
	if retentionDays <= 0 {
		return 0
	}
	if logger == nil {
		logger = NewNop()
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	removed := 0
	for _, target := range targets {
		for _, path := range target.expired(cutoff) {
			if err := os.Remove(path); err != nil {
				WarnWithContext(logger, "log retention remove failed; file remains", "log_retention_failed",
					String("path", path),
					Error(err),
					String(FieldErrorHint, "check permissions on log_dir"),
					String(FieldImpact, "old log file remains on disk"),
				)
				continue
			}
			removed++
			logger.Debug("log pruned", String("path", path))
		}
	}
	if removed > 0 {
		logger.Info("pruned old logs",
			String(FieldEventType, "log_pruned"),
			Int("count", removed),
			Int("retention_days", retentionDays),
		)
	}
	return removed
}

func (t RetentionTarget) expired(cutoff time.Time) []string {
	dir := strings.TrimSpace(t.Dir)
	if dir == "" {
		return nil
	}
	pattern := strings.TrimSpace(t.Pattern)
	if pattern == "" {
		pattern = "*"
	}
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil
	}

	skip := make(map[string]struct{}, len(t.Exclude))
	for _, path := range t.Exclude {
		if abs, err := filepath.Abs(strings.TrimSpace(path)); err == nil {
			skip[abs] = struct{}{}
		}
	}

	var out []string
	for _, match := range matches {
		abs, err := filepath.Abs(match)
		if err != nil {
			continue
		}
		if _, ok := skip[abs]; ok {
			continue
		}
		info, err := os.Stat(abs)
		if err != nil || info.IsDir() || !info.ModTime().Before(cutoff) {
			continue
		}
		out = append(out, abs)
	}
	return out
}
