package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestTeeHandlerCollapses(t *testing.T) {
	if _, ok := TeeHandler(nil, nil).(NoopHandler); !ok {
		t.Fatal("expected NoopHandler for all nil handlers")
	}
	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, nil)
	if h := TeeHandler(nil, inner); h != inner {
		t.Fatal("expected single non-nil handler to be returned unwrapped")
	}
}

func TestFanoutHandlerRespectsPerHandlerLevels(t *testing.T) {
	var infoBuf, warnBuf bytes.Buffer
	h := TeeHandler(
		slog.NewTextHandler(&infoBuf, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(&warnBuf, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)
	if h.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected debug to be disabled")
	}

	logger := slog.New(h).With(String(FieldSessionID, "abc"))
	logger.Info("frame encoded")
	logger.Warn("encoder slow")

	if !strings.Contains(infoBuf.String(), "frame encoded") || !strings.Contains(infoBuf.String(), "encoder slow") {
		t.Fatalf("info handler missing lines: %q", infoBuf.String())
	}
	if strings.Contains(warnBuf.String(), "frame encoded") {
		t.Fatalf("warn handler received info line: %q", warnBuf.String())
	}
	if !strings.Contains(warnBuf.String(), "session_id=abc") {
		t.Fatalf("expected attrs propagated to warn handler: %q", warnBuf.String())
	}
}

func TestTeeHandlerPropagatesGroups(t *testing.T) {
	var baseBuf, extraBuf bytes.Buffer
	tee := slog.New(TeeHandler(slog.NewTextHandler(&baseBuf, nil), slog.NewTextHandler(&extraBuf, nil)))

	tee.WithGroup("worker").Info("done", Int("frames", 4))

	for _, out := range []string{baseBuf.String(), extraBuf.String()} {
		if !strings.Contains(out, "worker.frames=4") {
			t.Fatalf("expected grouped attr in output, got %q", out)
		}
	}
}
