package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"framecap/internal/history"
	"framecap/internal/testsupport"
)

func TestCodecsCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"codecs"}, env.configPath)
	if err != nil {
		t.Fatalf("codecs: %v", err)
	}
	requireContains(t, out, "Video encoders")
	requireContains(t, out, "libx264")
	requireContains(t, out, "libvpx-vp9")

	out, _, err = runCLI(t, []string{"codecs", "--filter", "vpx"}, env.configPath)
	if err != nil {
		t.Fatalf("codecs --filter: %v", err)
	}
	if strings.Contains(out, "libx265") {
		t.Fatalf("filter should hide libx265: %q", out)
	}

	out, _, err = runCLI(t, []string{"codecs", "--filter", "prores"}, env.configPath)
	if err != nil {
		t.Fatalf("codecs --filter: %v", err)
	}
	requireContains(t, out, "No matching encoders")
}

func TestHistoryCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	ctx := context.Background()

	store := testsupport.MustOpenHistory(t, env.cfg)
	for _, s := range []struct {
		id      string
		outcome history.Outcome
	}{
		{"aaaa1111-0000-0000-0000-000000000001", history.Outcome{Status: history.StatusCompleted, FramesCaptured: 30, FramesEncoded: 30}},
		{"bbbb2222-0000-0000-0000-000000000002", history.Outcome{Status: history.StatusFailed, FramesCaptured: 10, FramesEncoded: 4}},
	} {
		if _, err := store.Begin(ctx, history.Session{ID: s.id, OutputPath: "/tmp/" + s.id + ".mp4", Width: 64, Height: 36, FPS: 30, Codec: "libx264"}); err != nil {
			t.Fatalf("Begin: %v", err)
		}
		if err := store.Finish(ctx, s.id, s.outcome); err != nil {
			t.Fatalf("Finish: %v", err)
		}
	}
	store.Close()

	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "aaaa1111")
	requireContains(t, out, "bbbb2222")
	requireContains(t, out, "Completed")
	requireContains(t, out, "4/10")
	requireContains(t, out, "64x36@30")

	out, _, err = runCLI(t, []string{"history", "--status", "failed"}, env.configPath)
	if err != nil {
		t.Fatalf("history --status: %v", err)
	}
	requireContains(t, out, "bbbb2222")
	if strings.Contains(out, "aaaa1111") {
		t.Fatalf("status filter should hide completed session: %q", out)
	}

	if _, _, err := runCLI(t, []string{"history", "--status", "bogus"}, env.configPath); err == nil {
		t.Fatal("expected unknown status error")
	}
}

func TestHistoryCommandEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No sessions recorded")
}

func TestDepsCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"deps"}, env.configPath)
	if err != nil {
		t.Fatalf("deps: %v\n%s", err, out)
	}
	requireContains(t, out, "[OK] Ready")
	requireContains(t, out, "Output directory")
}

func TestConfigInitValidateShow(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.configPath)

	out, _, err = runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "[recording]")
	requireContains(t, out, env.cfg.Recording.OutputFile)

	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config already exists")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestInvalidConfigFailsBeforeCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.WriteFile(env.configPath, []byte("[recording]\nwidth = -1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, _, err := runCLI(t, []string{"history"}, env.configPath); err == nil {
		t.Fatal("expected config validation error")
	}
}

func TestLogsCommandShowsLatestRun(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"logs"}, env.configPath); err == nil {
		t.Fatal("expected error before any run log exists")
	}

	if _, _, err := runCLI(t, []string{"record", "--frames", "2"}, env.configPath); err != nil {
		t.Fatalf("record: %v", err)
	}
	out, _, err := runCLI(t, []string{"logs", "--lines", "200"}, env.configPath)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	requireContains(t, out, "recording started")
}
