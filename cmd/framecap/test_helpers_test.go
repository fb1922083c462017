package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"framecap/internal/config"
	"framecap/internal/encoder"
	"framecap/internal/remux"
	"framecap/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
	encoder    *fakeEncoder
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("FRAMECAP_FFMPEG", "")
	t.Setenv("FRAMECAP_FFPROBE", "")

	cfg := testsupport.NewConfig(t, append([]testsupport.ConfigOption{testsupport.WithStubbedBinaries()}, opts...)...)
	cfg.FFmpeg.VerifyOutput = false

	configPath := filepath.Join(homeDir, ".config", "framecap", "config.toml")
	writeTestConfig(t, configPath, cfg)

	enc := &fakeEncoder{codecs: map[string]int{"libx264": 0, "libx265": 1, "libvpx-vp9": 2}}
	prevEncoder, prevMuxer := newVideoEncoder, newAudioMuxer
	newVideoEncoder = func(*config.Config, *slog.Logger) encoder.Encoder { return enc }
	newAudioMuxer = func(*config.Config, *slog.Logger) remux.Muxer { return fakeMuxer{} }
	t.Cleanup(func() {
		newVideoEncoder, newAudioMuxer = prevEncoder, prevMuxer
	})

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		baseDir:    base,
		encoder:    enc,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content, err := cfg.Encode()
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

type fakeEncoder struct {
	mu     sync.Mutex
	codecs map[string]int
	params []encoder.Params
	frames int
}

func (e *fakeEncoder) Init(_ context.Context, params encoder.Params) (encoder.Session, error) {
	if err := os.WriteFile(params.OutputPath, []byte("video"), 0o644); err != nil {
		return nil, err
	}
	e.mu.Lock()
	e.params = append(e.params, params)
	e.mu.Unlock()
	return &fakeSession{enc: e, size: params.FrameSize()}, nil
}

func (e *fakeEncoder) AvailableCodecs(context.Context) (map[string]int, error) {
	return e.codecs, nil
}

func (e *fakeEncoder) framesWritten() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frames
}

type fakeSession struct {
	enc  *fakeEncoder
	size int
}

func (s *fakeSession) WriteFrame(frame []byte) error {
	if len(frame) != s.size {
		return fmt.Errorf("frame size %d, want %d", len(frame), s.size)
	}
	s.enc.mu.Lock()
	s.enc.frames++
	s.enc.mu.Unlock()
	return nil
}

func (s *fakeSession) Finish() error { return nil }

type fakeMuxer struct{}

func (fakeMuxer) Mux(_ context.Context, videoPath, audioPath, outputPath string) error {
	video, err := os.ReadFile(videoPath)
	if err != nil {
		return err
	}
	if _, err := os.Stat(audioPath); err != nil {
		return err
	}
	return os.WriteFile(outputPath, append(video, []byte("+audio")...), 0o644)
}
