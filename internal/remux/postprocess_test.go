package remux_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"framecap/internal/media/ffprobe"
	"framecap/internal/remux"
	"framecap/internal/services"
	"framecap/internal/testsupport"
)

type fakeMuxer struct {
	calls   int
	output  string
	err     error
	partial bool
}

func (m *fakeMuxer) Mux(_ context.Context, videoPath, audioPath, outputPath string) error {
	m.calls++
	m.output = outputPath
	if m.partial {
		if err := os.WriteFile(outputPath, []byte("half"), 0o644); err != nil {
			return err
		}
	}
	if m.err != nil {
		return m.err
	}
	video, err := os.ReadFile(videoPath)
	if err != nil {
		return err
	}
	audio, err := os.ReadFile(audioPath)
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, append(video, audio...), 0o644)
}

func setup(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	video := filepath.Join(dir, "out.mp4")
	audio := filepath.Join(dir, "capture.wav")
	if err := os.WriteFile(video, []byte("video"), 0o644); err != nil {
		t.Fatalf("write video: %v", err)
	}
	if err := os.WriteFile(audio, []byte("audio"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	return video, audio
}

func TestPostProcessReplacesVideoAndRemovesAudio(t *testing.T) {
	video, audio := setup(t)
	muxer := &fakeMuxer{}
	p := remux.New(muxer)

	result, err := p.PostProcess(context.Background(), remux.Request{VideoPath: video, AudioPath: audio})
	if err != nil {
		t.Fatalf("PostProcess: %v", err)
	}
	if muxer.output != remux.TempPath(video) {
		t.Fatalf("muxer wrote to %q, want temp path", muxer.output)
	}
	if !strings.HasPrefix(filepath.Base(muxer.output), ".remux-out.mp4") {
		t.Fatalf("unexpected temp name %q", muxer.output)
	}
	if result.OutputPath != video || !result.AudioRemoved {
		t.Fatalf("unexpected result %+v", result)
	}
	data, err := os.ReadFile(video)
	if err != nil {
		t.Fatalf("read video: %v", err)
	}
	if string(data) != "videoaudio" {
		t.Fatalf("expected merged content, got %q", data)
	}
	if _, err := os.Stat(audio); !os.IsNotExist(err) {
		t.Fatalf("expected raw audio removed, stat err=%v", err)
	}
	if left := testsupport.TempLeftovers(t, filepath.Dir(video)); len(left) != 0 {
		t.Fatalf("temp files left behind: %v", left)
	}
}

func TestPostProcessMuxFailureLeavesInputsUntouched(t *testing.T) {
	video, audio := setup(t)
	p := remux.New(&fakeMuxer{err: errors.New("exit status 1"), partial: true})

	_, err := p.PostProcess(context.Background(), remux.Request{VideoPath: video, AudioPath: audio})
	if !errors.Is(err, services.ErrMux) {
		t.Fatalf("expected ErrMux, got %v", err)
	}
	for path, want := range map[string]string{video: "video", audio: "audio"} {
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			t.Fatalf("read %s: %v", path, readErr)
		}
		if string(data) != want {
			t.Fatalf("%s modified: %q", path, data)
		}
	}
	if left := testsupport.TempLeftovers(t, filepath.Dir(video)); len(left) != 0 {
		t.Fatalf("temp files left behind: %v", left)
	}
}

func TestPostProcessMissingInputs(t *testing.T) {
	video, audio := setup(t)
	muxer := &fakeMuxer{}
	p := remux.New(muxer)

	if _, err := p.PostProcess(context.Background(), remux.Request{VideoPath: video, AudioPath: audio + ".missing"}); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := p.PostProcess(context.Background(), remux.Request{VideoPath: video}); !errors.Is(err, services.ErrInvalidSettings) {
		t.Fatalf("expected ErrInvalidSettings, got %v", err)
	}
	if muxer.calls != 0 {
		t.Fatalf("muxer should not run, ran %d times", muxer.calls)
	}
}

func TestPostProcessRejectsVideoWithoutStream(t *testing.T) {
	video, audio := setup(t)
	muxer := &fakeMuxer{}
	p := remux.New(muxer, remux.WithInspector(func(context.Context, string) (ffprobe.Result, error) {
		return ffprobe.Result{Streams: []ffprobe.Stream{{CodecType: "audio"}}}, nil
	}))

	if _, err := p.PostProcess(context.Background(), remux.Request{VideoPath: video, AudioPath: audio}); !errors.Is(err, services.ErrMux) {
		t.Fatalf("expected ErrMux, got %v", err)
	}
	if muxer.calls != 0 {
		t.Fatal("muxer should not run when inspection fails")
	}
}

func TestPostProcessWithInspectorSucceeds(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dir := filepath.Dir(cfg.Recording.OutputFile)
	video := cfg.Recording.OutputFile
	audio := cfg.AudioCapturePath(video)
	testsupport.WriteFile(t, video, 128)
	testsupport.WriteFile(t, audio, 64)

	var inspected []string
	p := remux.New(&fakeMuxer{}, remux.WithInspector(func(_ context.Context, path string) (ffprobe.Result, error) {
		inspected = append(inspected, path)
		streams := []ffprobe.Stream{{CodecType: "video", Width: 64, Height: 36}}
		if path == remux.TempPath(video) {
			streams = append(streams, ffprobe.Stream{CodecType: "audio"})
		}
		return ffprobe.Result{Streams: streams}, nil
	}))
	req := remux.Request{VideoPath: video, AudioPath: audio, Width: 64, Height: 36}
	if _, err := p.PostProcess(context.Background(), req); err != nil {
		t.Fatalf("PostProcess: %v", err)
	}
	if len(inspected) != 2 || inspected[0] != video || inspected[1] != remux.TempPath(video) {
		t.Fatalf("unexpected inspection order %v", inspected)
	}
	info, err := os.Stat(video)
	if err != nil {
		t.Fatalf("stat video: %v", err)
	}
	if info.Size() != 192 {
		t.Fatalf("expected merged size 192, got %d", info.Size())
	}
	if left := testsupport.TempLeftovers(t, dir); len(left) != 0 {
		t.Fatalf("temp files left behind: %v", left)
	}
}

func TestPostProcessRejectsMergedOutputWithoutAudio(t *testing.T) {
	video, audio := setup(t)
	p := remux.New(&fakeMuxer{}, remux.WithInspector(func(context.Context, string) (ffprobe.Result, error) {
		return ffprobe.Result{Streams: []ffprobe.Stream{{CodecType: "video"}}}, nil
	}))

	_, err := p.PostProcess(context.Background(), remux.Request{VideoPath: video, AudioPath: audio})
	if !errors.Is(err, services.ErrMux) || !errors.Is(err, ffprobe.ErrUnexpected) {
		t.Fatalf("expected ErrMux wrapping ErrUnexpected, got %v", err)
	}
	data, readErr := os.ReadFile(video)
	if readErr != nil || string(data) != "video" {
		t.Fatalf("video should be untouched, got %q (%v)", data, readErr)
	}
	if _, statErr := os.Stat(audio); statErr != nil {
		t.Fatalf("capture should be kept: %v", statErr)
	}
	if left := testsupport.TempLeftovers(t, filepath.Dir(video)); len(left) != 0 {
		t.Fatalf("temp files left behind: %v", left)
	}
}
