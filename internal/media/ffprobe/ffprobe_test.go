package ffprobe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
)

func TestCheck(t *testing.T) {
	merged := Result{Streams: []Stream{
		{Index: 0, CodecType: "video", Width: 64, Height: 36},
		{Index: 1, CodecType: "audio"},
	}}
	videoOnly := Result{Streams: []Stream{{CodecType: "video", Width: 64, Height: 36}}}

	tests := []struct {
		name    string
		result  Result
		want    Expect
		problem string
	}{
		{name: "merged recording", result: merged, want: Expect{Width: 64, Height: 36, Audio: true}},
		{name: "video only", result: videoOnly, want: Expect{Width: 64}},
		{name: "missing audio", result: videoOnly, want: Expect{Audio: true}, problem: "no audio stream"},
		{name: "wrong size", result: videoOnly, want: Expect{Width: 32, Height: 18}, problem: "width 64, want 32; height 36, want 18"},
		{name: "empty", result: Result{}, want: Expect{Audio: true}, problem: "no video stream; no audio stream"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.result.Check(tt.want)
			if tt.problem == "" {
				if err != nil {
					t.Fatalf("Check: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrUnexpected) || !strings.Contains(err.Error(), tt.problem) {
				t.Fatalf("Check = %v, want %q", err, tt.problem)
			}
		})
	}
}

func TestStreamFrameRateAndCount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"60/1", 60},
		{"30000/1001", 30000.0 / 1001.0},
		{"0/0", 0},
		{"25", 25},
		{"", 0},
	}
	for _, tt := range tests {
		if got := (Stream{AvgFrame: tt.in}).FrameRate(); got != tt.want {
			t.Errorf("FrameRate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if got := (Stream{NBFrames: "600"}).FrameCount(); got != 600 {
		t.Fatalf("FrameCount = %d", got)
	}
	if got := (Stream{NBFrames: "N/A"}).FrameCount(); got != 0 {
		t.Fatalf("FrameCount = %d", got)
	}
}

func TestVideoStreamPicksFirstVideo(t *testing.T) {
	result := Result{Streams: []Stream{{Index: 0, CodecType: "audio"}, {Index: 1, CodecType: "video", Width: 1920}}}
	stream, ok := result.VideoStream()
	if !ok || stream.Index != 1 || stream.Width != 1920 {
		t.Fatalf("unexpected stream %+v %v", stream, ok)
	}
	if _, ok := (Result{}).VideoStream(); ok {
		t.Fatal("expected no video stream")
	}
}

func stubFFprobe(t *testing.T, mode string) {
	t.Helper()
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS="+mode)
		return cmd
	}
	t.Cleanup(func() { commandContext = original })
}

func TestInspectParsesOutput(t *testing.T) {
	stubFFprobe(t, "ok")

	result, err := Inspect(context.Background(), "", "/tmp/out.mp4")
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if result.Count(KindVideo) != 1 || result.Count(KindAudio) != 1 {
		t.Fatalf("unexpected streams %+v", result.Streams)
	}
	if result.Duration() != 1.5 || result.Format.FormatName != "mov,mp4" {
		t.Fatalf("unexpected format %+v", result.Format)
	}
	if err := result.Check(Expect{Width: 64, Height: 36, Audio: true}); err != nil {
		t.Fatalf("Check: %v", err)
	}
}

func TestInspectReportsStderr(t *testing.T) {
	stubFFprobe(t, "fail")

	_, err := Inspect(context.Background(), "ffprobe", "/tmp/broken.mp4")
	if err == nil || !strings.Contains(err.Error(), "moov atom not found") {
		t.Fatalf("expected stderr in error, got %v", err)
	}
}

func TestInspectRequiresPath(t *testing.T) {
	if _, err := Inspect(context.Background(), "ffprobe", " "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestHelperProcess(t *testing.T) {
	switch os.Getenv("GO_WANT_HELPER_PROCESS") {
	case "ok":
		fmt.Print(`{"streams":[{"index":0,"codec_type":"video","width":64,"height":36,"avg_frame_rate":"30/1"},{"index":1,"codec_type":"audio"}],"format":{"duration":"1.5","format_name":"mov,mp4"}}`)
		os.Exit(0)
	case "fail":
		fmt.Fprint(os.Stderr, "moov atom not found")
		os.Exit(1)
	}
}
