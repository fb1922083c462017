package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

var commandContext = exec.CommandContext

// Stream kinds as reported in codec_type.
const (
	KindVideo = "video"
	KindAudio = "audio"
)

// Result is the subset of `ffprobe -show_streams -show_format` output the
// recorder inspects.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  struct {
		Duration   string `json:"duration"`
		FormatName string `json:"format_name"`
	} `json:"format"`
}

// Stream describes one elementary stream.
type Stream struct {
	Index     int    `json:"index"`
	CodecName string `json:"codec_name"`
	CodecType string `json:"codec_type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	AvgFrame  string `json:"avg_frame_rate"`
	NBFrames  string `json:"nb_frames"`
}

// Expect lists the properties a finished recording should have. Zero fields
// are not checked.
type Expect struct {
	Width  int
	Height int
	Audio  bool
}

// ErrUnexpected reports a recording whose streams do not match an Expect.
var ErrUnexpected = errors.New("unexpected recording layout")

// Inspect runs binary (ffprobe when empty) against path.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	if strings.TrimSpace(path) == "" {
		return Result{}, errors.New("ffprobe: empty path")
	}

	cmd := commandContext(ctx, binary, "-v", "error", "-hide_banner", //nolint:gosec
		"-show_format", "-show_streams", "-of", "json", "--", path)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return Result{}, fmt.Errorf("ffprobe %s: %w: %s", path, err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return Result{}, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("decode ffprobe output: %w", err)
	}
	return result, nil
}

// Count returns how many streams have the given kind.
func (r Result) Count(kind string) int {
	n := 0
	for _, s := range r.Streams {
		if strings.EqualFold(s.CodecType, kind) {
			n++
		}
	}
	return n
}

// VideoStream returns the first video stream.
func (r Result) VideoStream() (Stream, bool) {
	for _, s := range r.Streams {
		if strings.EqualFold(s.CodecType, KindVideo) {
			return s, true
		}
	}
	return Stream{}, false
}

// Check compares the reported layout against want. Every mismatch is listed in
// the returned error, which wraps ErrUnexpected.
func (r Result) Check(want Expect) error {
	var problems []string
	video, ok := r.VideoStream()
	if !ok {
		problems = append(problems, "no video stream")
	} else {
		if want.Width > 0 && video.Width != want.Width {
			problems = append(problems, fmt.Sprintf("width %d, want %d", video.Width, want.Width))
		}
		if want.Height > 0 && video.Height != want.Height {
			problems = append(problems, fmt.Sprintf("height %d, want %d", video.Height, want.Height))
		}
	}
	if want.Audio && r.Count(KindAudio) == 0 {
		problems = append(problems, "no audio stream")
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnexpected, strings.Join(problems, "; "))
}

// FrameRate parses avg_frame_rate ("60/1", "30000/1001"). Unparseable or
// missing values yield 0.
func (s Stream) FrameRate() float64 {
	num, den, hasDen := strings.Cut(strings.TrimSpace(s.AvgFrame), "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil || n < 0 {
		return 0
	}
	if !hasDen {
		return n
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}

// FrameCount returns nb_frames, or 0 when the container does not report it.
func (s Stream) FrameCount() int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s.NBFrames), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Duration returns the container duration in seconds, or 0 when unavailable.
func (r Result) Duration() float64 {
	d, err := strconv.ParseFloat(strings.TrimSpace(r.Format.Duration), 64)
	if err != nil || d < 0 {
		return 0
	}
	return d
}
