package audio

import (
	"errors"
	"fmt"
	"sync"

	goaudio "github.com/go-audio/audio"
)

// ErrAlreadyCapturing is returned when SetOutput is called while a capture
// sink is installed.
var ErrAlreadyCapturing = errors.New("audio output already redirected")

// Format describes interleaved integer PCM.
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// Validate reports unusable formats.
func (f Format) Validate() error {
	if f.SampleRate <= 0 || f.Channels <= 0 {
		return fmt.Errorf("audio format %d Hz / %d channels must be positive", f.SampleRate, f.Channels)
	}
	switch f.BitDepth {
	case 8, 16, 24, 32:
		return nil
	default:
		return fmt.Errorf("unsupported bit depth %d", f.BitDepth)
	}
}

// Sink consumes PCM buffers.
type Sink interface {
	Write(buf *goaudio.IntBuffer) error
	Close() error
}

// Engine is the audio output switch driven by the recorder.
type Engine interface {
	SetOutput(sink Sink) error
	RestoreDefault() error
}

// Router forwards host audio to the default sink unless a capture sink is set.
type Router struct {
	mu       sync.Mutex
	fallback Sink
	capture  Sink
	captured int64
}

var _ Engine = (*Router)(nil)

// NewRouter returns a router whose default output is fallback. A nil fallback
// discards audio while no capture is active.
func NewRouter(fallback Sink) *Router {
	return &Router{fallback: fallback}
}

// Write delivers one buffer to the active sink.
func (r *Router) Write(buf *goaudio.IntBuffer) error {
	if buf == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.capture != nil {
		if err := r.capture.Write(buf); err != nil {
			return fmt.Errorf("write capture sink: %w", err)
		}
		r.captured += int64(buf.NumFrames())
		return nil
	}
	if r.fallback != nil {
		return r.fallback.Write(buf)
	}
	return nil
}

// SetOutput redirects output to sink.
func (r *Router) SetOutput(sink Sink) error {
	if sink == nil {
		return errors.New("capture sink required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.capture != nil {
		return ErrAlreadyCapturing
	}
	r.capture = sink
	r.captured = 0
	return nil
}

// RestoreDefault closes the capture sink, if any, and resumes default output.
func (r *Router) RestoreDefault() error {
	r.mu.Lock()
	sink := r.capture
	r.capture = nil
	r.mu.Unlock()
	if sink == nil {
		return nil
	}
	if err := sink.Close(); err != nil {
		return fmt.Errorf("close capture sink: %w", err)
	}
	return nil
}

// Capturing reports whether a capture sink is installed.
func (r *Router) Capturing() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.capture != nil
}

// CapturedFrames reports the PCM frames written to the current or last capture sink.
func (r *Router) CapturedFrames() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.captured
}
