package encoder

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// BytesPerPixel is the size of one packed RGBA8 input pixel, shared by the
// render surface and every encoder.
const BytesPerPixel = 4

// Params describes a single encoding session.
type Params struct {
	Width       int
	Height      int
	FPS         float64
	Codec       string
	OutputPath  string
	PixelFormat string
	ExtraArgs   []string
}

// FrameSize returns the byte length of one raw input frame.
func (p Params) FrameSize() int {
	return p.Width * p.Height * BytesPerPixel
}

// Validate reports degenerate parameters.
func (p Params) Validate() error {
	switch {
	case p.Width <= 0 || p.Height <= 0:
		return fmt.Errorf("resolution %dx%d must be positive", p.Width, p.Height)
	case p.FPS <= 0:
		return fmt.Errorf("fps %v must be positive", p.FPS)
	case strings.TrimSpace(p.OutputPath) == "":
		return errors.New("output path required")
	case strings.TrimSpace(p.Codec) == "":
		return errors.New("codec required")
	}
	return nil
}

// Session accepts raw frames for one output file. It is owned by a single
// goroutine.
type Session interface {
	// WriteFrame submits one raw frame of Params.FrameSize bytes.
	WriteFrame(frame []byte) error
	// Finish flushes and finalizes the container. Later calls return the
	// first result.
	Finish() error
}

// Encoder opens encoding sessions and lists the codecs it supports.
type Encoder interface {
	Init(ctx context.Context, params Params) (Session, error)
	// AvailableCodecs maps codec names to stable identifiers.
	AvailableCodecs(ctx context.Context) (map[string]int, error)
}
