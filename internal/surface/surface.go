package surface

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gg"

	"framecap/internal/encoder"
)

var (
	// ErrNotActive is returned by Capture outside a Begin/End bracket.
	ErrNotActive = errors.New("surface not active")
	// ErrUnsupportedFormat is returned for pixel formats the surface cannot produce.
	ErrUnsupportedFormat = errors.New("unsupported pixel format")
)

// Target is an offscreen render target that can be snapshotted.
type Target interface {
	Begin() error
	Capture(dst []byte) ([]byte, error)
	End() error
}

// Surface is an RGBA8 offscreen target backed by a gg drawing context.
type Surface struct {
	mu      sync.Mutex
	dc      *gg.Context
	width   int
	height  int
	swizzle bool
	active  bool
	closed  bool
}

var _ Target = (*Surface)(nil)

// New allocates a width x height surface whose captures use pixelFormat
// ("rgba" or "bgra"; empty means rgba).
func New(width, height int, pixelFormat string) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("surface size %dx%d must be positive", width, height)
	}
	var swizzle bool
	switch pixelFormat {
	case "", "rgba":
	case "bgra":
		swizzle = true
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, pixelFormat)
	}
	return &Surface{
		dc:      gg.NewContext(width, height),
		width:   width,
		height:  height,
		swizzle: swizzle,
	}, nil
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.width }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.height }

// FrameSize is the byte length of one captured frame.
func (s *Surface) FrameSize() int { return s.width * s.height * encoder.BytesPerPixel }

// Context exposes the drawing context. Callers must not close it.
func (s *Surface) Context() *gg.Context { return s.dc }

// Pixels returns the live RGBA buffer for hosts that render without gg.
func (s *Surface) Pixels() []byte {
	return s.dc.ResizeTarget().Data()
}

// Begin marks the surface as the active recording target and clears it.
func (s *Surface) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("surface closed")
	}
	s.dc.Clear()
	s.active = true
	return nil
}

// Capture copies the current pixels into dst, growing it when short.
func (s *Surface) Capture(dst []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return dst, ErrNotActive
	}
	if err := s.dc.FlushGPU(); err != nil {
		return dst, fmt.Errorf("flush surface: %w", err)
	}
	size := s.FrameSize()
	if cap(dst) < size {
		dst = make([]byte, size)
	}
	dst = dst[:size]
	copy(dst, s.dc.ResizeTarget().Data())
	if s.swizzle {
		for i := 0; i+3 < size; i += encoder.BytesPerPixel {
			dst[i], dst[i+2] = dst[i+2], dst[i]
		}
	}
	return dst, nil
}

// End deactivates the surface. Later captures fail with ErrNotActive.
func (s *Surface) End() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
	return nil
}

// Active reports whether the surface is between Begin and End.
func (s *Surface) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Close releases the drawing context.
func (s *Surface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.active = false
	return s.dc.Close()
}
