package recorder

import (
	"fmt"
	"strings"

	"framecap/internal/encoder"
	"framecap/internal/services"
)

// Settings are the render settings for one session. They are copied on Start.
type Settings struct {
	Width       int
	Height      int
	OutputFile  string
	FPS         float64
	Codec       string
	PixelFormat string
	ExtraArgs   []string
}

// Validate rejects degenerate settings with services.ErrInvalidSettings.
func (s Settings) Validate() error {
	var problem string
	switch {
	case s.Width <= 0 || s.Height <= 0:
		problem = fmt.Sprintf("resolution %dx%d must be positive", s.Width, s.Height)
	case s.FPS <= 0:
		problem = fmt.Sprintf("fps %v must be positive", s.FPS)
	case strings.TrimSpace(s.OutputFile) == "":
		problem = "output file required"
	case strings.TrimSpace(s.Codec) == "":
		problem = "codec required"
	default:
		return nil
	}
	return services.Wrap(services.ErrInvalidSettings, stageStart, "validate settings", problem, nil)
}

// FrameSize is the byte length of one captured frame.
func (s Settings) FrameSize() int {
	return s.Width * s.Height * encoder.BytesPerPixel
}

func (s Settings) params() encoder.Params {
	return encoder.Params{
		Width:       s.Width,
		Height:      s.Height,
		FPS:         s.FPS,
		Codec:       s.Codec,
		OutputPath:  s.OutputFile,
		PixelFormat: s.PixelFormat,
		ExtraArgs:   append([]string(nil), s.ExtraArgs...),
	}
}

func (s Settings) clone() Settings {
	s.ExtraArgs = append([]string(nil), s.ExtraArgs...)
	return s
}
