package history

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a recorded session.
type Status string

const (
	StatusRecording Status = "recording"
	StatusCompleted Status = "completed"
	StatusPartial   Status = "partial"
	StatusFailed    Status = "failed"
)

// ParseStatus converts a stored or user-supplied value into a Status.
func ParseStatus(value string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(value))) {
	case StatusRecording:
		return StatusRecording, true
	case StatusCompleted:
		return StatusCompleted, true
	case StatusPartial:
		return StatusPartial, true
	case StatusFailed:
		return StatusFailed, true
	default:
		return "", false
	}
}

// Session is one row of recording history.
type Session struct {
	ID             string
	OutputPath     string
	Width          int
	Height         int
	FPS            float64
	Codec          string
	Status         Status
	FramesCaptured int64
	FramesEncoded  int64
	AudioMuxed     bool
	ErrorMessage   string
	StartedAt      time.Time
	FinishedAt     *time.Time
}

// Duration reports how long the session ran, or zero while it is still open.
func (s *Session) Duration() time.Duration {
	if s == nil || s.FinishedAt == nil || s.StartedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// Outcome describes how a session ended.
type Outcome struct {
	Status         Status
	FramesCaptured int64
	FramesEncoded  int64
	AudioMuxed     bool
	Err            error
}
