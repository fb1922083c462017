package logging

import "strings"

// ProgressSampler suppresses repetitive per-frame logs while preserving signal
// when the worker state changes or the frame count crosses an interval.
type ProgressSampler struct {
	interval  int64
	lastState string
	lastMark  int64
}

// NewProgressSampler constructs a sampler that emits every interval frames
// (default 300) or when the state changes.
func NewProgressSampler(interval int64) *ProgressSampler {
	if interval <= 0 {
		interval = 300
	}
	return &ProgressSampler{interval: interval, lastMark: -1}
}

// ShouldLog reports whether a progress event for frames processed so far
// should be logged. state is trimmed before comparison.
func (s *ProgressSampler) ShouldLog(frames int64, state string) bool {
	if s == nil {
		return true
	}
	state = strings.TrimSpace(state)
	emit := false
	if state != "" && state != s.lastState {
		s.lastState = state
		emit = true
	}
	if frames >= 0 {
		mark := frames / s.interval
		if mark > s.lastMark {
			s.lastMark = mark
			emit = true
		}
	}
	return emit
}

// Reset clears the sampler state (e.g. when a new session starts).
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.lastState = ""
	s.lastMark = -1
}
