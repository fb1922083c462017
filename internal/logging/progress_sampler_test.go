package logging

import "testing"

func TestNewProgressSampler(t *testing.T) {
	tests := []struct {
		name     string
		interval int64
		want     int64
	}{
		{"default interval for zero", 0, 300},
		{"default interval for negative", -1, 300},
		{"custom interval", 60, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewProgressSampler(tt.interval)
			if s.interval != tt.want {
				t.Errorf("interval = %d, want %d", s.interval, tt.want)
			}
			if s.lastMark != -1 {
				t.Errorf("lastMark = %d, want -1", s.lastMark)
			}
		})
	}
}

func TestProgressSampler_NilSampler(t *testing.T) {
	var s *ProgressSampler
	if !s.ShouldLog(10, "running") {
		t.Error("ShouldLog on nil sampler should always return true")
	}
	s.Reset() // should not panic
}

func TestProgressSampler_StateChange(t *testing.T) {
	s := NewProgressSampler(100)

	if !s.ShouldLog(0, "running") {
		t.Error("first state should log")
	}
	if s.ShouldLog(1, "running") {
		t.Error("same state within interval should not log")
	}
	if !s.ShouldLog(2, "finalizing") {
		t.Error("state change should log")
	}
}

func TestProgressSampler_Intervals(t *testing.T) {
	s := NewProgressSampler(10)
	var emitted []int64
	for frame := int64(0); frame < 35; frame++ {
		if s.ShouldLog(frame, "running") {
			emitted = append(emitted, frame)
		}
	}
	want := []int64{0, 10, 20, 30}
	if len(emitted) != len(want) {
		t.Fatalf("emitted = %v, want %v", emitted, want)
	}
	for i := range want {
		if emitted[i] != want[i] {
			t.Fatalf("emitted = %v, want %v", emitted, want)
		}
	}
}

func TestProgressSampler_Reset(t *testing.T) {
	s := NewProgressSampler(10)
	s.ShouldLog(25, "running")
	s.Reset()
	if s.lastState != "" || s.lastMark != -1 {
		t.Fatalf("expected cleared state, got %q %d", s.lastState, s.lastMark)
	}
	if !s.ShouldLog(0, "running") {
		t.Error("expected log after reset")
	}
}
