package recorder_test

import (
	"context"
	"errors"
	"os"
	"sync"

	"framecap/internal/encoder"
)

var errDiskFull = errors.New("no space left on device")

// fakeEncoder records every frame's marker byte. Init creates the output file
// so post-processing has something to merge into.
type fakeEncoder struct {
	mu       sync.Mutex
	initErr  error
	failAt   int
	block    chan struct{}
	gate     chan struct{}
	inits    int
	sessions []*fakeSession
}

func (e *fakeEncoder) Init(_ context.Context, params encoder.Params) (encoder.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.inits++
	if e.initErr != nil {
		return nil, e.initErr
	}
	if err := os.WriteFile(params.OutputPath, []byte("video"), 0o644); err != nil {
		return nil, err
	}
	s := &fakeSession{params: params, failAt: e.failAt, block: e.block, gate: e.gate}
	e.sessions = append(e.sessions, s)
	return s, nil
}

func (e *fakeEncoder) AvailableCodecs(context.Context) (map[string]int, error) {
	return map[string]int{"libx264": 0, "mpeg4": 1}, nil
}

func (e *fakeEncoder) last() *fakeSession {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.sessions) == 0 {
		return nil
	}
	return e.sessions[len(e.sessions)-1]
}

type fakeSession struct {
	params encoder.Params
	failAt int
	block  chan struct{}
	gate   chan struct{}

	mu       sync.Mutex
	writes   int
	markers  []byte
	sizes    []int
	finished int
}

func (s *fakeSession) WriteFrame(frame []byte) error {
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if s.failAt > 0 && s.writes == s.failAt {
		return errDiskFull
	}
	s.markers = append(s.markers, frame[0])
	s.sizes = append(s.sizes, len(frame))
	return nil
}

func (s *fakeSession) Finish() error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finished++
	return nil
}

func (s *fakeSession) snapshot() (markers []byte, sizes []int, finished int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.markers...), append([]int(nil), s.sizes...), s.finished
}

type fakeMuxer struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (m *fakeMuxer) Mux(_ context.Context, videoPath, audioPath, outputPath string) error {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	video, err := os.ReadFile(videoPath)
	if err != nil {
		return err
	}
	if _, err := os.Stat(audioPath); err != nil {
		return err
	}
	return os.WriteFile(outputPath, append(video, []byte("+audio")...), 0o644)
}
