package frameslot

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrClosed is returned by Publish once the slot no longer accepts frames.
	ErrClosed = errors.New("frame slot closed")
	// ErrFrameSize is returned when a published frame does not match the slot size.
	ErrFrameSize = errors.New("frame size mismatch")
)

// Slot is a blocking single-frame mailbox shared by one producer and one
// consumer. All fields are guarded by mu; the lock is held only while a frame
// is copied in or out.
//
// A publish is admitted when it starts. Close refuses new admissions but lets
// admitted publishes finish and the consumer drain them. Abort also cancels
// admitted publishes.
type Slot struct {
	mu       sync.Mutex
	cond     *sync.Cond
	buf      []byte
	hasData  bool
	closed   bool
	aborted  bool
	admitted int
	waiting  bool

	published uint64
	consumed  uint64
}

// New allocates a slot for frames of exactly size bytes.
func New(size int) *Slot {
	if size < 0 {
		size = 0
	}
	s := &Slot{buf: make([]byte, size)}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Size reports the frame size accepted by Publish.
func (s *Slot) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buf)
}

// Reset empties and reopens the slot for a new session. Waiters blocked on the
// previous session must already have returned.
func (s *Slot) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hasData = false
	s.closed = false
	s.aborted = false
	s.admitted = 0
	s.waiting = false
	s.published = 0
	s.consumed = 0
}

// Publish is Admit followed by Deliver.
func (s *Slot) Publish(frame []byte) error {
	if err := s.Admit(); err != nil {
		return err
	}
	return s.Deliver(frame)
}

// Admit registers a publish that Close will not cancel. It returns ErrClosed
// once Close or Abort has been called. Every successful Admit must be
// followed by exactly one Deliver.
func (s *Slot) Admit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.admitted++
	return nil
}

// Deliver copies frame into the slot for an admitted publish, waiting while
// the previous frame has not been consumed. Only Abort interrupts the wait.
func (s *Slot) Deliver(frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.cond.Broadcast()
	s.admitted--

	if len(frame) != len(s.buf) {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrFrameSize, len(frame), len(s.buf))
	}
	for s.hasData && !s.aborted {
		s.waiting = true
		s.cond.Wait()
	}
	s.waiting = false
	if s.aborted {
		return ErrClosed
	}

	copy(s.buf, frame)
	s.hasData = true
	s.published++
	return nil
}

// Waiting reports whether a publish is blocked on an unconsumed frame.
func (s *Slot) Waiting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waiting
}

// TryConsume copies the pending frame into dst without waiting. dst is grown
// when it is too short. The boolean is false when no frame was pending.
func (s *Slot) TryConsume(dst []byte) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasData {
		return dst, false
	}
	return s.takeLocked(dst), true
}

// Consume waits for a frame and copies it into dst. It returns false once the
// slot is closed with no frame or admitted publish left, or once aborted.
func (s *Slot) Consume(dst []byte) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for !s.hasData && !s.aborted && (!s.closed || s.admitted > 0) {
		s.cond.Wait()
	}
	if !s.hasData || s.aborted {
		return dst, false
	}
	return s.takeLocked(dst), true
}

func (s *Slot) takeLocked(dst []byte) []byte {
	if cap(dst) < len(s.buf) {
		dst = make([]byte, len(s.buf))
	}
	dst = dst[:len(s.buf)]
	copy(dst, s.buf)
	s.hasData = false
	s.consumed++
	s.cond.Broadcast()
	return dst
}

// Close refuses further admissions and wakes every waiter. A pending frame
// and any admitted publish stay available to Consume. Close is idempotent.
func (s *Slot) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.cond.Broadcast()
}

// Abort closes the slot and cancels admitted publishes with ErrClosed. The
// consumer sees no further frames. It is used when the consumer can no
// longer accept frames.
func (s *Slot) Abort() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.aborted = true
	s.cond.Broadcast()
}

// Closed reports whether Close or Abort has been called since the last Reset.
func (s *Slot) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Stats reports frames published and consumed since the last Reset.
func (s *Slot) Stats() (published, consumed uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.published, s.consumed
}
