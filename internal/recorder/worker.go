package recorder

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"framecap/internal/encoder"
	"framecap/internal/frameslot"
	"framecap/internal/logging"
	"framecap/internal/services"
)

// Worker drains the frame slot into an encoder session on its own goroutine.
type Worker struct {
	session   encoder.Session
	slot      *frameslot.Slot
	frameSize int
	logger    *slog.Logger
	sampler   *logging.ProgressSampler

	state   atomic.Int32
	encoded atomic.Int64
	err     error
	done    chan struct{}
}

func newWorker(session encoder.Session, slot *frameslot.Slot, frameSize int, logger *slog.Logger) *Worker {
	return &Worker{
		session:   session,
		slot:      slot,
		frameSize: frameSize,
		logger:    logging.NewComponentLogger(logger, "worker"),
		sampler:   logging.NewProgressSampler(0),
		done:      make(chan struct{}),
	}
}

// State reports the worker's lifecycle state.
func (w *Worker) State() WorkerState {
	return WorkerState(w.state.Load())
}

// FramesEncoded reports frames accepted by the encoder.
func (w *Worker) FramesEncoded() int64 {
	return w.encoded.Load()
}

// Done is closed once the worker has finalized the encoder.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Err returns the terminal error. It is only meaningful after Done is closed.
func (w *Worker) Err() error {
	select {
	case <-w.done:
		return w.err
	default:
		return nil
	}
}

func (w *Worker) setState(state WorkerState) {
	w.state.Store(int32(state))
	w.logger.Debug("worker state changed", logging.String("worker_state", state.String()))
}

// run consumes frames until the slot is closed and empty or a write fails,
// then finalizes the encoder. onDone runs before Done is closed.
func (w *Worker) run(onDone func(*Worker)) {
	w.setState(WorkerRunning)

	buf := make([]byte, w.frameSize)
	for {
		var ok bool
		buf, ok = w.slot.Consume(buf)
		if !ok {
			break
		}
		if err := w.session.WriteFrame(buf); err != nil {
			frame := w.encoded.Load() + 1
			w.err = services.Wrap(services.ErrEncoderWrite, stageEncode, "write frame", fmt.Sprintf("frame %d", frame), err)
			logging.ErrorWithContext(w.logger, "encoder rejected frame; finalizing partial recording", "encoder_write_failed",
				logging.Int64("frame", frame),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the encoder output and free disk space"),
			)
			w.slot.Abort()
			break
		}
		encoded := w.encoded.Add(1)
		if w.sampler.ShouldLog(encoded, WorkerRunning.String()) {
			w.logger.Debug("frames encoded", logging.Int64("frames", encoded))
		}
	}

	w.setState(WorkerFinalizing)
	if err := w.session.Finish(); err != nil {
		logging.WarnWithContext(w.logger, "encoder finalize failed", "encoder_finish_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "output file may be truncated or unplayable"),
		)
		if w.err == nil {
			w.err = services.Wrap(services.ErrEncoderWrite, stageEncode, "finish", "", err)
		}
	}
	w.setState(WorkerDone)
	w.logger.Info("encoder finalized",
		logging.String(logging.FieldEventType, "encode_complete"),
		logging.Int64("frames_encoded", w.encoded.Load()),
		logging.Bool("failed", w.err != nil),
	)

	if onDone != nil {
		onDone(w)
	}
	close(w.done)
}
