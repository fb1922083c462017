package recorder

import "errors"

const (
	stageStart  = "start"
	stageEncode = "encode"
	stageAudio  = "audio"
)

var (
	// ErrInvalidState is returned when an operation's state precondition fails.
	ErrInvalidState = errors.New("invalid recorder state")
	// ErrVideoNotFinalized is returned by StopAudio while video is still recording.
	ErrVideoNotFinalized = errors.New("video not finalized")
	// ErrOutputLocked is returned when another session is recording to the same output.
	ErrOutputLocked = errors.New("output file in use by another session")
)

// VideoState is the controller's video lifecycle.
type VideoState int

const (
	VideoIdle VideoState = iota
	VideoRecording
	VideoDraining
)

func (s VideoState) String() string {
	switch s {
	case VideoIdle:
		return "idle"
	case VideoRecording:
		return "recording"
	case VideoDraining:
		return "draining"
	default:
		return "unknown"
	}
}

// AudioState is the controller's audio capture lifecycle.
type AudioState int

const (
	AudioIdle AudioState = iota
	AudioCapturing
)

func (s AudioState) String() string {
	switch s {
	case AudioIdle:
		return "idle"
	case AudioCapturing:
		return "capturing"
	default:
		return "unknown"
	}
}

// WorkerState is the encode worker lifecycle.
type WorkerState int32

const (
	WorkerInitializing WorkerState = iota
	WorkerRunning
	WorkerFinalizing
	WorkerDone
)

func (s WorkerState) String() string {
	switch s {
	case WorkerInitializing:
		return "initializing"
	case WorkerRunning:
		return "running"
	case WorkerFinalizing:
		return "finalizing"
	case WorkerDone:
		return "done"
	default:
		return "unknown"
	}
}

// Status is a point-in-time snapshot of a controller.
type Status struct {
	SessionID      string
	OutputFile     string
	Video          VideoState
	Audio          AudioState
	Worker         WorkerState
	FramesCaptured int64
	FramesEncoded  int64
	AudioPath      string
	Err            error

	// ProducerBlocked is true while CaptureFrame waits on an unconsumed frame.
	ProducerBlocked bool
}
