// Package encoder defines the video encoder contract used by the recorder.
//
// An Encoder opens a Session per recording; the session accepts raw frames
// of Params.FrameSize bytes and is finalized exactly once with Finish. The
// ffmpeg-backed implementation lives in services/ffmpeg.
package encoder
