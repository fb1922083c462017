// Package recorder owns a recording session: the offscreen surface, the
// frame slot, the encode worker and the audio capture bracket.
//
// A Controller is driven from the host's render loop. Start opens the
// encoder and spawns the Worker; CaptureFrame hands the current surface to
// the worker, blocking while the previous frame is still being encoded; Stop
// closes the slot and lets the worker drain and finalize in the background.
// Wait joins the worker. StartAudio and StopAudio redirect the audio engine to
// a capture file and merge it into the finished video.
//
// Controllers hold no package-level state, so several may record to
// different outputs at once. Two sessions targeting the same output path are
// rejected by an advisory file lock.
package recorder
