// Package remux merges a captured audio file into a finished recording.
//
// The merge is written to a temporary file next to the video and renamed
// over it only after the muxer succeeds, so a failed merge never damages the
// recording or the raw capture.
package remux
