// Package ffprobe inspects finished recordings with ffprobe.
//
// Inspect decodes the stream list; Result.Check verifies a file against the
// resolution it was recorded at and whether an audio track was merged.
package ffprobe
