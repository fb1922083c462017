// Package audio routes host PCM output either to the default device sink or
// to a capture sink for the duration of a recording.
//
// Router implements Engine: SetOutput diverts every buffer the host plays to
// the given Sink, and RestoreDefault closes that sink and switches back.
// WAVSink writes captured buffers to a WAV file with go-audio/wav.
package audio
