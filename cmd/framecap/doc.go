// Package main hosts the framecap CLI entrypoint and command graph.
//
// The Cobra command tree loads configuration once, wires the recorder to the
// ffmpeg encoder, the WAV capture sink and the remux post-processor, and
// renders history, codec and dependency reports as tables. The drawing loop
// in `record` is a synthetic scene; real hosts embed internal/recorder and
// draw into the surface themselves.
package main
