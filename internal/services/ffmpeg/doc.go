// Package ffmpeg drives the ffmpeg command-line tool as the recorder's video
// encoder and as the audio/video muxer.
//
// The Encoder streams raw frames into ffmpeg over stdin so no intermediate
// files are written; the Muxer copies the finished video stream and encodes
// the captured audio into a new container.
package ffmpeg
