// Package logs reads the per-run log files written by `framecap record`.
//
// Tail returns the last N lines of a file (negative offset) or everything
// after a byte offset, optionally polling until new lines arrive. Latest picks
// the newest run log in a directory.
package logs
