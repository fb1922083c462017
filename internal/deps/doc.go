// Package deps reports whether the external binaries framecap shells out to
// are installed.
package deps
