// Package config loads, normalizes, and validates framecap configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// FRAMECAP_FFMPEG. The Config type centralizes the render settings, audio
// capture format, tool locations and logging knobs so the CLI can build a
// recording session in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
