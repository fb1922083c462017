// Package services defines shared utilities consumed by the recorder and its
// external tool adapters.
//
// Key responsibilities:
//   - Context helpers that stamp session IDs and stage names for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent history statuses (completed, partial, failed).
//
// Adapters for external tools live in subpackages (ffmpeg). Use these helpers
// when wiring new recorder logic so error handling and observability stay
// uniform across the pipeline.
package services
