package preflight

import (
	"context"
	"path/filepath"

	"framecap/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the checks a recording needs: writable state, log and
// output directories plus a runnable ffmpeg.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}
	if cfg.Recording.OutputFile != "" {
		results = append(results, CheckDirectoryAccess("Output directory", filepath.Dir(cfg.Recording.OutputFile)))
	}
	results = append(results, CheckFFmpeg(ctx, cfg.FFmpegBinary()))
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
