// Package preflight provides readiness checks for the directories and
// external tools framecap depends on.
//
// The record command runs RunAll before opening the encoder so a missing
// ffmpeg or an unwritable output directory fails fast. The deps command uses
// CheckSystemDeps and the individual checks to display tool health.
package preflight
