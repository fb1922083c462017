package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"framecap/internal/deps"
	"framecap/internal/preflight"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check external tools and directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			statuses := preflight.CheckSystemDeps(cfg)
			for _, line := range dependencyLines(statuses, colorize) {
				fmt.Fprintln(out, line)
			}
			results := preflight.RunAll(cmd.Context(), cfg)
			printPreflight(out, results, colorize)

			if _, missing := deps.Split(statuses); len(missing) > 0 {
				return fmt.Errorf("%d required dependencies missing", len(missing))
			}
			if failed := preflight.Failed(results); len(failed) > 0 {
				return fmt.Errorf("%d preflight checks failed", len(failed))
			}
			return nil
		},
	}
}

func dependencyLines(statuses []deps.Status, colorize bool) []string {
	if len(statuses) == 0 {
		return nil
	}
	available, missing := deps.Split(statuses)
	summaryKind := statusOK
	summary := fmt.Sprintf("%d of %d available", len(available), len(statuses))
	if len(missing) > 0 {
		summaryKind = statusError
	}
	lines := []string{renderStatusLine("Summary", summaryKind, summary, colorize)}
	for _, st := range statuses {
		switch {
		case st.Available():
			lines = append(lines, renderStatusLine(st.Name, statusOK, fmt.Sprintf("Ready (command: %s)", st.Path), colorize))
		case st.Optional:
			lines = append(lines, renderStatusLine(st.Name, statusWarn, st.Problem, colorize))
		default:
			lines = append(lines, renderStatusLine(st.Name, statusError, st.Problem, colorize))
		}
	}
	if len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, st := range missing {
			names = append(names, st.Name)
		}
		lines = append(lines, "Missing dependencies: "+strings.Join(names, ", "))
	}
	return lines
}

func printPreflight(out io.Writer, results []preflight.Result, colorize bool) {
	for _, r := range results {
		kind := statusOK
		if !r.Passed {
			kind = statusError
		}
		fmt.Fprintln(out, renderStatusLine(r.Name, kind, r.Detail, colorize))
	}
}
