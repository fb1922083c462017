package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"framecap/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var statusFlags []string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent recording sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			statuses := make([]history.Status, 0, len(statusFlags))
			for _, value := range statusFlags {
				status, ok := history.ParseStatus(value)
				if !ok {
					return fmt.Errorf("unknown status %q", value)
				}
				statuses = append(statuses, status)
			}

			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			sessions, err := store.List(cmd.Context(), limit, statuses...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(sessions) == 0 {
				fmt.Fprintln(out, "No sessions recorded")
				return nil
			}
			fmt.Fprintln(out, renderTable("", historyHeaders(), historyRows(sessions), historyAligns()))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum sessions to show (0 for all)")
	cmd.Flags().StringSliceVarP(&statusFlags, "status", "s", nil, "Filter by status (recording, completed, partial, failed)")
	return cmd
}

func historyHeaders() []string {
	return []string{"Session", "Started", "Status", "Size", "Frames", "Audio", "Output", "Error"}
}

func historyAligns() []columnAlignment {
	return []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft}
}

func historyRows(sessions []*history.Session) [][]string {
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		id := s.ID
		if i := strings.IndexByte(id, '-'); i > 0 {
			id = id[:i]
		}
		frames := strconv.FormatInt(s.FramesEncoded, 10)
		if s.FramesCaptured != s.FramesEncoded {
			frames = fmt.Sprintf("%d/%d", s.FramesEncoded, s.FramesCaptured)
		}
		rows = append(rows, []string{
			id,
			s.StartedAt.Local().Format(time.DateTime),
			stateLabel(string(s.Status)),
			fmt.Sprintf("%dx%d@%s", s.Width, s.Height, strconv.FormatFloat(s.FPS, 'f', -1, 64)),
			frames,
			yesNo(s.AudioMuxed),
			s.OutputPath,
			truncate(s.ErrorMessage, 48),
		})
	}
	return rows
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit-1]) + "…"
}
