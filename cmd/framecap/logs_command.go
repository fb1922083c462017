package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"framecap/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var follow bool
	var path string

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the log of the most recent recording",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			target := path
			if target == "" {
				target, err = logs.Latest(cfg.Paths.LogDir)
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			opts := logs.TailOptions{Offset: -1, Limit: lines}
			for {
				result, err := logs.Tail(cmd.Context(), target, opts)
				if err != nil {
					return err
				}
				for _, line := range result.Lines {
					fmt.Fprintln(out, line)
				}
				if !follow {
					return nil
				}
				opts = logs.TailOptions{Offset: result.Offset, Follow: true, Wait: time.Second}
			}
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing lines to print")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new lines until interrupted")
	cmd.Flags().StringVar(&path, "file", "", "Read this log file instead of the newest run log")
	return cmd
}
