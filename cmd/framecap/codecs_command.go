package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newCodecsCommand(ctx *commandContext) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "codecs",
		Short: "List video encoders available to ffmpeg",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			enc := newVideoEncoder(cfg, nil)
			codecs, err := enc.AvailableCodecs(cmd.Context())
			if err != nil {
				return err
			}

			names := make([]string, 0, len(codecs))
			for name := range codecs {
				if filter != "" && !strings.Contains(name, filter) {
					continue
				}
				names = append(names, name)
			}
			sort.Slice(names, func(i, j int) bool { return codecs[names[i]] < codecs[names[j]] })

			out := cmd.OutOrStdout()
			if len(names) == 0 {
				fmt.Fprintln(out, "No matching encoders")
				return nil
			}
			rows := make([][]string, 0, len(names))
			for _, name := range names {
				marker := ""
				if name == cfg.Recording.Codec {
					marker = "*"
				}
				rows = append(rows, []string{strconv.Itoa(codecs[name]), name, marker})
			}
			fmt.Fprintln(out, renderTable("Video encoders", []string{"#", "Codec", "Configured"}, rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft}))
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "Only show codecs containing this text")
	return cmd
}
