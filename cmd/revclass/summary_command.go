package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"revclass/internal/decisions"
	"revclass/internal/report"
)

func newSummaryCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "summary <run-id>",
		Short: "Show the label distribution of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := decisions.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			runID := args[0]
			run, err := store.GetRun(cmd.Context(), runID)
			if err != nil {
				return err
			}
			counts, err := store.Distribution(cmd.Context(), runID)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, map[string]any{
					"run":          run,
					"distribution": counts,
				})
			}

			total := 0
			for _, n := range counts {
				total += n
			}
			rows := make([][]string, 0, len(counts))
			for _, label := range report.Labels() {
				n := counts[label]
				share := "0.0%"
				if total > 0 {
					share = fmt.Sprintf("%.1f%%", float64(n)/float64(total)*100)
				}
				rows = append(rows, []string{string(label), fmt.Sprintf("%d", n), share})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s (%s, mode %s)\n", run.ID, runStatus(run), run.Mode)
			fmt.Fprintln(out, renderTable(out,
				[]string{"Label", "Count", "Share"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight},
			))
			fmt.Fprintf(out, "Records: %d  Rejected: %d\n", run.Records, run.Rejected)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}
