// SPDX-License-Identifier: AGPL-3.0-or-later
package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/cm-org/cm/internal/journal"
	"github.com/cm-org/cm/internal/types"

	"github.com/spf13/cobra"
)

func newRunsCmd() *cobra.Command {
	var limit int
	c := &cobra.Command{
		Use:   "runs",
		Short: "List recent executions from the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := journal.Open(cmd.Context(), "")
			if err != nil {
				return err
			}
			defer db.Close()

			runs, err := db.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no recorded runs")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "WHEN\tOP\tRESULT\tSTEPS")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					r.StartedAt.Local().Format(time.DateTime),
					r.Op,
					runVerdict(r),
					stepSummary(r.Steps),
				)
			}
			return w.Flush()
		},
	}
	c.Flags().IntVar(&limit, "limit", 10, "Maximum number of runs to list")
	return c
}

func runVerdict(r journal.Run) string {
	if r.Succeeded {
		return "ok"
	}
	return fmt.Sprintf("failed (exit %d)", r.ExitCode)
}

func stepSummary(steps []journal.StepRecord) string {
	var done, failed, skipped int
	for _, s := range steps {
		switch s.State {
		case types.StepSucceeded:
			done++
		case types.StepFailed:
			failed++
		case types.StepSkipped:
			skipped++
		}
	}
	out := fmt.Sprintf("%d ok", done)
	if failed > 0 {
		out += fmt.Sprintf(", %d failed", failed)
	}
	if skipped > 0 {
		out += fmt.Sprintf(", %d skipped", skipped)
	}
	return out
}
