// SPDX-License-Identifier: AGPL-3.0-or-later
package cli

import (
	"github.com/cm-org/cm/internal/types"

	"github.com/spf13/cobra"
)

func newLitCmd(g *globalFlags) *cobra.Command {
	var (
		printOnly   bool
		xfailExport bool
		updateDB    bool
		group       string
		first       bool
	)
	c := &cobra.Command{
		Use:     "lit [tests...] [-- lit-args...]",
		Aliases: []string{"l", "test"},
		Short:   "Run lit tests, defaulting to the last recorded failures",
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, cfg, err := g.baseRequest(types.OpLit)
			if err != nil {
				return err
			}
			tests, trailing := splitDashArgs(cmd, args)
			req.Lit = types.LitRequest{
				PrintOnly:      printOnly,
				XfailExport:    xfailExport,
				UpdateResultDB: cfg.Lit.UpdateResultDB,
				Group:          group,
				First:          first,
				Verbose:        g.verbose,
				Tests:          tests,
				ExtraArgs:      trailing,
			}
			if cmd.Flags().Changed("update-resultdb") {
				req.Lit.UpdateResultDB = &updateDB
			}
			return runRequest(cmd, g, req)
		},
	}
	c.Flags().BoolVarP(&printOnly, "print", "p", false, "Print the selected test IDs instead of running")
	c.Flags().BoolVar(&xfailExport, "xfail-export", false, "Emit a LIT_XFAIL export for the recorded failures")
	c.Flags().BoolVar(&updateDB, "update-resultdb", false, "Record results into lit.json (default: on for full runs)")
	c.Flags().StringVarP(&group, "group", "g", "", "Run a test group (check-<group> build target)")
	c.Flags().BoolVarP(&first, "first", "1", false, "Run only the first recorded failure")
	return c
}
