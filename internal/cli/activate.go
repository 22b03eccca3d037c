// SPDX-License-Identifier: AGPL-3.0-or-later
package cli

import (
	"github.com/cm-org/cm/internal/types"

	"github.com/spf13/cobra"
)

func newActivateCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "activate",
		Aliases: []string{"a"},
		Short:   "Print a shell snippet exporting this workspace",
		Long: `Print a shell snippet that exports CM_SRC, CM_BIN and CM_CFG and
prepends the build tools to PATH. Meant to be eval'd:

  eval "$(cm activate)"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, _, err := g.baseRequest(types.OpActivate)
			if err != nil {
				return err
			}
			return runRequest(cmd, g, req)
		},
	}
}

func newDeactivateCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "deactivate",
		Aliases: []string{"d"},
		Short:   "Print a shell snippet undoing activate",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, _, err := g.baseRequest(types.OpDeactivate)
			if err != nil {
				return err
			}
			return runRequest(cmd, g, req)
		},
	}
}
