// SPDX-License-Identifier: AGPL-3.0-or-later
package cli

import (
	"fmt"

	"github.com/cm-org/cm/internal/types"

	"github.com/spf13/cobra"
)

func newBuildCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "build [-- build-tool-args...]",
		Aliases: []string{"b"},
		Short:   "Build, configuring first when needed",
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, _, err := g.baseRequest(types.OpBuild)
			if err != nil {
				return err
			}
			positional, trailing := splitDashArgs(cmd, args)
			if len(positional) > 0 {
				return fmt.Errorf("unexpected argument %q (build tool args go after --)", positional[0])
			}
			req.Build = types.BuildRequest{ExtraArgs: trailing}
			return runRequest(cmd, g, req)
		},
	}
}

func newCleanCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove the build directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, _, err := g.baseRequest(types.OpClean)
			if err != nil {
				return err
			}
			return runRequest(cmd, g, req)
		},
	}
}
