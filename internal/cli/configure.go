// SPDX-License-Identifier: AGPL-3.0-or-later
package cli

import (
	"fmt"

	"github.com/cm-org/cm/internal/types"

	"github.com/spf13/cobra"
)

func newConfigureCmd(g *globalFlags) *cobra.Command {
	var (
		prefixPath      []string
		generator       string
		sanitize        bool
		expensiveChecks bool
		linker          string
		projects        []string
		runtimes        []string
		targets         []string
		noNative        bool
		flags           []string
	)
	c := &cobra.Command{
		Use:     "configure [-- cmake-args...]",
		Aliases: []string{"c"},
		Short:   "Configure the build directory with cmake",
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, cfg, err := g.baseRequest(types.OpConfigure)
			if err != nil {
				return err
			}
			positional, trailing := splitDashArgs(cmd, args)
			if len(positional) > 0 {
				return fmt.Errorf("unexpected argument %q (cmake args go after --)", positional[0])
			}
			req.Configure = types.ConfigureRequest{
				PrefixPath:            prefixPath,
				Generator:             firstNonEmpty(generator, cfg.Configure.Generator),
				Sanitize:              sanitize,
				ExpensiveChecks:       expensiveChecks,
				Linker:                firstNonEmpty(linker, cfg.Configure.Linker),
				DisableImplicitNative: noNative,
				Flags:                 flags,
				ExtraArgs:             trailing,
			}
			if req.Configure.PrefixPath == nil {
				req.Configure.PrefixPath = cfg.Configure.PrefixPath
			}
			if cmd.Flags().Changed("projects") {
				req.Configure.Projects = projects
			}
			if cmd.Flags().Changed("runtimes") {
				req.Configure.Runtimes = runtimes
			}
			if cmd.Flags().Changed("targets") {
				req.Configure.Targets = targets
			}
			return runRequest(cmd, g, req)
		},
	}
	c.Flags().StringArrayVar(&prefixPath, "prefix-path", nil, "CMAKE_PREFIX_PATH entry (repeatable)")
	c.Flags().StringVarP(&generator, "generator", "G", "", "CMake generator")
	c.Flags().BoolVar(&sanitize, "sanitize", false, "Enable AddressSanitizer and UBSan")
	c.Flags().BoolVar(&expensiveChecks, "expensive-checks", false, "Enable expensive LLVM checks")
	c.Flags().StringVar(&linker, "linker", "", "Preferred linker (lld|gold|mold|bfd|default)")
	c.Flags().StringSliceVar(&projects, "projects", nil, "LLVM projects to enable")
	c.Flags().StringSliceVar(&runtimes, "runtimes", nil, "LLVM runtimes to enable")
	c.Flags().StringSliceVar(&targets, "targets", nil, "LLVM targets to build")
	c.Flags().BoolVar(&noNative, "no-implicit-native", false, "Do not add the Native target automatically")
	c.Flags().StringArrayVar(&flags, "flag", nil, "Extra C/C++ compiler flag (repeatable)")
	return c
}
