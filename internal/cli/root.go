// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli wires the cobra command tree to the planner and executor.
// Commands only parse flags and assemble a Request; everything after
// that goes through the shared pipeline in run.go.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/cm-org/cm/internal/configloader"
	"github.com/cm-org/cm/internal/planner"
	"github.com/cm-org/cm/internal/types"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// globalFlags are shared by every operation. Empty strings mean "not
// set here"; the fallback chain is flag > environment > config file >
// detection.
type globalFlags struct {
	source  string
	binary  string
	config  string
	quirks  string
	dryRun  bool
	force   bool
	verbose bool
}

// exitCodeError carries a process exit code out of a RunE after the
// failure has already been reported to the user.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func NewRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "cm",
		Short:         "Opinionated front end for CMake workspaces",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if g.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&g.source, "source", "s", "", "CMake source directory")
	root.PersistentFlags().StringVarP(&g.binary, "binary", "b", "", "CMake binary (build) directory")
	root.PersistentFlags().StringVarP(&g.config, "config", "c", "", "Build config (Release, Debug, ...)")
	root.PersistentFlags().StringVar(&g.quirks, "quirks", "", "Ecosystem quirks (none|llvm); autodetected when unset")
	root.PersistentFlags().BoolVarP(&g.dryRun, "dry-run", "n", false, "Print the plan instead of running it")
	root.PersistentFlags().BoolVar(&g.force, "force", false, "Permit plans with irreversible steps")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Verbose output")

	// Accept underscore spellings (--dry_run) for flag names.
	root.SetGlobalNormalizationFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	root.AddCommand(newConfigureCmd(g))
	root.AddCommand(newBuildCmd(g))
	root.AddCommand(newLitCmd(g))
	root.AddCommand(newActivateCmd(g))
	root.AddCommand(newDeactivateCmd(g))
	root.AddCommand(newCleanCmd(g))
	root.AddCommand(newRunsCmd())
	root.AddCommand(newCompletionCmd(root))
	return root
}

func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd()
	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var exit *exitCodeError
	if errors.As(err, &exit) {
		return exit.code
	}

	fmt.Fprintf(os.Stderr, "cm: %v\n", err)
	var perr *planner.PlanError
	if errors.As(err, &perr) {
		return 2
	}
	return 1
}

// baseRequest resolves the global fields against environment variables
// and the config file. Fields still empty afterwards are filled in by
// detection.
func (g *globalFlags) baseRequest(op types.Op) (types.Request, configloader.Config, error) {
	cfg, err := configloader.Load()
	if err != nil {
		return types.Request{}, configloader.Config{}, err
	}

	req := types.Request{
		Op:     op,
		Source: firstNonEmpty(g.source, os.Getenv("CM_SRC"), cfg.Source),
		Binary: firstNonEmpty(g.binary, os.Getenv("CM_BIN"), cfg.Binary),
		Config: firstNonEmpty(g.config, os.Getenv("CM_CFG"), cfg.Config),
	}

	quirks := firstNonEmpty(g.quirks, os.Getenv("CM_QUIRKS"), cfg.Quirks)
	switch quirks {
	case "":
		// Autodetect.
	case string(types.QuirkNone), string(types.QuirkLLVM):
		req.Quirks = types.Quirk(quirks)
	default:
		return types.Request{}, configloader.Config{}, fmt.Errorf("unknown quirks value %q (want none or llvm)", quirks)
	}
	return req, cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// splitDashArgs separates positional arguments from everything after
// the "--" terminator.
func splitDashArgs(cmd *cobra.Command, args []string) (positional, trailing []string) {
	at := cmd.ArgsLenAtDash()
	if at < 0 {
		return args, nil
	}
	return args[:at], args[at:]
}
