// SPDX-License-Identifier: AGPL-3.0-or-later
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cm-org/cm/internal/executor"
	"github.com/cm-org/cm/internal/journal"
	"github.com/cm-org/cm/internal/planner"
	"github.com/cm-org/cm/internal/probe"
	"github.com/cm-org/cm/internal/types"

	"github.com/spf13/cobra"
)

// runRequest is the shared back half of every command: detect defaults,
// plan, then either render (dry run) or execute and journal the result.
func runRequest(cmd *cobra.Command, g *globalFlags, req types.Request) error {
	ctx := cmd.Context()

	defaults := probe.Detect(ctx, probe.ExecRunner{}, probe.Options{
		Source: req.Source,
		Binary: req.Binary,
		Quirks: req.Quirks,
	})
	if req.Op == types.OpLit {
		defaults.LitDB = probe.LoadLitDB(defaults.Binary)
	}

	plan, err := planner.Build(req, defaults)
	if err != nil {
		return err
	}
	for _, note := range plan.Notes {
		slog.Warn(note)
	}

	if g.dryRun {
		out := cmd.OutOrStdout()
		for _, line := range executor.Render(plan) {
			fmt.Fprintln(out, line)
		}
		return nil
	}

	started := time.Now()
	result, err := executor.Run(ctx, plan, executor.Options{
		Force:  g.force,
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	finished := time.Now()

	recordRun(ctx, req.Op, started, finished, result)

	if !result.Succeeded() {
		fmt.Fprintln(cmd.ErrOrStderr(), executor.Summarize(result))
		return &exitCodeError{code: result.ExitCode()}
	}
	return nil
}

// recordRun appends the execution to the journal. Journal trouble never
// fails the command; the build outcome is what matters.
func recordRun(ctx context.Context, op types.Op, started, finished time.Time, result types.ExecutionResult) {
	if errors.Is(ctx.Err(), context.Canceled) {
		ctx = context.Background()
	}
	db, err := journal.Open(ctx, "")
	if err != nil {
		slog.Warn("journal unavailable", "err", err)
		return
	}
	defer db.Close()
	if _, err := db.Record(ctx, op, started, finished, result); err != nil {
		slog.Warn("journal write failed", "err", err)
	}
}
