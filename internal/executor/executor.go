// SPDX-License-Identifier: AGPL-3.0-or-later

// Package executor renders and runs Plans. Render is pure and
// side-effect-free; Run drives the steps strictly in order through a
// per-step state machine and stops at the first failure, so every later
// step is recorded as skipped rather than silently dropped.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/cm-org/cm/internal/types"

	shellquote "github.com/kballard/go-shellquote"
)

// ErrUnsafePlan is returned by Run when a plan containing an irreversible
// step is submitted without the explicit opt-in.
var ErrUnsafePlan = errors.New("plan contains an irreversible step; re-run with --force or inspect it with --dry-run")

// Options controls a Run invocation.
type Options struct {
	// Force permits running a plan marked unsafe.
	Force bool
	// Stdout/Stderr, when set, receive each step's output as it is
	// produced in addition to the captured copies in the result.
	Stdout io.Writer
	Stderr io.Writer
}

// Render produces one shell-quoted line per step: environment
// assignments, then the argv. Each line tokenizes back into exactly the
// vector Run would invoke.
func Render(plan types.Plan) []string {
	lines := make([]string, 0, len(plan.Steps))
	for _, step := range plan.Steps {
		words := make([]string, 0, len(step.Env)+len(step.Argv))
		words = append(words, step.Env...)
		words = append(words, step.Argv...)
		lines = append(lines, shellquote.Join(words...))
	}
	return lines
}

// Run executes the plan, fail-fast. The returned result always holds one
// terminal entry per plan step. A context cancellation kills the
// in-flight subprocess and reports that step as failed (interrupted).
func Run(ctx context.Context, plan types.Plan, opts Options) (types.ExecutionResult, error) {
	if plan.Unsafe && !opts.Force {
		return types.ExecutionResult{}, ErrUnsafePlan
	}

	result := types.ExecutionResult{
		Steps:        make([]types.StepResult, len(plan.Steps)),
		FirstFailure: -1,
	}
	for i, step := range plan.Steps {
		result.Steps[i] = types.StepResult{Step: step, State: types.StepPending}
	}

	for i := range result.Steps {
		if result.FirstFailure >= 0 {
			result.Steps[i].State = types.StepSkipped
			continue
		}
		result.Steps[i].State = types.StepRunning
		runStep(ctx, &result.Steps[i], opts)
		if result.Steps[i].State == types.StepFailed {
			result.FirstFailure = i
		}
	}
	return result, nil
}

func runStep(ctx context.Context, sr *types.StepResult, opts Options) {
	step := sr.Step
	start := time.Now()

	cmd := exec.CommandContext(ctx, step.Argv[0], step.Argv[1:]...)
	cmd.Dir = step.Dir
	if len(step.Env) > 0 {
		cmd.Env = append(cmd.Environ(), step.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = tee(&stdout, opts.Stdout)
	cmd.Stderr = tee(&stderr, opts.Stderr)

	err := cmd.Run()
	sr.Duration = time.Since(start)
	sr.Stdout = stdout.Bytes()
	sr.Stderr = stderr.Bytes()

	switch {
	case err == nil:
		sr.State = types.StepSucceeded
		sr.ExitCode = 0
	default:
		sr.State = types.StepFailed
		sr.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			sr.ExitCode = exitErr.ExitCode()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			sr.Err = fmt.Sprintf("interrupted: %v", ctxErr)
		} else {
			sr.Err = err.Error()
		}
	}
}

func tee(capture io.Writer, through io.Writer) io.Writer {
	if through == nil {
		return capture
	}
	return io.MultiWriter(capture, through)
}

// Summarize renders a short per-step report of an execution result, one
// line per step.
func Summarize(result types.ExecutionResult) string {
	var b strings.Builder
	for i, sr := range result.Steps {
		fmt.Fprintf(&b, "%d. [%s] %s", i+1, sr.State, sr.Step.Label)
		if sr.State == types.StepFailed {
			fmt.Fprintf(&b, " (exit %d)", sr.ExitCode)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
