// SPDX-License-Identifier: AGPL-3.0-or-later
package types

import "time"

// StepState is the execution state of a single plan step.
type StepState string

const (
	StepPending   StepState = "PENDING"
	StepRunning   StepState = "RUNNING"
	StepSucceeded StepState = "SUCCEEDED"
	StepFailed    StepState = "FAILED"
	StepSkipped   StepState = "SKIPPED"
)

// Terminal reports whether the state is final.
func (s StepState) Terminal() bool {
	switch s {
	case StepSucceeded, StepFailed, StepSkipped:
		return true
	default:
		return false
	}
}

// StepResult is the recorded outcome of one step. Every step of an
// executed plan has exactly one StepResult in a terminal state, including
// the ones that were never attempted.
type StepResult struct {
	Step     Step          `json:"step"`
	State    StepState     `json:"state"`
	ExitCode int           `json:"exit_code"` // -1 when the process could not be launched
	Err      string        `json:"err,omitempty"`
	Stdout   []byte        `json:"stdout,omitempty"`
	Stderr   []byte        `json:"stderr,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// ExecutionResult is the outcome of running a Plan: one entry per step,
// in plan order, plus the index of the first failure.
type ExecutionResult struct {
	Steps []StepResult `json:"steps"`
	// FirstFailure is the index of the failed step, or -1 on success.
	FirstFailure int `json:"first_failure"`
}

// Succeeded reports whether every step succeeded.
func (r ExecutionResult) Succeeded() bool {
	return r.FirstFailure < 0
}

// ExitCode maps the result to a process exit code: 0 on success,
// otherwise the failing step's exit code (or 1 when the step never
// produced one, e.g. launch failure or interruption).
func (r ExecutionResult) ExitCode() int {
	if r.Succeeded() {
		return 0
	}
	code := r.Steps[r.FirstFailure].ExitCode
	if code <= 0 {
		return 1
	}
	return code
}
