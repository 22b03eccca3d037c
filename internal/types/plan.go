// SPDX-License-Identifier: AGPL-3.0-or-later
package types

// Step is one external command invocation: an argv vector, a working
// directory and extra environment entries. Steps are immutable once built.
type Step struct {
	// Label is a short human-readable description used when rendering
	// or reporting ("configure", "build", ...).
	Label string `json:"label"`
	// Argv is the full argument vector; Argv[0] is the executable.
	Argv []string `json:"argv"`
	// Dir is the working directory; empty inherits the caller's.
	Dir string `json:"dir,omitempty"`
	// Env holds additional KEY=VALUE pairs appended to the inherited
	// environment.
	Env []string `json:"env,omitempty"`
}

// Plan is an ordered sequence of Steps plus the request it was derived
// from. Constructing a Plan never executes or mutates anything; it is a
// plain value safe to render, log or diff, and is handed to the executor
// exactly once.
type Plan struct {
	Request Request `json:"request"`
	Steps   []Step  `json:"steps"`
	// Unsafe marks plans containing an irreversible step (directory or
	// cache removal). The adapter must opt in explicitly before such a
	// plan is run for real.
	Unsafe bool `json:"unsafe,omitempty"`
	// Notes are non-fatal diagnostics gathered while planning (for
	// example an unreadable ResultDB); the adapter decides how to
	// surface them.
	Notes []string `json:"notes,omitempty"`
}
