// SPDX-License-Identifier: AGPL-3.0-or-later

// Package types holds the value types shared between the planner, the
// executor and the CLI adapter. Everything here is plain data: requests
// and plans are built once and never mutated afterwards.
package types

// Op identifies the requested operation.
type Op string

const (
	OpConfigure  Op = "configure"
	OpBuild      Op = "build"
	OpLit        Op = "lit"
	OpActivate   Op = "activate"
	OpDeactivate Op = "deactivate"
	OpClean      Op = "clean"
)

// Quirk selects ecosystem-specific plan rewrites.
type Quirk string

const (
	QuirkNone Quirk = "none"
	QuirkLLVM Quirk = "llvm"
)

// Request is a fully parsed user request. Exactly one of the per-operation
// field structs is consulted, matching Op; the globals apply to every
// operation. An empty string means "not set", to be resolved against
// ResolvedDefaults by the planner.
type Request struct {
	Op Op

	// Globals, shared by all operations.
	Source string // CMake source directory
	Binary string // CMake binary (build) directory
	Config string // CMake build config (Release, Debug, ...)
	Quirks Quirk  // "" = autodetect

	Configure ConfigureRequest
	Build     BuildRequest
	Lit       LitRequest
}

// ConfigureRequest carries the configure-specific fields.
type ConfigureRequest struct {
	PrefixPath      []string // CMAKE_PREFIX_PATH entries
	Generator       string   // "" = default
	Sanitize        bool     // enable ASan and UBSan
	ExpensiveChecks bool     // LLVM_ENABLE_EXPENSIVE_CHECKS
	Linker          string   // preferred linker; "" = automatic, "default" = system

	// LLVM component selection. Nil means "use the default set".
	Projects []string
	Runtimes []string
	Targets  []string
	// Suppress the implicit "Native" entry added when Targets is set.
	DisableImplicitNative bool

	Flags     []string // extra C/C++ compiler flags
	ExtraArgs []string // trailing arguments forwarded to cmake
}

// BuildRequest carries the build-specific fields.
type BuildRequest struct {
	ExtraArgs []string // trailing arguments forwarded to the build tool
}

// LitRequest carries the test-runner fields.
type LitRequest struct {
	PrintOnly   bool
	XfailExport bool
	// Tri-state: nil means "true unless a subset is selected".
	UpdateResultDB *bool
	Group          string
	First          bool
	Verbose        bool
	Tests          []string
	ExtraArgs      []string // forwarded to llvm-lit after --
}
