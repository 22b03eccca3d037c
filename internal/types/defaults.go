// SPDX-License-Identifier: AGPL-3.0-or-later
package types

// BuildDirState is what the probe found in an existing build directory.
// All fields come from reading CMakeCache.txt; nothing is ever written.
type BuildDirState struct {
	Exists     bool   // the directory itself exists
	Configured bool   // a readable CMakeCache.txt was found
	Generator  string // CMAKE_GENERATOR cache entry, if recorded
	BuildType  string // CMAKE_BUILD_TYPE cache entry, if recorded
}

// ResolvedDefaults is the read-only snapshot of the ambient environment
// computed once per invocation by the probe and consumed by the planner.
// Probe failures degrade to zero values rather than aborting detection.
type ResolvedDefaults struct {
	// Resolved directory defaults (quirk-dependent for Source).
	Source string
	Binary string
	Quirks Quirk

	// Compiler identification, first line of `$CC --version`; empty when
	// the compiler could not be invoked.
	CompilerID string

	// Helper tools found on PATH.
	HasCcache      bool
	HasSphinxBuild bool
	HasLLD         bool
	HasGold        bool
	HasNinja       bool

	// Compiler flag support.
	ColorDiagnostics bool // -fcolor-diagnostics
	LinkLLD          bool // -fuse-ld=lld
	LinkGold         bool // -fuse-ld=gold

	// Ambient compiler flag overrides from the environment.
	EnvCFlags   string // $CFLAGS
	EnvCXXFlags string // $CXXFLAGS

	BuildDir BuildDirState

	// LitDB is the parsed test ResultDB from the build directory, loaded
	// only when the request needs it; nil otherwise.
	LitDB *LitDB
}

// LitTest is one recorded test outcome from the ResultDB.
type LitTest struct {
	ID       string `json:"testId"`
	Expected bool   `json:"expected"`
}

// LitDB is the recorded test ResultDB (lit.json) of a build directory.
// Err carries the load failure, if any; a failed load is not fatal to
// detection.
type LitDB struct {
	Tests []LitTest
	Err   string
}

// Failing returns the tests whose outcome did not match expectations, in
// recorded order.
func (db *LitDB) Failing() []LitTest {
	if db == nil {
		return nil
	}
	var out []LitTest
	for _, t := range db.Tests {
		if !t.Expected {
			out = append(out, t)
		}
	}
	return out
}
