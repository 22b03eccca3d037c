// SPDX-License-Identifier: AGPL-3.0-or-later

// Package probe computes ResolvedDefaults from the ambient system. It may
// spawn short-lived diagnostic subprocesses (compiler identification, flag
// support checks) but is strictly read-only with respect to the source and
// build trees: the only filesystem access is stat/read, and flag probes
// compile from stdin to the null device. Every probe failure degrades to a
// zero value so detection itself never aborts.
package probe

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/cm-org/cm/internal/types"
)

// Runner abstracts the diagnostic subprocesses so tests can substitute a
// fake without touching the host toolchain.
type Runner interface {
	// Probe runs name with args, feeding input on stdin and discarding
	// all output. found reports whether the executable exists at all; ok
	// reports a zero exit status.
	Probe(ctx context.Context, name, input string, args ...string) (found, ok bool)
	// FirstLine runs name with args and returns the first line of its
	// stdout, or "" when the command cannot be run.
	FirstLine(ctx context.Context, name string, args ...string) string
}

// Options are the explicit user inputs the probe needs to know about;
// empty fields mean "unset, use detection".
type Options struct {
	Source string
	Binary string
	Quirks types.Quirk
}

// Detect computes the ResolvedDefaults snapshot for one invocation.
func Detect(ctx context.Context, r Runner, opts Options) types.ResolvedDefaults {
	var d types.ResolvedDefaults

	d.Quirks = opts.Quirks
	if d.Quirks == "" {
		d.Quirks = detectQuirks(opts.Source)
	}

	d.Source = opts.Source
	if d.Source == "" {
		if d.Quirks == types.QuirkLLVM {
			d.Source = "llvm"
		} else {
			d.Source = "."
		}
	}
	d.Binary = opts.Binary
	if d.Binary == "" {
		d.Binary = "build"
	}

	cc := os.Getenv("CC")
	if cc == "" {
		cc = "cc"
	}
	d.CompilerID = r.FirstLine(ctx, cc, "--version")

	d.HasCcache = hasCommand(ctx, r, "ccache")
	d.HasSphinxBuild = hasCommand(ctx, r, "sphinx-build")
	d.HasLLD = hasCommand(ctx, r, "lld")
	d.HasGold = hasCommand(ctx, r, "gold")
	d.HasNinja = hasCommand(ctx, r, "ninja")

	d.ColorDiagnostics = hasCCFlag(ctx, r, cc, "-fcolor-diagnostics")
	d.LinkLLD = hasCCFlag(ctx, r, cc, "-fuse-ld=lld")
	d.LinkGold = hasCCFlag(ctx, r, cc, "-fuse-ld=gold")

	d.EnvCFlags = os.Getenv("CFLAGS")
	d.EnvCXXFlags = os.Getenv("CXXFLAGS")

	d.BuildDir = readBuildDir(d.Binary)
	return d
}

// hasCommand reports whether name is invocable at all; a non-zero exit
// still counts as present (tools like gold exit non-zero without args).
func hasCommand(ctx context.Context, r Runner, name string) bool {
	found, _ := r.Probe(ctx, name, "")
	return found
}

// hasCCFlag compiles an empty translation unit from stdin to the null
// device with the candidate flag; acceptance means a zero exit.
func hasCCFlag(ctx context.Context, r Runner, cc, flag string) bool {
	found, ok := r.Probe(ctx, cc, "", "-x", "c", "-", "-o", os.DevNull, "-c", flag)
	return found && ok
}

// detectQuirks recognizes an LLVM monorepo checkout: no top-level
// CMakeLists.txt but an llvm/ subdirectory.
func detectQuirks(source string) types.Quirk {
	if source == "" {
		source = "."
	}
	cml, errCML := os.Stat(filepath.Join(source, "CMakeLists.txt"))
	llvm, errLLVM := os.Stat(filepath.Join(source, "llvm"))
	if (errCML != nil || cml.IsDir()) && errLLVM == nil && llvm.IsDir() {
		return types.QuirkLLVM
	}
	return types.QuirkNone
}

// readBuildDir reads the recorded configuration out of an existing build
// directory without modifying it.
func readBuildDir(binary string) types.BuildDirState {
	var state types.BuildDirState
	info, err := os.Stat(binary)
	if err != nil || !info.IsDir() {
		return state
	}
	state.Exists = true

	f, err := os.Open(filepath.Join(binary, "CMakeCache.txt"))
	if err != nil {
		return state
	}
	defer f.Close()
	state.Configured = true

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		key, value, ok := parseCacheEntry(line)
		if !ok {
			continue
		}
		switch key {
		case "CMAKE_GENERATOR":
			state.Generator = value
		case "CMAKE_BUILD_TYPE":
			state.BuildType = value
		}
	}
	return state
}

// parseCacheEntry splits a "KEY:TYPE=VALUE" cache line.
func parseCacheEntry(line string) (key, value string, ok bool) {
	eq := strings.Index(line, "=")
	if eq < 0 {
		return "", "", false
	}
	head := line[:eq]
	value = line[eq+1:]
	if colon := strings.Index(head, ":"); colon >= 0 {
		head = head[:colon]
	}
	if head == "" {
		return "", "", false
	}
	return head, value, true
}
