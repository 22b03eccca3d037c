// SPDX-License-Identifier: AGPL-3.0-or-later
package probe

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
)

// ExecRunner is the production Runner backed by os/exec.
type ExecRunner struct{}

// Probe implements Runner. Output is discarded; only spawnability and the
// exit status matter.
func (ExecRunner) Probe(ctx context.Context, name, input string, args ...string) (found, ok bool) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(input)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	err := cmd.Run()
	if err == nil {
		return true, true
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return true, false
	}
	return false, false
}

// FirstLine implements Runner.
func (ExecRunner) FirstLine(ctx context.Context, name string, args ...string) string {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = io.Discard
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	scanner := bufio.NewScanner(bytes.NewReader(out))
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text())
	}
	return ""
}

// FakeRunner is a Runner test double: tools maps executable names to
// whether they exist, flags maps probed compiler flags to acceptance, and
// lines maps executable names to canned first-line output.
type FakeRunner struct {
	Tools map[string]bool
	Flags map[string]bool
	Lines map[string]string

	// Calls records every probed executable name, in order.
	Calls []string
}

func (f *FakeRunner) Probe(ctx context.Context, name, input string, args ...string) (found, ok bool) {
	f.Calls = append(f.Calls, name)
	// A flag probe carries the candidate flag as the final argument.
	if len(args) > 0 {
		flag := args[len(args)-1]
		if accepted, probed := f.Flags[flag]; probed {
			return true, accepted
		}
		return f.Tools[name], false
	}
	return f.Tools[name], f.Tools[name]
}

func (f *FakeRunner) FirstLine(ctx context.Context, name string, args ...string) string {
	f.Calls = append(f.Calls, name)
	return f.Lines[name]
}
