//go:build !windows

// SPDX-License-Identifier: AGPL-3.0-or-later
package e2e

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

var cmBinary string

func TestMain(m *testing.M) {
	bin, err := buildCmBinary()
	if err != nil {
		panic(err)
	}
	cmBinary = bin
	code := m.Run()
	_ = os.RemoveAll(filepath.Dir(cmBinary))
	os.Exit(code)
}

func buildCmBinary() (string, error) {
	root := repoRoot()
	binDir, err := os.MkdirTemp("", "cm-bin")
	if err != nil {
		return "", err
	}
	binPath := filepath.Join(binDir, "cm-e2e")
	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/cm")
	cmd.Dir = root
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", &buildError{err: err, output: string(out)}
	}
	return binPath, nil
}

type buildError struct {
	err    error
	output string
}

func (e *buildError) Error() string {
	return e.err.Error() + "\n" + e.output
}

func repoRoot() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..")
}

// setupWorkspace creates a minimal CMake source tree and returns the
// source dir, a build dir path and an isolated environment.
func setupWorkspace(t *testing.T) (src, bin string, env []string) {
	t.Helper()
	src = t.TempDir()
	if err := os.WriteFile(filepath.Join(src, "CMakeLists.txt"), []byte("project(demo)\n"), 0o644); err != nil {
		t.Fatalf("write CMakeLists.txt: %v", err)
	}
	bin = filepath.Join(t.TempDir(), "build")
	env = append(os.Environ(),
		"CM_CONFIG_PATH=",
		"CM_DATA_DIR="+t.TempDir(),
		"CM_SRC=", "CM_BIN=", "CM_CFG=", "CM_QUIRKS=",
		"CC=cc", "CFLAGS=", "CXXFLAGS=",
	)
	return src, bin, env
}

func runCm(t *testing.T, env []string, args ...string) string {
	t.Helper()
	out, err := runCmErr(env, args...)
	if err != nil {
		t.Fatalf("cm %s failed: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func runCmErr(env []string, args ...string) (string, error) {
	cmd := exec.Command(cmBinary, args...)
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func TestDryRunConfigureAndBuild(t *testing.T) {
	src, bin, env := setupWorkspace(t)

	out := runCm(t, env, "configure", "-n", "-s", src, "-b", bin)
	if !strings.Contains(out, "cmake") || !strings.Contains(out, "-B") {
		t.Fatalf("configure dry run missing cmake invocation:\n%s", out)
	}
	if _, err := os.Stat(bin); !os.IsNotExist(err) {
		t.Fatalf("dry run created the build directory")
	}

	// Unconfigured build dir: build plans configure first.
	out = runCm(t, env, "build", "-n", "-s", src, "-b", bin, "--", "-j4")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected configure+build lines, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[1], "--build") || !strings.Contains(lines[1], "-j4") {
		t.Fatalf("build line malformed: %s", lines[1])
	}
}

func TestDryRunIsDeterministic(t *testing.T) {
	src, bin, env := setupWorkspace(t)

	first := runCm(t, env, "build", "-n", "-s", src, "-b", bin)
	second := runCm(t, env, "build", "-n", "-s", src, "-b", bin)
	if first != second {
		t.Fatalf("identical requests rendered differently:\n%s\nvs\n%s", first, second)
	}
}

func TestCleanRefusedWithoutForce(t *testing.T) {
	src, bin, env := setupWorkspace(t)
	if err := os.MkdirAll(bin, 0o755); err != nil {
		t.Fatal(err)
	}

	out, err := runCmErr(env, "clean", "-s", src, "-b", bin)
	if err == nil {
		t.Fatalf("clean without --force succeeded:\n%s", out)
	}
	if !strings.Contains(out, "--force") {
		t.Fatalf("refusal does not mention --force:\n%s", out)
	}
	if _, statErr := os.Stat(bin); statErr != nil {
		t.Fatalf("build directory was removed despite refusal: %v", statErr)
	}

	runCm(t, env, "clean", "--force", "-s", src, "-b", bin)
	if _, statErr := os.Stat(bin); !os.IsNotExist(statErr) {
		t.Fatalf("clean --force left the build directory in place")
	}
}

func TestActivateSnippet(t *testing.T) {
	src, bin, env := setupWorkspace(t)

	out := runCm(t, env, "activate", "-s", src, "-b", bin)
	for _, want := range []string{"CM_SRC", "CM_BIN", "PATH"} {
		if !strings.Contains(out, want) {
			t.Fatalf("activate snippet missing %s:\n%s", want, out)
		}
	}

	out = runCm(t, env, "deactivate", "-s", src, "-b", bin)
	if !strings.Contains(out, "unset") {
		t.Fatalf("deactivate snippet missing unset:\n%s", out)
	}
}

func TestRunsListsJournaledExecutions(t *testing.T) {
	src, bin, env := setupWorkspace(t)

	out := runCm(t, env, "runs")
	if !strings.Contains(out, "no recorded runs") {
		t.Fatalf("fresh journal not empty:\n%s", out)
	}

	// activate is a real (printf) execution, so it lands in the journal.
	runCm(t, env, "activate", "-s", src, "-b", bin)

	out = runCm(t, env, "runs")
	if !strings.Contains(out, "activate") || !strings.Contains(out, "ok") {
		t.Fatalf("journal listing missing recorded run:\n%s", out)
	}
}

func TestInvalidValueExitCode(t *testing.T) {
	src, bin, env := setupWorkspace(t)

	out, err := runCmErr(env, "configure", "-n", "-s", src, "-b", bin, "--quirks", "llvm", "--projects", "clagn")
	if err == nil {
		t.Fatalf("misspelled project accepted:\n%s", out)
	}
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("unexpected error type: %v", err)
	}
	if code := exitErr.ExitCode(); code != 2 {
		t.Fatalf("exit code = %d, want 2\n%s", code, out)
	}
	if !strings.Contains(out, "clang") {
		t.Fatalf("error lacks a suggestion:\n%s", out)
	}
}

func TestCompletionGeneratesScript(t *testing.T) {
	_, _, env := setupWorkspace(t)

	out := runCm(t, env, "completion", "bash")
	if !strings.Contains(out, "cm") {
		t.Fatalf("completion script does not mention the binary:\n%s", out)
	}
}
