// SPDX-License-Identifier: AGPL-3.0-or-later
package planner

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cm-org/cm/internal/types"
)

// suiteRewrite maps a ResultDB test-ID prefix onto a path under the source
// tree. The table mirrors the suite layout of the LLVM monorepo.
type suiteRewrite struct {
	pattern *regexp.Regexp
	replace string
}

var suiteRewrites = []suiteRewrite{
	{regexp.MustCompile(`LLVM :: `), "test/"},
	{regexp.MustCompile(`LLVM-Unit :: .*`), "test/Unit"},
	{regexp.MustCompile(`Clang :: `), "../clang/test/"},
	{regexp.MustCompile(`Clang-Unit :: .*`), "../clang/test/Unit"},
	{regexp.MustCompile(`Flang :: `), "../flang/test/"},
	{regexp.MustCompile(`flang-OldUnit :: .*`), "../flang/test/NonGtestUnit"},
	{regexp.MustCompile(`flang-Unit :: .*`), "../flang/test/Unit"},
	{regexp.MustCompile(`lld :: `), "../lld/test/"},
	{regexp.MustCompile(`lldb :: `), "../lldb/test/"},
	{regexp.MustCompile(`lldb-shell :: .*`), "../lldb/test/Shell"},
	{regexp.MustCompile(`lldb-unit :: .*`), "../lldb/test/Unit"},
	{regexp.MustCompile(`lldb-api :: .*`), "../lldb/test/API"},
	{regexp.MustCompile(`MLIR :: `), "../mlir/test/"},
	{regexp.MustCompile(`MLIR-Unit .*:: `), "../mlir/test/Unit"},
	{regexp.MustCompile(`libomptarget :: [^:]* :: `), "../openmp/libomptarget/test/"},
	{regexp.MustCompile(`ompt-test :: `), "../openmp/libompd/test/"},
	{regexp.MustCompile(`libomp :: `), "../openmp/runtime/test/"},
	{regexp.MustCompile(`OMPT multiplex :: `), "../openmp/tools/multiplex/tests/"},
	{regexp.MustCompile(`libarcher :: `), "../openmp/tools/archer/tests/"},
	{regexp.MustCompile(`Polly :: `), "../polly/test/"},
	{regexp.MustCompile(`Polly-Unit :: .*`), "../polly/test/Unit"},
	{regexp.MustCompile(`Polly - isl unit tests :: .*`), "../polly/test/UnitIsl"},
}

// testPath maps a ResultDB test ID onto a runnable path under source.
// Unrecognized IDs are assumed to already be literal paths; llvm-lit will
// complain about them itself if not.
func testPath(source, testID string) string {
	for _, rw := range suiteRewrites {
		if rw.pattern.MatchString(testID) {
			return filepath.Join(source, rw.pattern.ReplaceAllString(testID, rw.replace))
		}
	}
	return testID
}

func litJSONPath(binary string) string {
	return filepath.Join(binary, "lit.json")
}

// litOptsEnv asks llvm-lit to rewrite the ResultDB on completion.
func litOptsEnv(binary string) string {
	return "LIT_OPTS=--resultdb-output " + litJSONPath(binary)
}

// planLit translates a test request into llvm-lit (or build tool)
// invocations. With no explicit selection it reruns the tests recorded as
// failing in the ResultDB; an empty failing set yields an empty plan.
func planLit(plan *types.Plan, req types.Request, d types.ResolvedDefaults, res resolution) error {
	lit := req.Lit
	updateResultDB := true
	if lit.UpdateResultDB != nil {
		updateResultDB = *lit.UpdateResultDB
	} else if lit.First || len(lit.Tests) > 0 {
		// Focusing on a subset must not drop the remaining failures
		// from the ResultDB.
		updateResultDB = false
	}

	if lit.XfailExport {
		if d.LitDB == nil || d.LitDB.Err != "" {
			perr := &PlanError{}
			perr.environment("cannot export XFAIL list: unreadable ResultDB %s", litJSONPath(res.binary))
			return perr
		}
		var ids []string
		for _, t := range d.LitDB.Failing() {
			ids = append(ids, t.ID)
		}
		plan.Steps = append(plan.Steps, types.Step{
			Label: "export xfail list",
			Argv:  []string{"printf", `%s\n`, fmt.Sprintf("export LIT_XFAIL=%q", strings.Join(ids, ";"))},
		})
		return nil
	}

	if lit.Group != "" {
		argv := append(buildToolArgv(res), res.group)
		step := types.Step{Label: "run test group", Argv: argv}
		if updateResultDB {
			step.Env = []string{litOptsEnv(res.binary)}
		}
		plan.Steps = append(plan.Steps, step)
		return nil
	}

	var paths []string
	if len(lit.Tests) > 0 {
		paths = append(paths, lit.Tests...)
	} else if d.LitDB != nil && d.LitDB.Err != "" {
		plan.Notes = append(plan.Notes, fmt.Sprintf("ignoring %s: %s", litJSONPath(res.binary), d.LitDB.Err))
	} else {
		for _, t := range d.LitDB.Failing() {
			paths = append(paths, testPath(res.source, t.ID))
			if lit.First {
				break
			}
		}
	}
	paths = append(paths, lit.ExtraArgs...)
	if len(paths) == 0 {
		return nil
	}

	if lit.PrintOnly {
		plan.Steps = append(plan.Steps, types.Step{
			Label: "print selected tests",
			Argv:  append([]string{"printf", `%s\n`}, paths...),
		})
		return nil
	}

	step := types.Step{Label: "run tests"}
	step.Argv = []string{filepath.Join(res.binary, "bin", "llvm-lit")}
	if lit.Verbose {
		step.Env = append(step.Env, "FILECHECK_OPTS=--dump-input always")
		step.Argv = append(step.Argv, "-a")
	}
	step.Argv = append(step.Argv, paths...)
	if updateResultDB {
		step.Env = append(step.Env, litOptsEnv(res.binary))
	}
	plan.Steps = append(plan.Steps, step)
	return nil
}
