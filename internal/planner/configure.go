// SPDX-License-Identifier: AGPL-3.0-or-later
package planner

import (
	"path/filepath"
	"strings"

	"github.com/cm-org/cm/internal/types"
)

// planConfigure appends the configure step(s). explicit distinguishes a
// user-requested configure from the one implied by a build: only an
// explicit reconfigure of an already-configured directory removes the
// stale cache first, and only that removal makes the plan unsafe.
func planConfigure(plan *types.Plan, req types.Request, d types.ResolvedDefaults, res resolution, explicit bool) {
	if explicit && d.BuildDir.Configured {
		plan.Steps = append(plan.Steps, types.Step{
			Label: "remove stale cmake cache",
			Argv: []string{"rm", "-rf",
				filepath.Join(res.binary, "CMakeCache.txt"),
				filepath.Join(res.binary, "CMakeFiles"),
			},
		})
		plan.Unsafe = true
	}

	cfg := req.Configure
	argv := []string{"cmake", "-S", res.source, "-B", res.binary, "-G", res.generator}
	argv = append(argv, cacheVar("CMAKE_BUILD_TYPE", res.config))
	if len(cfg.PrefixPath) > 0 {
		argv = append(argv, cacheVar("CMAKE_PREFIX_PATH", strings.Join(cfg.PrefixPath, ";")))
	}
	argv = append(argv,
		cacheVar("CMAKE_INSTALL_PREFIX", "dist"),
		cacheVar("CMAKE_EXPORT_COMPILE_COMMANDS", "On"),
	)

	var flags []string
	if d.ColorDiagnostics {
		flags = append(flags, "-fcolor-diagnostics")
	}

	switch d.Quirks {
	case types.QuirkLLVM:
		argv = append(argv,
			cacheVar("LLVM_ENABLE_ASSERTIONS", "On"),
			cacheVar("LLVM_OPTIMIZED_TABLEGEN", "On"),
		)
		if d.HasSphinxBuild {
			argv = append(argv, cacheVar("LLVM_ENABLE_SPHINX", "On"))
		}
		if linker := pickLinker(res.linker, d); linker != "" {
			argv = append(argv, cacheVar("LLVM_USE_LINKER", linker))
		}
		if d.HasCcache {
			argv = append(argv, cacheVar("LLVM_CCACHE_BUILD", "On"))
		}
		if cfg.Sanitize {
			argv = append(argv,
				cacheVar("LLVM_USE_SANITIZER", "Address;Undefined"),
				cacheVar("LLVM_USE_SANITIZE_COVERAGE", "Yes"),
			)
		}
		if cfg.ExpensiveChecks {
			argv = append(argv,
				cacheVar("LLVM_ENABLE_EXPENSIVE_CHECKS", "On"),
				cacheVar("LLVM_ENABLE_WERROR", "Off"),
			)
		}
		argv = append(argv, cacheVar("LLVM_ENABLE_PROJECTS", joinOrDefault(res.projects, "llvm;clang;lld")))
		if res.runtimes != nil {
			argv = append(argv, cacheVar("LLVM_ENABLE_RUNTIMES", strings.Join(res.runtimes, ";")))
		}
		argv = append(argv, cacheVar("LLVM_TARGETS_TO_BUILD", targetList(res.targets, cfg.DisableImplicitNative)))
	default:
		if d.HasCcache {
			argv = append(argv,
				cacheVar("CMAKE_C_COMPILER_LAUNCHER", "ccache"),
				cacheVar("CMAKE_CXX_COMPILER_LAUNCHER", "ccache"),
			)
		}
		if cfg.Sanitize {
			flags = append(flags, "-fsanitize=address,undefined")
		}
	}

	flags = append(flags, cfg.Flags...)
	joined := strings.Join(flags, " ")
	argv = append(argv,
		cacheVar("CMAKE_C_FLAGS", joinFlags(joined, d.EnvCFlags)),
		cacheVar("CMAKE_CXX_FLAGS", joinFlags(joined, d.EnvCXXFlags)),
	)
	argv = append(argv, cfg.ExtraArgs...)

	plan.Steps = append(plan.Steps, types.Step{Label: "configure", Argv: argv})
}

// pickLinker applies the linker preference: an explicit choice wins
// ("default" suppresses selection entirely), otherwise lld then gold are
// used when both the tool and the compiler flag are available.
func pickLinker(explicit string, d types.ResolvedDefaults) string {
	switch explicit {
	case "default":
		return ""
	case "":
	default:
		return explicit
	}
	if d.HasLLD && d.LinkLLD {
		return "lld"
	}
	if d.HasGold && d.LinkGold {
		return "gold"
	}
	return ""
}

// targetList renders LLVM_TARGETS_TO_BUILD: the default set when no
// targets were selected, otherwise the selection plus the implicit Native
// entry.
func targetList(targets []string, disableImplicitNative bool) string {
	if targets == nil {
		return "all"
	}
	list := targets
	if !disableImplicitNative && !contains(list, "Native") && !contains(list, "all") {
		list = append(append([]string{}, list...), "Native")
	}
	return strings.Join(list, ";")
}

func joinOrDefault(values []string, def string) string {
	if values == nil {
		return def
	}
	return strings.Join(values, ";")
}

// joinFlags appends the environment-supplied flags after the computed
// ones, mirroring how CFLAGS/CXXFLAGS are honored by the configure step.
func joinFlags(computed, env string) string {
	switch {
	case computed == "":
		return env
	case env == "":
		return computed
	default:
		return computed + " " + env
	}
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func planBuild(plan *types.Plan, req types.Request, res resolution) {
	argv := append(buildToolArgv(res), req.Build.ExtraArgs...)
	plan.Steps = append(plan.Steps, types.Step{Label: "build", Argv: argv})
}

func buildToolArgv(res resolution) []string {
	return []string{"cmake", "--build", res.binary, "--config", res.config, "--"}
}

func planClean(plan *types.Plan, res resolution) {
	plan.Steps = append(plan.Steps, types.Step{
		Label: "remove build directory",
		Argv:  []string{"rm", "-rf", res.binary},
	})
	plan.Unsafe = true
}
