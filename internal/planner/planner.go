// SPDX-License-Identifier: AGPL-3.0-or-later

// Package planner turns a Request plus ResolvedDefaults into a Plan. It is
// a pure transformation: no subprocesses, no filesystem writes, and the
// same inputs always produce the same plan. All validation happens here,
// before any step can exist, and every violation is collected rather than
// failing at the first one.
package planner

import (
	"errors"
	"fmt"

	"github.com/cm-org/cm/internal/knownvalues"
	"github.com/cm-org/cm/internal/types"
)

const defaultConfig = "RelWithDebInfo"

// resolution holds the request fields after defaulting and fuzzy
// canonicalization, following the precedence explicit > recorded build-dir
// value > detected value > built-in default.
type resolution struct {
	source    string
	binary    string
	config    string
	generator string
	linker    string
	group     string
	projects  []string
	runtimes  []string
	targets   []string
}

// Build validates req against the known-value tables and translates it
// into a Plan.
func Build(req types.Request, d types.ResolvedDefaults) (types.Plan, error) {
	set := knownvalues.Default()
	perr := &PlanError{}
	res := resolve(req, d, set, perr)
	if !perr.empty() {
		return types.Plan{}, perr
	}

	plan := types.Plan{Request: req}
	switch req.Op {
	case types.OpConfigure:
		planConfigure(&plan, req, d, res, true)
	case types.OpBuild:
		if needsConfigure(d, res) {
			planConfigure(&plan, req, d, res, false)
		}
		planBuild(&plan, req, res)
	case types.OpLit:
		if err := planLit(&plan, req, d, res); err != nil {
			return types.Plan{}, err
		}
	case types.OpActivate:
		planActivate(&plan, res)
	case types.OpDeactivate:
		planDeactivate(&plan)
	case types.OpClean:
		planClean(&plan, res)
	default:
		perr.ambiguous("unsupported operation %q", req.Op)
		return types.Plan{}, perr
	}
	return plan, nil
}

// resolve applies the precedence order and canonicalizes every
// known-value field, recording all violations in perr.
func resolve(req types.Request, d types.ResolvedDefaults, set *knownvalues.Set, perr *PlanError) resolution {
	res := resolution{
		source: firstNonEmpty(req.Source, d.Source),
		binary: firstNonEmpty(req.Binary, d.Binary),
	}

	switch {
	case req.Config != "":
		res.config = canonical(set, knownvalues.Configs, req.Config, perr)
	case d.BuildDir.BuildType != "":
		res.config = d.BuildDir.BuildType
	default:
		res.config = defaultConfig
	}

	cfg := req.Configure
	switch {
	case cfg.Generator != "":
		res.generator = canonical(set, knownvalues.Generators, cfg.Generator, perr)
	case d.BuildDir.Generator != "":
		res.generator = d.BuildDir.Generator
	case d.HasNinja:
		res.generator = "Ninja"
	default:
		// No ninja on PATH; makefiles are the portable fallback.
		res.generator = "Unix Makefiles"
	}

	if cfg.Linker != "" {
		res.linker = canonical(set, knownvalues.Linkers, cfg.Linker, perr)
	}

	if req.Lit.Group != "" {
		group, err := set.ResolveGroup(req.Lit.Group)
		if err != nil {
			perr.ambiguous("%s", err.Error())
		}
		res.group = group
	}

	res.projects = canonicalAll(set, knownvalues.Projects, cfg.Projects, perr)
	res.runtimes = canonicalAll(set, knownvalues.Runtimes, cfg.Runtimes, perr)
	res.targets = canonicalAll(set, knownvalues.Targets, cfg.Targets, perr)
	return res
}

// canonical fuzzy-resolves one value, converting failures into collected
// plan errors and returning the input unchanged so resolution can
// continue.
func canonical(set *knownvalues.Set, category, value string, perr *PlanError) string {
	resolved, err := set.Resolve(category, value)
	if err == nil {
		return resolved
	}
	var amb *knownvalues.AmbiguousValueError
	if errors.As(err, &amb) {
		perr.ambiguous("%s", err.Error())
	} else {
		perr.invalid(category, value, set.Suggest(category, value, 3))
	}
	return value
}

func canonicalAll(set *knownvalues.Set, category string, values []string, perr *PlanError) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, canonical(set, category, v, perr))
	}
	return out
}

// needsConfigure decides whether a build must be preceded by a configure,
// purely from the recorded build-directory state.
func needsConfigure(d types.ResolvedDefaults, res resolution) bool {
	if !d.BuildDir.Configured {
		return true
	}
	if d.BuildDir.BuildType != "" && d.BuildDir.BuildType != res.config {
		return true
	}
	if d.BuildDir.Generator != "" && d.BuildDir.Generator != res.generator {
		return true
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func cacheVar(name, value string) string {
	return fmt.Sprintf("-D%s=%s", name, value)
}
