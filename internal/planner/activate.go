// SPDX-License-Identifier: AGPL-3.0-or-later
package planner

import (
	"github.com/cm-org/cm/internal/types"

	shellquote "github.com/kballard/go-shellquote"
)

// Shell snippets emitted through printf; the user evals the output, so
// the values are quoted for the shell.
const (
	activateTemplate = `CM_SRC=%s CM_BIN=%s CM_CFG=%s;\n` +
		`export CM_SRC CM_BIN CM_CFG;\n` +
		`PATH="$CM_BIN/bin:$PATH";\n` +
		`alias cm='cm -s "$CM_SRC" -b "$CM_BIN" -c "$CM_CFG"';\n`

	deactivateTemplate = `unalias cm;\n` +
		`[ -z "$CM_BIN" ] || PATH="${PATH/$CM_BIN\/bin:/}";\n` +
		`unset -v CM_SRC CM_BIN CM_CFG;\n`
)

func planActivate(plan *types.Plan, res resolution) {
	plan.Steps = append(plan.Steps, types.Step{
		Label: "print activation script",
		Argv: []string{"printf", activateTemplate,
			shellquote.Join(res.source),
			shellquote.Join(res.binary),
			shellquote.Join(res.config),
		},
	})
}

func planDeactivate(plan *types.Plan) {
	plan.Steps = append(plan.Steps, types.Step{
		Label: "print deactivation script",
		Argv:  []string{"printf", deactivateTemplate},
	})
}
