// SPDX-License-Identifier: AGPL-3.0-or-later
package planner

import (
	"fmt"
	"strings"
)

// InvalidValue describes one rejected known-value field.
type InvalidValue struct {
	Category    string
	Value       string
	Suggestions []string
}

func (v InvalidValue) String() string {
	s := fmt.Sprintf("invalid %s value %q", strings.TrimSuffix(v.Category, "s"), v.Value)
	if len(v.Suggestions) > 0 {
		s += fmt.Sprintf(" (did you mean %s?)", strings.Join(v.Suggestions, ", "))
	}
	return s
}

// PlanError aggregates everything wrong with a request. Planning collects
// all violations before failing so the user sees the complete picture; by
// construction no step has been executed when one is returned.
type PlanError struct {
	// Invalid values with nearest-match suggestions.
	Invalid []InvalidValue
	// Ambiguous request fields (abbreviations with several expansions).
	Ambiguous []string
	// Environment states the request cannot be planned against.
	Environment []string
}

func (e *PlanError) Error() string {
	var lines []string
	for _, v := range e.Invalid {
		lines = append(lines, v.String())
	}
	lines = append(lines, e.Ambiguous...)
	lines = append(lines, e.Environment...)
	return strings.Join(lines, "\n")
}

func (e *PlanError) empty() bool {
	return len(e.Invalid) == 0 && len(e.Ambiguous) == 0 && len(e.Environment) == 0
}

func (e *PlanError) invalid(category, value string, suggestions []string) {
	e.Invalid = append(e.Invalid, InvalidValue{Category: category, Value: value, Suggestions: suggestions})
}

func (e *PlanError) ambiguous(format string, args ...any) {
	e.Ambiguous = append(e.Ambiguous, fmt.Sprintf(format, args...))
}

func (e *PlanError) environment(format string, args ...any) {
	e.Environment = append(e.Environment, fmt.Sprintf(format, args...))
}
