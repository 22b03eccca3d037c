// SPDX-License-Identifier: AGPL-3.0-or-later

// Package knownvalues answers membership and suggestion queries against
// the static ecosystem tables (valid LLVM projects, runtimes, targets, and
// so on). The tables are produced offline and embedded verbatim; nothing
// here mutates them, so a Set is safe for unsynchronized shared use.
package knownvalues

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	_ "embed"

	"gopkg.in/yaml.v3"
)

// Category keys present in the embedded snapshot.
const (
	Projects   = "projects"
	Runtimes   = "runtimes"
	Targets    = "targets"
	Groups     = "groups"
	Configs    = "configs"
	Generators = "generators"
	Linkers    = "linkers"
)

//go:embed values.yaml
var snapshot []byte

// AmbiguousValueError reports an abbreviation that matches more than one
// valid value in its category.
type AmbiguousValueError struct {
	Category string
	Value    string
	Matches  []string
}

func (e *AmbiguousValueError) Error() string {
	return fmt.Sprintf("ambiguous %s value %q: matches %s",
		strings.TrimSuffix(e.Category, "s"), e.Value, strings.Join(e.Matches, ", "))
}

// Set is an immutable mapping from category key to its ordered valid
// values.
type Set struct {
	ordered map[string][]string
	members map[string]map[string]struct{}
}

var (
	defaultOnce sync.Once
	defaultSet  *Set
)

// Default returns the Set loaded from the embedded snapshot. A snapshot
// that fails to parse is a build defect, so this panics rather than
// returning an error.
func Default() *Set {
	defaultOnce.Do(func() {
		set, err := Parse(snapshot)
		if err != nil {
			panic(fmt.Sprintf("knownvalues: embedded snapshot invalid: %v", err))
		}
		defaultSet = set
	})
	return defaultSet
}

// Parse decodes a snapshot into a Set. Value order within each category is
// preserved as written.
func Parse(data []byte) (*Set, error) {
	ordered := map[string][]string{}
	if err := yaml.Unmarshal(data, &ordered); err != nil {
		return nil, fmt.Errorf("parse values snapshot: %w", err)
	}
	members := make(map[string]map[string]struct{}, len(ordered))
	for cat, vals := range ordered {
		m := make(map[string]struct{}, len(vals))
		for _, v := range vals {
			m[v] = struct{}{}
		}
		members[cat] = m
	}
	return &Set{ordered: ordered, members: members}, nil
}

// mustCategory panics on an unknown category: categories are fixed at
// compile time, so a miss is a programming error, not user input.
func (s *Set) mustCategory(category string) []string {
	vals, ok := s.ordered[category]
	if !ok {
		panic(fmt.Sprintf("knownvalues: unknown category %q", category))
	}
	return vals
}

// Validate reports whether value is a member of category.
func (s *Set) Validate(category, value string) bool {
	s.mustCategory(category)
	_, ok := s.members[category][value]
	return ok
}

// All returns the ordered valid values for category. The returned slice
// is a copy; callers may sort or filter it freely.
func (s *Set) All(category string) []string {
	vals := s.mustCategory(category)
	out := make([]string, len(vals))
	copy(out, vals)
	return out
}

// Resolve maps a possibly abbreviated input to its canonical value: an
// exact match wins, otherwise a case-insensitive prefix match is accepted
// when it is unique. Ambiguous and unknown inputs return an error.
func (s *Set) Resolve(category, input string) (string, error) {
	vals := s.mustCategory(category)
	if _, ok := s.members[category][input]; ok {
		return input, nil
	}
	lower := strings.ToLower(input)
	var matches []string
	for _, v := range vals {
		if strings.HasPrefix(strings.ToLower(v), lower) {
			matches = append(matches, v)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("unknown %s value %q", strings.TrimSuffix(category, "s"), input)
	default:
		sort.Strings(matches)
		return "", &AmbiguousValueError{Category: category, Value: input, Matches: matches}
	}
}

// ResolveGroup resolves a test-group name with the implicit "check-"
// prefix convention: known groups may be abbreviated and have "check-"
// prepended. Unknown names are passed through verbatim for llvm-lit to
// judge, but an abbreviation matching several groups is an error.
func (s *Set) ResolveGroup(input string) (string, error) {
	name := strings.TrimPrefix(input, "check-")
	resolved, err := s.Resolve(Groups, name)
	if err == nil {
		return "check-" + resolved, nil
	}
	var amb *AmbiguousValueError
	if errors.As(err, &amb) {
		return "", err
	}
	return input, nil
}
