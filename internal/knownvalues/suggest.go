// SPDX-License-Identifier: AGPL-3.0-or-later
package knownvalues

import (
	"sort"
	"strings"

	"github.com/agext/levenshtein"
)

// Suggest returns up to n valid values of category ranked by edit
// distance to input, nearest first. Ties break alphabetically so the
// ranking is stable.
func (s *Set) Suggest(category, input string, n int) []string {
	vals := s.mustCategory(category)
	if n <= 0 || len(vals) == 0 {
		return nil
	}
	type ranked struct {
		value string
		dist  int
	}
	lower := strings.ToLower(input)
	scores := make([]ranked, 0, len(vals))
	for _, v := range vals {
		scores = append(scores, ranked{
			value: v,
			dist:  levenshtein.Distance(lower, strings.ToLower(v), nil),
		})
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].dist != scores[j].dist {
			return scores[i].dist < scores[j].dist
		}
		return scores[i].value < scores[j].value
	})
	if n > len(scores) {
		n = len(scores)
	}
	out := make([]string, 0, n)
	for _, r := range scores[:n] {
		out = append(out, r.value)
	}
	return out
}
