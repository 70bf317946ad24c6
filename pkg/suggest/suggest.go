// Package suggest finds the closest known name to a mistyped one.
package suggest

import "strings"

// Matcher computes edit distances reusing one scratch row. It is not safe
// for concurrent use.
type Matcher struct {
	row []int
}

// Distance returns the Levenshtein distance between a and b: the minimum
// number of single-rune insertions, deletions and substitutions turning one
// into the other. It keeps a single row of min(len(a), len(b))+1 cells.
func (m *Matcher) Distance(a, b string) int {
	s1, s2 := []rune(a), []rune(b)
	if len(s1) > len(s2) {
		s1, s2 = s2, s1
	}

	if len(s1) == 0 {
		return len(s2)
	}

	if cap(m.row) < len(s1)+1 {
		m.row = make([]int, len(s1)+1)
	}

	row := m.row[:len(s1)+1]
	for i := range row {
		row[i] = i
	}

	for j, r2 := range s2 {
		diag := row[0]
		row[0] = j + 1

		for i, r1 := range s1 {
			above := row[i+1]

			cost := 1
			if r1 == r2 {
				cost = 0
			}

			row[i+1] = min(above+1, row[i]+1, diag+cost)
			diag = above
		}
	}

	return row[len(s1)]
}

// Closest returns the candidate nearest to name, compared case-insensitively.
// Candidates further than a third of name's length (at least one edit) are
// not considered close. Ties go to the earlier candidate.
func (m *Matcher) Closest(name string, candidates []string) (string, bool) {
	limit := max(1, len([]rune(name))/3)
	target := strings.ToLower(name)

	best, bestDist := "", limit+1

	for _, c := range candidates {
		if c == name {
			continue
		}

		if d := m.Distance(target, strings.ToLower(c)); d < bestDist {
			best, bestDist = c, d
		}
	}

	return best, best != ""
}

// Closest is a convenience wrapper around a fresh Matcher.
func Closest(name string, candidates []string) (string, bool) {
	var m Matcher

	return m.Closest(name, candidates)
}
