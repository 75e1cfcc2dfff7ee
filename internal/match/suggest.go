// Package match ranks candidate names by similarity to produce
// "Did you mean" hints for unknown types and unexpected properties.
package match

import (
	"cmp"
	"slices"
	"strings"
)

// MinScore is the similarity below which a candidate is not suggested.
const MinScore = 0.6

// MaxSuggestions caps the number of names returned by Suggest.
const MaxSuggestions = 3

// Levenshtein returns the edit distance between a and b, counted in runes.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}

	row := make([]int, len(ra)+1)
	for i := range row {
		row[i] = i
	}

	for j := 1; j <= len(rb); j++ {
		diag := row[0]
		row[0] = j

		for i := 1; i <= len(ra); i++ {
			up := row[i]

			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}

			row[i] = min(up+1, row[i-1]+1, diag+cost)
			diag = up
		}
	}

	return row[len(ra)]
}

// Similarity is 1 for identical names and 0 for names sharing nothing.
// Names are compared case-insensitively with separators removed, so
// "first_name" and "FirstName" are identical.
func Similarity(a, b string) float64 {
	na, nb := normalize(a), normalize(b)

	longest := max(len([]rune(na)), len([]rune(nb)))
	if longest == 0 {
		return 1
	}

	return 1 - float64(Levenshtein(na, nb))/float64(longest)
}

// Candidate is a scored name.
type Candidate struct {
	Name  string
	Score float64
}

// Rank scores every candidate against name, best first.
// Ties keep the input order.
func Rank(name string, candidates []string) []Candidate {
	ranked := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, Candidate{Name: c, Score: Similarity(name, c)})
	}

	slices.SortStableFunc(ranked, func(x, y Candidate) int {
		return cmp.Compare(y.Score, x.Score)
	})

	return ranked
}

// Suggest returns up to MaxSuggestions candidates similar to name.
// The name itself is never suggested.
func Suggest(name string, candidates []string) []string {
	var out []string

	for _, c := range Rank(name, candidates) {
		if c.Score < MinScore || len(out) == MaxSuggestions {
			break
		}

		if c.Name == name {
			continue
		}

		out = append(out, c.Name)
	}

	return out
}

// Hint renders suggestions as a remediation hint, or "" when there are none.
func Hint(suggestions []string) string {
	if len(suggestions) == 0 {
		return ""
	}

	quoted := make([]string, len(suggestions))
	for i, s := range suggestions {
		quoted[i] = `"` + s + `"`
	}

	return "Did you mean " + strings.Join(quoted, " or ") + "?"
}

func normalize(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range strings.ToLower(s) {
		switch r {
		case '_', '-', ' ':
			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}
