package diagnostics

import (
	"sort"

	"github.com/agext/levenshtein"
)

// MaxSuggestions bounds how many "did you mean" candidates are ever
// surfaced for one undefined name (spec §4.C).
const MaxSuggestions = 3

// Suggest computes up to MaxSuggestions edit-distance-nearest
// candidates to name among the given pool of reachable symbol names,
// keeping only those within max(1, len(name)/3) edits (spec §4.C),
// sorted by ascending distance then name for determinism.
func Suggest(name string, candidates []string) []string {
	type scored struct {
		name string
		dist int
	}
	threshold := len(name) / 3
	if threshold < 1 {
		threshold = 1
	}

	var matches []scored
	for _, c := range candidates {
		if c == name {
			continue
		}
		d := levenshtein.Distance(name, c, nil)
		if d <= threshold {
			matches = append(matches, scored{c, d})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].dist != matches[j].dist {
			return matches[i].dist < matches[j].dist
		}
		return matches[i].name < matches[j].name
	})

	if len(matches) > MaxSuggestions {
		matches = matches[:MaxSuggestions]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.name
	}
	return out
}

// SuggestionHint formats the single best suggestion as a "did you
// mean" help string, or the empty string if there is none (spec §8
// end-to-end scenario 2).
func SuggestionHint(suggestions []string) string {
	if len(suggestions) == 0 {
		return ""
	}
	return "did you mean '" + suggestions[0] + "'?"
}
