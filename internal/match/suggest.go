package match

import (
	"cmp"
	"slices"
)

// DefaultMinSimilarity is the lowest similarity a name needs to be suggested.
const DefaultMinSimilarity = 0.5

// Suggest returns up to limit names from known that resemble name, best first.
// Ties keep the order of known.
func Suggest(name string, known []string, limit int) []string {
	type scored struct {
		name  string
		score float64
	}

	var candidates []scored

	for _, k := range known {
		if k == name {
			continue
		}

		if s := Similarity(name, k); s >= DefaultMinSimilarity {
			candidates = append(candidates, scored{name: k, score: s})
		}
	}

	slices.SortStableFunc(candidates, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.name
	}

	return out
}
