package ledger

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"katha/internal/core"
)

// CategorySuggestion is a known category with how often it has been used.
type CategorySuggestion struct {
	Category string `json:"category"`
	Uses     int    `json:"uses"`
	// Distance is the edit distance to the query; 0 for prefix or substring matches.
	Distance int `json:"distance"`
}

// SuggestCategories ranks the categories already used in entries against
// query. Categories differing only in case are merged under the first
// spelling seen. An empty query lists every category by use. Otherwise a
// category matches when it contains the query or is within a small edit
// distance of it, so typos such as "dayly savings" still match.
func SuggestCategories(entries []core.LedgerEntry, query string, limit int) []CategorySuggestion {
	byKey := map[string]int{}
	var all []CategorySuggestion
	for _, e := range entries {
		name := strings.TrimSpace(e.Category)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if i, ok := byKey[key]; ok {
			all[i].Uses++
			continue
		}
		byKey[key] = len(all)
		all = append(all, CategorySuggestion{Category: name, Uses: 1})
	}

	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]CategorySuggestion, 0, len(all))
	for _, s := range all {
		if q == "" {
			out = append(out, s)
			continue
		}
		if d, ok := categoryDistance(strings.ToLower(s.Category), q); ok {
			s.Distance = d
			out = append(out, s)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].Uses > out[j].Uses
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// categoryDistance compares q against name from each word start, both to
// the end of the name and to prefixes within one rune of q's length. One
// edit is allowed per three runes of q.
func categoryDistance(name, q string) (int, bool) {
	if strings.Contains(name, q) {
		return 0, true
	}
	r, n := []rune(name), len([]rune(q))
	d := levenshtein.ComputeDistance(name, q)
	for start := range r {
		if start > 0 && r[start-1] != ' ' {
			continue
		}
		rest := r[start:]
		if p := levenshtein.ComputeDistance(string(rest), q); p < d {
			d = p
		}
		for l := n - 1; l <= n+1; l++ {
			if l < 1 || l >= len(rest) {
				continue
			}
			if p := levenshtein.ComputeDistance(string(rest[:l]), q); p < d {
				d = p
			}
		}
	}
	allowed := n / 3
	if allowed < 1 {
		allowed = 1
	}
	return d, d <= allowed
}
