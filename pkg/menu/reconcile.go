package menu

import (
	"slices"
	"strings"
)

// minSharedWords is the word overlap needed for a shared-word match. Two
// short generic keys can reach it by coincidence; that precision cost is
// accepted.
const minSharedWords = 2

// MatchKind records which tier resolved a recipe ingredient.
type MatchKind int

const (
	NoMatch MatchKind = iota
	ExactMatch
	ContainmentMatch
	SharedWordMatch
)

func (k MatchKind) String() string {
	switch k {
	case ExactMatch:
		return "exact"
	case ContainmentMatch:
		return "containment"
	case SharedWordMatch:
		return "shared-word"
	default:
		return "none"
	}
}

// ItemDays maps a shopping list item, as written in the list, to the days
// whose recipes use it, in calendar order.
type ItemDays map[string][]Day

// MatchStats counts how recipe ingredients were resolved against a list.
type MatchStats struct {
	Exact     int `json:"exact"`
	Fuzzy     int `json:"fuzzy"`
	Unmatched int `json:"unmatched"`
}

// Total returns the number of recipe ingredients processed.
func (s MatchStats) Total() int {
	return s.Exact + s.Fuzzy + s.Unmatched
}

// Share returns n as a fraction of Total, or 0 when nothing was processed.
func (s MatchStats) Share(n int) float64 {
	if s.Total() == 0 {
		return 0
	}
	return float64(n) / float64(s.Total())
}

// keyIndex maps normalized keys to the list phrasings that produce them.
// keys keeps insertion order so ties resolve to the earliest list entry.
type keyIndex struct {
	keys    []string
	phrases map[string][]string
}

func indexList(list ShoppingList) keyIndex {
	idx := keyIndex{phrases: make(map[string][]string)}
	for _, g := range list.groups {
		for _, item := range g.Items {
			key := NormalizeIngredient(item)
			if key == "" {
				continue
			}
			if _, ok := idx.phrases[key]; !ok {
				idx.keys = append(idx.keys, key)
			}
			idx.phrases[key] = append(idx.phrases[key], item)
		}
	}
	return idx
}

// MatchKey resolves key against keys with three ranked tiers: equality,
// substring containment either way, then at least two shared words. The
// empty key never matches.
func MatchKey(key string, keys []string) (string, MatchKind) {
	if key == "" {
		return "", NoMatch
	}
	if slices.Contains(keys, key) {
		return key, ExactMatch
	}
	for _, k := range keys {
		if k != "" && (strings.Contains(k, key) || strings.Contains(key, k)) {
			return k, ContainmentMatch
		}
	}
	words := strings.Fields(key)
	for _, k := range keys {
		if sharedWords(words, strings.Fields(k)) >= minSharedWords {
			return k, SharedWordMatch
		}
	}
	return "", NoMatch
}

func sharedWords(a, b []string) int {
	set := make(map[string]bool, len(a))
	for _, w := range a {
		set[w] = true
	}
	n := 0
	for _, w := range b {
		if set[w] {
			n++
			delete(set, w)
		}
	}
	return n
}

// Reconcile links every list item to the days whose recipes use it.
// Ingredients that match nothing are left out; they never become new items.
func Reconcile(list ShoppingList, recipes Recipes) (ItemDays, MatchStats) {
	idx := indexList(list)
	used := make(map[string]map[Day]bool)
	var stats MatchStats

	for _, day := range recipes.Days() {
		for _, ingredient := range recipes[day].Ingredients {
			key, kind := MatchKey(NormalizeIngredient(ingredient), idx.keys)
			switch kind {
			case NoMatch:
				stats.Unmatched++
				continue
			case ExactMatch:
				stats.Exact++
			default:
				stats.Fuzzy++
			}
			for _, phrase := range idx.phrases[key] {
				if used[phrase] == nil {
					used[phrase] = make(map[Day]bool)
				}
				used[phrase][day] = true
			}
		}
	}

	out := make(ItemDays, len(used))
	for phrase, days := range used {
		for _, d := range Week {
			if days[d] {
				out[phrase] = append(out[phrase], d)
			}
		}
	}
	return out, stats
}
