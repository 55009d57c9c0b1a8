package game

import "strings"

// matchName resolves a player-typed target against the candidate names the
// world knows an entity by. An exact name wins outright; otherwise a unique
// prefix matches, and for items and NPCs a unique word-level prefix does too
// ("rat" finds "giant rat"). Matching is case-insensitive. The canonical name
// is returned alongside the index so callers can echo what was actually hit.
// Ambiguous or missing targets report !ok.
func matchName(target string, names []string, matchWords bool) (int, string, bool) {
	want := strings.ToLower(strings.TrimSpace(target))
	if want == "" {
		return -1, "", false
	}
	for i, name := range names {
		if strings.ToLower(strings.TrimSpace(name)) == want {
			return i, name, true
		}
	}
	found := -1
	for i, name := range names {
		if !nameMatches(name, want, matchWords) {
			continue
		}
		if found != -1 {
			return -1, "", false
		}
		found = i
	}
	if found == -1 {
		return -1, "", false
	}
	return found, names[found], true
}

func nameMatches(name, want string, matchWords bool) bool {
	candidate := strings.ToLower(strings.TrimSpace(name))
	if strings.HasPrefix(candidate, want) {
		return true
	}
	if !matchWords {
		return false
	}
	for _, word := range strings.Fields(candidate) {
		if strings.HasPrefix(word, want) {
			return true
		}
	}
	return false
}
