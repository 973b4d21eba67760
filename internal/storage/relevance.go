package storage

import "strings"

// RelevantMatch decides whether a listing name is genuinely relevant to
// a search term. Substring search alone surfaces false positives
// ("papa" when searching "papaya"); the extra checks keep short and
// multi-word queries honest.
func RelevantMatch(query, name string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	name = strings.ToLower(strings.TrimSpace(name))
	if query == "" || name == "" {
		return false
	}

	if strings.HasPrefix(name, query) {
		return true
	}
	// query starts a word inside the name
	if strings.Contains(" "+name, " "+query) {
		return true
	}

	// multi-word queries: at least 60% of the words must appear
	words := significantWords(query)
	if len(words) > 1 {
		matching := 0
		for _, w := range words {
			if strings.Contains(" "+name, " "+w) || strings.Contains(name+" ", w+" ") {
				matching++
			}
		}
		return float64(matching)/float64(len(words)) >= 0.6
	}

	// short queries already failed the strict checks above
	if len([]rune(query)) < 4 {
		return false
	}

	// long single-word queries: most of the query's characters must be
	// present in the name
	common := 0
	for _, c := range query {
		if strings.ContainsRune(name, c) {
			common++
		}
	}
	return float64(common)/float64(len([]rune(query))) >= 0.8
}

func significantWords(q string) []string {
	var out []string
	for _, w := range strings.Fields(q) {
		if len([]rune(w)) >= 2 {
			out = append(out, w)
		}
	}
	return out
}
