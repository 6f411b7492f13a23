package normalize

import "sort"

// Expander produces alternative spellings of a name (libpostal's expand_address in production).
type Expander func(name string) []string

// AliasSuggestion proposes an alias row for a registry name that failed to join.
type AliasSuggestion struct {
	OfficialName string
	ZoneName     string
	Variant      string
}

// SuggestAliases expands each unmatched registry name, normalizes the variants and
// proposes an alias whenever a variant lands on a known boundary key.
// boundaryKeys maps normalized boundary names to their display names.
// At most one suggestion is returned per registry name.
func SuggestAliases(unmatched []string, boundaryKeys map[string]string, expand Expander) []AliasSuggestion {
	var suggestions []AliasSuggestion
	for _, name := range unmatched {
		variants := expand(name)
		sort.Strings(variants)
		for _, variant := range variants {
			key := Normalize(variant)
			if key == "" {
				continue
			}
			if zone, ok := boundaryKeys[key]; ok {
				suggestions = append(suggestions, AliasSuggestion{
					OfficialName: name,
					ZoneName:     zone,
					Variant:      variant,
				})
				break
			}
		}
	}
	return suggestions
}
