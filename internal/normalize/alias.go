package normalize

import "sort"

// AliasTable maps a normalized official registry name to the normalized
// boundary-dataset name it should join against. It is read-only once built.
type AliasTable struct {
	aliases map[string]string
}

// AliasEntry is one row of the alias table as read from its source.
type AliasEntry struct {
	Official string
	Zone     string
}

// NewAliasTable builds an alias table from a map. Keys are visited in sorted order,
// so colliding official names always resolve the same way.
func NewAliasTable(entries map[string]string) AliasTable {
	officials := make([]string, 0, len(entries))
	for official := range entries {
		officials = append(officials, official)
	}
	sort.Strings(officials)

	rows := make([]AliasEntry, 0, len(officials))
	for _, official := range officials {
		rows = append(rows, AliasEntry{Official: official, Zone: entries[official]})
	}
	table, _ := NewAliasTableFromEntries(rows)
	return table
}

// NewAliasTableFromEntries builds an alias table in row order, normalizing both sides.
// Entries whose key or target normalizes to an empty string are dropped. When two rows
// normalize to the same key the first one wins; the later rows are returned as dropped.
func NewAliasTableFromEntries(entries []AliasEntry) (AliasTable, []AliasEntry) {
	aliases := make(map[string]string, len(entries))
	var dropped []AliasEntry
	for _, entry := range entries {
		key := Normalize(entry.Official)
		target := Normalize(entry.Zone)
		if key == "" || target == "" {
			continue
		}
		if _, seen := aliases[key]; seen {
			dropped = append(dropped, entry)
			continue
		}
		aliases[key] = target
	}
	return AliasTable{aliases: aliases}, dropped
}

// Lookup returns the boundary name registered for a normalized registry name.
func (a AliasTable) Lookup(normalized string) (string, bool) {
	target, ok := a.aliases[normalized]
	return target, ok
}

// Len reports the number of alias entries.
func (a AliasTable) Len() int {
	return len(a.aliases)
}

// Entries returns a copy of the alias map.
func (a AliasTable) Entries() map[string]string {
	out := make(map[string]string, len(a.aliases))
	for k, v := range a.aliases {
		out[k] = v
	}
	return out
}

// JoinKey resolves a registry name to the key used for joining against boundaries.
// An alias entry wins over the rule-based normalization; aliased reports which path was taken.
func JoinKey(raw string, aliases AliasTable) (key string, aliased bool) {
	normalized := Normalize(raw)
	if target, ok := aliases.Lookup(normalized); ok {
		return target, true
	}
	return normalized, false
}
