package normalize

import "sort"

// ReconcileReport summarises how registry names line up with boundary zones.
type ReconcileReport struct {
	BoundaryZones     int               `json:"boundary_zones"`
	RegistryNames     int               `json:"registry_names"`
	Matched           int               `json:"matched"`
	AliasHits         map[string]string `json:"alias_hits"`
	UnmatchedRegistry []string          `json:"unmatched_registry"`
	UnmatchedZones    []string          `json:"unmatched_zones"`
}

// Reconcile compares distinct registry names against boundary names.
// Names are compared by join key; the returned lists hold raw names, sorted.
func Reconcile(boundaryNames, registryNames []string, aliases AliasTable) ReconcileReport {
	zoneKeys := make(map[string]string, len(boundaryNames))
	for _, name := range boundaryNames {
		key := Normalize(name)
		if _, seen := zoneKeys[key]; !seen {
			zoneKeys[key] = name
		}
	}

	report := ReconcileReport{
		BoundaryZones: len(boundaryNames),
		AliasHits:     make(map[string]string),
	}

	usedKeys := make(map[string]bool)
	seenRegistry := make(map[string]bool)
	for _, name := range registryNames {
		if seenRegistry[name] {
			continue
		}
		seenRegistry[name] = true
		report.RegistryNames++

		key, aliased := JoinKey(name, aliases)
		if aliased {
			report.AliasHits[name] = key
		}
		if _, ok := zoneKeys[key]; ok {
			report.Matched++
			usedKeys[key] = true
			continue
		}
		report.UnmatchedRegistry = append(report.UnmatchedRegistry, name)
	}

	for _, name := range boundaryNames {
		if !usedKeys[Normalize(name)] {
			report.UnmatchedZones = append(report.UnmatchedZones, name)
		}
	}

	sort.Strings(report.UnmatchedRegistry)
	sort.Strings(report.UnmatchedZones)
	return report
}
