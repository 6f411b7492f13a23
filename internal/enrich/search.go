package enrich

import (
	"strings"

	"github.com/serdal-zonemap/internal/normalize"
)

// Search returns the zones whose normalized name contains the normalized query,
// in dataset order. A blank query matches nothing.
func (t *Tables) Search(query string, limit int) []ZoneBoundary {
	key := normalize.Normalize(query)
	if key == "" {
		return nil
	}
	var found []ZoneBoundary
	for _, zone := range t.boundaries {
		if strings.Contains(zone.NormalizedName, key) {
			found = append(found, zone)
			if limit > 0 && len(found) >= limit {
				break
			}
		}
	}
	return found
}

// BoundaryKeys maps each normalized zone name to the first display name carrying it.
func (t *Tables) BoundaryKeys() map[string]string {
	keys := make(map[string]string, len(t.boundaries))
	for _, zone := range t.boundaries {
		if _, ok := keys[zone.NormalizedName]; !ok && zone.NormalizedName != "" {
			keys[zone.NormalizedName] = zone.Name
		}
	}
	return keys
}
