package import_pkg

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/serdal-zonemap/internal/enrich"
)

// DefaultNameProperty is the boundary feature property holding the zone's display name.
const DefaultNameProperty = "CNAME_E"

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Type       string                 `json:"type"`
	Geometry   json.RawMessage        `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

// LoadBoundaries reads a GeoJSON FeatureCollection of zone polygons.
// Geometry is kept verbatim; features without a name are kept with an empty name.
func LoadBoundaries(filename, nameProperty string) ([]enrich.ZoneBoundary, error) {
	if nameProperty == "" {
		nameProperty = DefaultNameProperty
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read boundaries %s: %w", filename, err)
	}

	zones, err := ParseBoundaries(data, nameProperty)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	log.Info().Str("file", filename).Int("zones", len(zones)).Msg("loaded zone boundaries")
	return zones, nil
}

// ParseBoundaries decodes GeoJSON bytes into zone boundaries.
func ParseBoundaries(data []byte, nameProperty string) ([]enrich.ZoneBoundary, error) {
	var fc featureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("invalid GeoJSON: %w", err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("expected a FeatureCollection, got %q", fc.Type)
	}

	zones := make([]enrich.ZoneBoundary, 0, len(fc.Features))
	unnamed := 0
	for _, f := range fc.Features {
		name := ""
		if v, ok := f.Properties[nameProperty]; ok && v != nil {
			name = cleanCell(fmt.Sprint(v))
		}
		if name == "" {
			unnamed++
		}
		zones = append(zones, enrich.ZoneBoundary{Name: name, Geometry: f.Geometry})
	}
	if unnamed > 0 {
		log.Warn().Int("features", unnamed).Str("property", nameProperty).Msg("boundary features without a name")
	}
	return zones, nil
}
