package import_pkg

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/serdal-zonemap/internal/enrich"
)

// Paths locates the static datasets.
type Paths struct {
	Boundaries      string `json:"boundaries"`
	NameProperty    string `json:"name_property"`
	Recommendations string `json:"recommendations"`
	Patterns        string `json:"patterns"`
	Aliases         string `json:"aliases"`
}

// RecommendationSource supplies recommendation rows from somewhere other than the CSV file.
type RecommendationSource func() ([]enrich.Recommendation, error)

// LoadTables loads every dataset and builds the immutable tables. When source is nil
// the recommendations are read from Paths.Recommendations.
func LoadTables(paths Paths, source RecommendationSource) (*enrich.Tables, error) {
	boundaries, err := LoadBoundaries(paths.Boundaries, paths.NameProperty)
	if err != nil {
		return nil, err
	}

	var records []enrich.Recommendation
	if source != nil {
		records, err = source()
	} else {
		records, err = LoadRecommendations(paths.Recommendations)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load recommendations: %w", err)
	}

	buckets, err := LoadPatternBuckets(paths.Patterns)
	if err != nil {
		return nil, err
	}

	aliases, err := LoadAliases(paths.Aliases)
	if err != nil {
		return nil, err
	}

	tables := enrich.NewTables(boundaries, records, buckets, aliases)
	log.Info().
		Str("version", tables.Version()).
		Int("zones", len(tables.Boundaries())).
		Int("recommendations", len(tables.Records())).
		Msg("static tables ready")
	return tables, nil
}
