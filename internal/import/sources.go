package import_pkg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/serdal-zonemap/internal/enrich"
	"github.com/serdal-zonemap/internal/normalize"
)

// Recommendation table columns: area,type,rooms,quarter,pattern_id,Insight_Investor,
// Recommendation_Investor,Insight_EndUser,Recommendation_EndUser
var recommendationColumns = []string{
	"area", "type", "rooms", "quarter", "pattern_id",
	"Insight_Investor", "Recommendation_Investor",
	"Insight_EndUser", "Recommendation_EndUser",
}

// Pattern bucket columns: PatternID,Bucket
var patternColumns = []string{"PatternID", "Bucket"}

// Alias table columns: Official_DLD_Name_Match,GeoJSON_Zone_Name
var aliasColumns = []string{"Official_DLD_Name_Match", "GeoJSON_Zone_Name"}

func mapRecommendation(row csvRow) (*enrich.Recommendation, error) {
	rec := &enrich.Recommendation{
		Area:                   row.Get("area"),
		UnitType:               row.Get("type"),
		Rooms:                  enrich.CanonicalRooms(row.Get("rooms")),
		Quarter:                row.Get("quarter"),
		PatternID:              enrich.CanonicalPatternID(row.Get("pattern_id")),
		InsightInvestor:        row.Get("Insight_Investor"),
		RecommendationInvestor: row.Get("Recommendation_Investor"),
		InsightEndUser:         row.Get("Insight_EndUser"),
		RecommendationEndUser:  row.Get("Recommendation_EndUser"),
	}
	if rec.Area == "" && rec.UnitType == "" && rec.Quarter == "" {
		return nil, fmt.Errorf("empty recommendation row")
	}
	return rec, nil
}

// LoadRecommendations reads the recommendation table, preserving row order.
// Blank rows are skipped; they would never match a filter anyway.
func LoadRecommendations(filename string) ([]enrich.Recommendation, error) {
	var records []enrich.Recommendation
	skipped := 0
	_, err := readCSV(filename, recommendationColumns, func(row csvRow) error {
		rec, err := mapRecommendation(row)
		if err != nil {
			skipped++
			return nil
		}
		records = append(records, *rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("file", filename).Int("rows", len(records)).Int("skipped", skipped).Msg("loaded recommendations")
	return records, nil
}

// LoadPatternBuckets reads the PatternID → Bucket table. The first row with a non-blank
// bucket wins for each pattern.
func LoadPatternBuckets(filename string) (enrich.PatternBuckets, error) {
	entries := make(map[string]string)
	duplicates, blank := 0, 0
	_, err := readCSV(filename, patternColumns, func(row csvRow) error {
		id := enrich.CanonicalPatternID(row.Get("PatternID"))
		bucket := strings.TrimSpace(row.Get("Bucket"))
		if id == "" || bucket == "" {
			blank++
			return nil
		}
		if _, ok := entries[id]; ok {
			duplicates++
			return nil
		}
		entries[id] = bucket
		return nil
	})
	if err != nil {
		return enrich.PatternBuckets{}, err
	}
	if duplicates > 0 {
		log.Warn().Str("file", filename).Int("duplicates", duplicates).Msg("duplicate pattern ids ignored")
	}
	if blank > 0 {
		log.Warn().Str("file", filename).Int("rows", blank).Msg("pattern rows without an id or bucket ignored")
	}
	buckets := enrich.NewPatternBuckets(entries)
	log.Info().Str("file", filename).Int("patterns", buckets.Len()).Msg("loaded pattern buckets")
	return buckets, nil
}

// LoadAliases reads the alias table; the first row for a normalized official name wins.
// An empty filename or a missing file yields an
// empty table, since the rule-based normalizer works without one.
func LoadAliases(filename string) (normalize.AliasTable, error) {
	if filename == "" {
		return normalize.NewAliasTable(nil), nil
	}
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		log.Warn().Str("file", filename).Msg("alias table not found, using rule-based normalization only")
		return normalize.NewAliasTable(nil), nil
	}

	var entries []normalize.AliasEntry
	_, err := readCSV(filename, aliasColumns, func(row csvRow) error {
		entries = append(entries, normalize.AliasEntry{
			Official: row.Get("Official_DLD_Name_Match"),
			Zone:     row.Get("GeoJSON_Zone_Name"),
		})
		return nil
	})
	if err != nil {
		return normalize.AliasTable{}, err
	}
	aliases, dropped := normalize.NewAliasTableFromEntries(entries)
	for _, d := range dropped {
		log.Warn().Str("file", filename).Str("official", d.Official).Str("zone", d.Zone).
			Msg("duplicate alias ignored, first row wins")
	}
	log.Info().Str("file", filename).Int("aliases", aliases.Len()).Msg("loaded alias table")
	return aliases, nil
}

// ImportRecommendations imports the recommendation CSV into Postgres
func (ci *CSVImporter) ImportRecommendations(ctx context.Context, filename string) (ImportStats, error) {
	return ci.ImportCSV(ctx, filename, recommendationColumns, mapRecommendation)
}
