package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/openvenues/gopostal/expand"
	postal "github.com/openvenues/gopostal/parser"
	"github.com/rs/zerolog/log"

	"github.com/serdal-zonemap/internal/config"
	import_pkg "github.com/serdal-zonemap/internal/import"
	"github.com/serdal-zonemap/internal/normalize"
	"github.com/serdal-zonemap/internal/observability"
	"github.com/serdal-zonemap/internal/web"
)

const version = "1.0.0-libpostal"

// Components of a parsed name that can stand on their own as a zone name
var zoneLabels = map[string]bool{
	"suburb":        true,
	"city_district": true,
	"neighbourhood": true,
}

func main() {
	_ = config.LoadEnv()
	defaults := web.DefaultConfig()
	defaults.ApplyEnv()

	var (
		zones    = flag.String("zones", defaults.Data.Boundaries, "Zone boundary GeoJSON file")
		nameProp = flag.String("name-property", defaults.Data.NameProperty, "Feature property holding the zone name")
		recs     = flag.String("recommendations", defaults.Data.Recommendations, "Recommendation CSV file")
		patterns = flag.String("patterns", defaults.Data.Patterns, "Pattern bucket CSV file")
		aliases  = flag.String("aliases", defaults.Data.Aliases, "Existing zone alias CSV file")
		name     = flag.String("name", "", "Expand a single name and exit")
		outFile  = flag.String("out", "", "Write suggested alias rows to this CSV file (default stdout)")
		logLevel = flag.String("log-level", defaults.Logging.Level, "Log level")
	)
	flag.Parse()

	log.Logger = observability.NewCLILogger(*logLevel)
	log.Info().Str("version", version).Msg("alias suggester using libpostal")

	if *name != "" {
		for _, variant := range variants(*name) {
			fmt.Printf("%-40s -> %s\n", variant, normalize.Normalize(variant))
		}
		return
	}

	tables, err := import_pkg.LoadTables(import_pkg.Paths{
		Boundaries:      *zones,
		NameProperty:    *nameProp,
		Recommendations: *recs,
		Patterns:        *patterns,
		Aliases:         *aliases,
	}, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load zone data")
	}

	report := tables.Reconcile()
	log.Info().
		Int("registry_names", report.RegistryNames).
		Int("unmatched", len(report.UnmatchedRegistry)).
		Msg("reconciled registry names")

	suggestions := normalize.SuggestAliases(report.UnmatchedRegistry, tables.BoundaryKeys(), variants)

	out := os.Stdout
	if *outFile != "" {
		f, err := os.Create(*outFile)
		if err != nil {
			log.Fatal().Err(err).Str("file", *outFile).Msg("failed to create output file")
		}
		defer f.Close()
		out = f
	}

	w := csv.NewWriter(out)
	_ = w.Write([]string{"Official_DLD_Name_Match", "GeoJSON_Zone_Name"})
	for _, s := range suggestions {
		log.Debug().Str("name", s.OfficialName).Str("variant", s.Variant).Str("zone", s.ZoneName).Msg("suggested alias")
		_ = w.Write([]string{s.OfficialName, s.ZoneName})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatal().Err(err).Msg("failed to write suggestions")
	}

	log.Info().
		Int("suggested", len(suggestions)).
		Int("still_unmatched", len(report.UnmatchedRegistry)-len(suggestions)).
		Msg("alias suggestion complete")
}

// variants returns libpostal's expansions of a name plus any district-level
// components the parser picks out of it
func variants(name string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(v string) {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			return
		}
		seen[v] = true
		out = append(out, v)
	}

	add(name)
	for _, v := range expand.ExpandAddress(name) {
		add(v)
	}
	for _, c := range postal.ParseAddress(name) {
		if zoneLabels[c.Label] {
			add(c.Value)
		}
	}
	return out
}
