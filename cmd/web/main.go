package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/serdal-zonemap/internal/cache"
	"github.com/serdal-zonemap/internal/config"
	"github.com/serdal-zonemap/internal/db"
	"github.com/serdal-zonemap/internal/enrich"
	import_pkg "github.com/serdal-zonemap/internal/import"
	"github.com/serdal-zonemap/internal/observability"
	"github.com/serdal-zonemap/internal/web"
)

func main() {
	// Load environment configuration
	_ = config.LoadEnv()

	webConfig := web.DefaultConfig()
	if file := config.GetEnv("CONFIG_FILE", ""); file != "" {
		loaded, err := web.LoadConfig(file)
		if err != nil {
			log.Fatal().Err(err).Str("file", file).Msg("failed to load config")
		}
		webConfig = loaded
	}
	webConfig.ApplyEnv()

	log.Logger = observability.NewLogger(webConfig.Logging.Env, webConfig.Logging.Level)
	log.Info().Msg("=== Dubai Zone Map ===")

	ctx := context.Background()

	var source import_pkg.RecommendationSource
	if webConfig.Database.Enabled {
		dbConn, err := db.NewConnection(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer dbConn.Close()

		repo := db.NewRecommendationRepo(dbConn)
		source = func() ([]enrich.Recommendation, error) {
			loadCtx, cancel := context.WithTimeout(ctx, config.GetEnvDuration("DB_LOAD_TIMEOUT", 30*time.Second))
			defer cancel()
			return repo.LoadAll(loadCtx)
		}
		log.Info().Msg("recommendations source: postgres")
	}

	tables, err := import_pkg.LoadTables(webConfig.Data, source)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load zone data")
	}

	report := tables.Reconcile()
	log.Info().
		Int("zones", len(tables.Boundaries())).
		Int("recommendations", len(tables.Records())).
		Int("matched_areas", report.Matched).
		Int("unmatched_areas", len(report.UnmatchedRegistry)).
		Str("version", tables.Version()).
		Msg("zone data loaded")
	if len(report.UnmatchedRegistry) > 0 {
		log.Warn().Strs("areas", report.UnmatchedRegistry).Msg("registry areas without a boundary zone")
	}

	var renderCache cache.Cache
	if addr := webConfig.Cache.Addr; addr != "" {
		rc := cache.NewRedis(addr, webConfig.Cache.Password, webConfig.Cache.DB, webConfig.Cache.TTL())
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := rc.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Warn().Err(err).Str("addr", addr).Msg("redis unavailable, rendering without cache")
			_ = rc.Close()
		} else {
			defer rc.Close()
			renderCache = rc
			log.Info().Str("addr", addr).Dur("ttl", webConfig.Cache.TTL()).Msg("render cache enabled")
		}
	}

	server := web.NewServer(webConfig, tables, renderCache)

	log.Info().
		Bool("export", webConfig.Features.ExportEnabled).
		Bool("search", webConfig.Features.SearchEnabled).
		Bool("metrics", webConfig.Features.MetricsEnabled).
		Msg("features enabled")

	// Start server
	if err := server.Start(); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
