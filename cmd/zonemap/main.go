package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/serdal-zonemap/internal/audit"
	"github.com/serdal-zonemap/internal/config"
	"github.com/serdal-zonemap/internal/db"
	"github.com/serdal-zonemap/internal/debug"
	"github.com/serdal-zonemap/internal/enrich"
	import_pkg "github.com/serdal-zonemap/internal/import"
	"github.com/serdal-zonemap/internal/observability"
	"github.com/serdal-zonemap/internal/web"
	"github.com/serdal-zonemap/internal/web/handlers"
)

var (
	// Settings shared by every subcommand
	webConfig *web.Config
	fromDB    bool
	debugFlag bool
	dbTimeout time.Duration
)

func main() {
	_ = config.LoadEnv()

	webConfig = web.DefaultConfig()
	webConfig.ApplyEnv()
	log.Logger = observability.NewCLILogger(webConfig.Logging.Level)
	dbTimeout = config.GetEnvDuration("DB_TIMEOUT", 2*time.Minute)

	// Create root command
	rootCmd := &cobra.Command{
		Use:   "zonemap",
		Short: "Dubai zone recommendation map tools",
		Long:  `Render, inspect and load the datasets behind the Dubai zone recommendation map`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debugFlag {
				log.Logger = log.Logger.Level(zerolog.DebugLevel)
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&webConfig.Data.Boundaries, "zones", webConfig.Data.Boundaries, "Zone boundary GeoJSON file")
	flags.StringVar(&webConfig.Data.NameProperty, "name-property", webConfig.Data.NameProperty, "Feature property holding the zone name")
	flags.StringVar(&webConfig.Data.Recommendations, "recommendations", webConfig.Data.Recommendations, "Recommendation CSV file")
	flags.StringVar(&webConfig.Data.Patterns, "patterns", webConfig.Data.Patterns, "Pattern bucket CSV file")
	flags.StringVar(&webConfig.Data.Aliases, "aliases", webConfig.Data.Aliases, "Zone alias CSV file")
	flags.BoolVar(&fromDB, "from-db", webConfig.Database.Enabled, "Read recommendations from Postgres instead of the CSV file")
	flags.BoolVar(&debugFlag, "debug", false, "Enable debug output")

	// Add subcommands
	rootCmd.AddCommand(createRenderCmd())
	rootCmd.AddCommand(createExportCmd())
	rootCmd.AddCommand(createOptionsCmd())
	rootCmd.AddCommand(createReconcileCmd())
	rootCmd.AddCommand(createImportCmd())
	rootCmd.AddCommand(createDBCmd())
	rootCmd.AddCommand(createPingCmd())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// connect opens Postgres using the PG* environment variables
func connect(ctx context.Context) *db.Connection {
	conn, err := db.NewConnection(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	return conn
}

// loadTables loads every dataset, reading recommendations from Postgres when --from-db is set
func loadTables(ctx context.Context) *enrich.Tables {
	var source import_pkg.RecommendationSource
	if fromDB {
		conn := connect(ctx)
		source = func() ([]enrich.Recommendation, error) {
			defer conn.Close()
			return db.NewRecommendationRepo(conn).LoadAll(ctx)
		}
	}

	tables, err := import_pkg.LoadTables(webConfig.Data, source)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load zone data")
	}
	return tables
}

// selection holds the filter flags shared by render and export
type selection struct {
	unitType string
	rooms    string
	quarter  string
	mode     string
}

func (s *selection) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.unitType, "unit-type", "", "Unit type (defaults to the first available)")
	cmd.Flags().StringVar(&s.rooms, "rooms", "", "Room count (defaults to the first available)")
	cmd.Flags().StringVar(&s.quarter, "quarter", "", "Quarter (defaults to the latest)")
	cmd.Flags().StringVar(&s.mode, "mode", string(enrich.Investor), "View mode: Investor or End User")
}

// resolve fills unset flags from the default selection the map opens with
func (s *selection) resolve(tables *enrich.Tables) (enrich.Filter, enrich.ViewMode) {
	defaults := tables.Options().Default()
	filter := enrich.Filter{UnitType: s.unitType, Rooms: s.rooms, Quarter: s.quarter}
	if filter.UnitType == "" {
		filter.UnitType = defaults.UnitType
	}
	if filter.Rooms == "" {
		filter.Rooms = defaults.Rooms
	}
	if filter.Quarter == "" {
		filter.Quarter = defaults.Quarter
	}

	mode, err := enrich.ParseViewMode(s.mode)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid --mode")
	}
	return filter.Canonical(), mode
}

// output opens the --out file, or stdout when empty
func output(path string) (io.Writer, func()) {
	if path == "" {
		return os.Stdout, func() {}
	}
	f, err := os.Create(path)
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("failed to create output file")
	}
	return f, func() {
		if err := f.Close(); err != nil {
			log.Error().Err(err).Str("file", path).Msg("failed to close output file")
		}
	}
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatal().Err(err).Msg("failed to encode output")
	}
}

// createRenderCmd writes the enriched FeatureCollection for one selection
func createRenderCmd() *cobra.Command {
	var sel selection
	var outFile string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render enriched zones as GeoJSON",
		Run: func(cmd *cobra.Command, args []string) {
			defer debug.DebugTiming(debugFlag, "render")()
			tables := loadTables(cmd.Context())
			filter, mode := sel.resolve(tables)

			body, err := handlers.RenderGeoJSON(tables, filter, mode)
			if err != nil {
				log.Fatal().Err(err).Msg("failed to render zones")
			}

			w, done := output(outFile)
			defer done()
			if _, err := w.Write(append(body, '\n')); err != nil {
				log.Fatal().Err(err).Msg("failed to write zones")
			}
			log.Info().Str("filter", filter.String()).Str("mode", string(mode)).Msg("rendered zones")
		},
	}

	sel.register(cmd)
	cmd.Flags().StringVar(&outFile, "out", "", "Output file (default stdout)")

	return cmd
}

// createExportCmd writes the enriched zones for one selection as CSV
func createExportCmd() *cobra.Command {
	var sel selection
	var outFile string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export enriched zones as CSV",
		Run: func(cmd *cobra.Command, args []string) {
			defer debug.DebugTiming(debugFlag, "export")()
			tables := loadTables(cmd.Context())
			filter, mode := sel.resolve(tables)
			result := tables.Enrich(filter, mode)

			w, done := output(outFile)
			defer done()
			if err := handlers.WriteZonesCSV(csv.NewWriter(w), result); err != nil {
				log.Fatal().Err(err).Msg("failed to write export")
			}

			if result.Empty() {
				log.Warn().Str("filter", filter.String()).Msg(handlers.EmptyNotice)
			}
			log.Info().Int("zones", len(result.Zones)).Int("matched", result.Matched).Msg("exported zones")
		},
	}

	sel.register(cmd)
	cmd.Flags().StringVar(&outFile, "out", "", "Output file (default stdout)")

	return cmd
}

func createOptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List the available filter values",
		Run: func(cmd *cobra.Command, args []string) {
			opts := loadTables(cmd.Context()).Options()
			printJSON(struct {
				enrich.Options
				Default enrich.Filter `json:"default"`
			}{opts, opts.Default()})
		},
	}
}

func createReconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Report registry areas and zones that do not join",
		Run: func(cmd *cobra.Command, args []string) {
			report := loadTables(cmd.Context()).Reconcile()
			printJSON(report)

			fmt.Fprintf(os.Stderr, "\nMatched %d of %d registry areas (%d via alias), %d zones without data\n",
				report.Matched, report.RegistryNames, len(report.AliasHits), len(report.UnmatchedZones))
		},
	}
}

// createImportCmd creates the import subcommand
func createImportCmd() *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import data into Postgres",
	}

	var truncate bool
	recommendationsCmd := &cobra.Command{
		Use:   "recommendations [filename]",
		Short: "Import the recommendation CSV",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx, cancel := context.WithTimeout(cmd.Context(), dbTimeout)
			defer cancel()

			conn := connect(ctx)
			defer conn.Close()

			tracker := audit.NewTracker(conn.DB)
			if err := conn.EnsureSchema(ctx); err != nil {
				log.Fatal().Err(err).Msg("failed to prepare schema")
			}
			if err := tracker.EnsureSchema(ctx); err != nil {
				log.Fatal().Err(err).Msg("failed to prepare schema")
			}
			if truncate {
				if err := conn.Truncate(ctx); err != nil {
					log.Fatal().Err(err).Msg("failed to clear recommendations")
				}
			}

			runID, err := tracker.StartRun(ctx, debugFlag, args[0])
			if err != nil {
				log.Fatal().Err(err).Msg("failed to start import run")
			}

			importer := import_pkg.NewCSVImporter(conn.DB)
			stats, importErr := importer.ImportRecommendations(ctx, args[0])
			if err := tracker.CompleteRun(ctx, debugFlag, runID, stats.Imported, stats.Skipped, importErr); err != nil {
				log.Error().Err(err).Int64("run_id", runID).Msg("failed to complete import run")
			}
			if importErr != nil {
				log.Fatal().Err(importErr).Msg("failed to import recommendations")
			}

			fmt.Printf("\n=== Import Results ===\n")
			fmt.Printf("Run ID: %d\n", runID)
			fmt.Printf("Imported: %d\n", stats.Imported)
			fmt.Printf("Skipped: %d\n", stats.Skipped)
		},
	}
	recommendationsCmd.Flags().BoolVar(&truncate, "truncate", false, "Remove existing rows before importing")

	importCmd.AddCommand(recommendationsCmd)
	return importCmd
}

// createDBCmd creates database management commands
func createDBCmd() *cobra.Command {
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
	}

	dbCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the recommendation table",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, cancel := context.WithTimeout(cmd.Context(), dbTimeout)
			defer cancel()

			conn := connect(ctx)
			defer conn.Close()

			if err := conn.EnsureSchema(ctx); err != nil {
				log.Fatal().Err(err).Msg("failed to create schema")
			}
			if err := audit.NewTracker(conn.DB).EnsureSchema(ctx); err != nil {
				log.Fatal().Err(err).Msg("failed to create schema")
			}
			fmt.Println("Schema ready")
		},
	})

	var limit int
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent recommendation imports",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, cancel := context.WithTimeout(cmd.Context(), dbTimeout)
			defer cancel()

			conn := connect(ctx)
			defer conn.Close()

			runs, err := audit.NewTracker(conn.DB).History(ctx, debugFlag, limit)
			if err != nil {
				log.Fatal().Err(err).Msg("failed to read import history")
			}

			fmt.Println("Run | Started             | Status    | Imported | Skipped | File")
			fmt.Println("----|---------------------|-----------|----------|---------|-----")
			for _, r := range runs {
				fmt.Printf("%3d | %s | %-9s | %8d | %7d | %s\n",
					r.RunID, r.StartedAt.Format("2006-01-02 15:04:05"), r.Status, r.Imported, r.Skipped, r.SourceFile)
			}
		},
	}
	historyCmd.Flags().IntVar(&limit, "limit", 20, "Number of runs to show")
	dbCmd.AddCommand(historyCmd)

	return dbCmd
}

// createPingCmd creates a command to test database connectivity
func createPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Test database connectivity",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, cancel := context.WithTimeout(cmd.Context(), dbTimeout)
			defer cancel()

			conn := connect(ctx)
			defer conn.Close()
			fmt.Println("Database connection successful!")

			count, err := db.NewRecommendationRepo(conn).Count(ctx)
			if err != nil {
				log.Error().Err(err).Msg("error counting recommendation rows")
				return
			}
			fmt.Printf("Recommendation rows loaded: %d\n", count)
		},
	}
}
