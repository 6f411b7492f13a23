package web

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/serdal-zonemap/internal/cache"
	"github.com/serdal-zonemap/internal/enrich"
	"github.com/serdal-zonemap/internal/observability"
	"github.com/serdal-zonemap/internal/web/handlers"
	"github.com/serdal-zonemap/internal/web/middleware"
)

// Server represents the web server
type Server struct {
	config     *Config
	tables     *enrich.Tables
	cache      cache.Cache
	httpServer *http.Server
	router     *mux.Router
}

// NewServer creates a new web server over tables that were loaded at startup.
// renderCache may be nil.
func NewServer(config *Config, tables *enrich.Tables, renderCache cache.Cache) *Server {
	server := &Server{
		config: config,
		tables: tables,
		cache:  renderCache,
	}

	// Setup routes
	server.setupRoutes()

	// Create HTTP server
	server.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port),
		Handler:      server.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router = mux.NewRouter()

	// Feature toggles are applied here, by registering or skipping routes
	apiHandler := &handlers.APIHandler{Tables: s.tables}
	mapsHandler := &handlers.MapsHandler{Tables: s.tables, Cache: s.cache}
	searchHandler := &handlers.SearchHandler{Tables: s.tables}
	exportHandler := &handlers.ExportHandler{Tables: s.tables}

	s.router.HandleFunc("/healthz", apiHandler.Health).Methods("GET")

	if s.config.Features.MetricsEnabled {
		s.router.Handle("/metrics", observability.MetricsHandler(observability.InitRegistry())).Methods("GET")
	}

	// API routes
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/zones/geojson", mapsHandler.GetGeoJSON).Methods("GET", "OPTIONS")
	api.HandleFunc("/options", apiHandler.GetOptions).Methods("GET", "OPTIONS")
	api.HandleFunc("/legend", apiHandler.GetLegend).Methods("GET", "OPTIONS")
	api.HandleFunc("/reconcile", apiHandler.GetReconcile).Methods("GET", "OPTIONS")
	api.HandleFunc("/stats", apiHandler.GetStats).Methods("GET", "OPTIONS")

	if s.config.Features.SearchEnabled {
		api.HandleFunc("/zones/search", searchHandler.SearchZones).Methods("GET", "OPTIONS")
	}

	// Export endpoint (if enabled)
	if s.config.Features.ExportEnabled {
		api.HandleFunc("/export", exportHandler.ExportCSV).Methods("GET", "OPTIONS")
	}

	// Static file serving
	if staticDir := s.config.Server.StaticDir; staticDir != "" {
		if _, err := os.Stat(staticDir); err == nil {
			s.router.PathPrefix("/").Handler(http.FileServer(http.Dir(staticDir + "/")))
		}
	}

	// Apply middleware
	s.router.Use(middleware.CORS(s.config.Server.AllowedOrigins...))
	s.router.Use(middleware.RequestLogging(log.Logger))
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the web server and blocks until SIGINT or SIGTERM
func (s *Server) Start() error {
	// Setup graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.httpServer.Addr).Msg("starting server")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}
