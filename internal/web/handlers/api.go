package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/serdal-zonemap/internal/enrich"
)

// APIHandler handles general API endpoints
type APIHandler struct {
	Tables *enrich.Tables
}

// StatsResponse describes the loaded datasets
type StatsResponse struct {
	Version         string `json:"version"`
	Zones           int    `json:"zones"`
	Recommendations int    `json:"recommendations"`
	Patterns        int    `json:"patterns"`
	Aliases         int    `json:"aliases"`
	MatchedAreas    int    `json:"matched_areas"`
	UnmatchedAreas  int    `json:"unmatched_areas"`
}

// GetOptions returns the distinct filter values and view modes
func (h *APIHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	opts := h.Tables.Options()
	writeJSON(w, http.StatusOK, struct {
		enrich.Options
		Default enrich.Filter `json:"default"`
	}{opts, opts.Default()})
}

// GetLegend returns the bucket palette in legend order
func (h *APIHandler) GetLegend(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, enrich.Palette)
}

// GetReconcile returns the registry/boundary reconciliation report
func (h *APIHandler) GetReconcile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Tables.Reconcile())
}

// GetStats returns dataset statistics
func (h *APIHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	report := h.Tables.Reconcile()
	writeJSON(w, http.StatusOK, StatsResponse{
		Version:         h.Tables.Version(),
		Zones:           len(h.Tables.Boundaries()),
		Recommendations: len(h.Tables.Records()),
		Patterns:        h.Tables.Buckets().Len(),
		Aliases:         h.Tables.Aliases().Len(),
		MatchedAreas:    report.Matched,
		UnmatchedAreas:  len(report.UnmatchedRegistry),
	})
}

// Health reports liveness
func (h *APIHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

var errMissingFilter = errors.New("unit_type, rooms and quarter are required")

// parseSelection reads the filter tuple and view mode from the query string
func parseSelection(r *http.Request) (enrich.Filter, enrich.ViewMode, error) {
	query := r.URL.Query()
	filter := enrich.Filter{
		UnitType: query.Get("unit_type"),
		Rooms:    query.Get("rooms"),
		Quarter:  query.Get("quarter"),
	}.Canonical()
	if filter.UnitType == "" || filter.Rooms == "" || filter.Quarter == "" {
		return enrich.Filter{}, "", errMissingFilter
	}
	mode, err := enrich.ParseViewMode(query.Get("mode"))
	if err != nil {
		return enrich.Filter{}, "", err
	}
	return filter, mode, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// parseIntParam parses a string parameter as int with default value
func parseIntParam(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return defaultVal
}
