package handlers

import (
	"net/http"

	"github.com/serdal-zonemap/internal/enrich"
	"github.com/serdal-zonemap/internal/normalize"
)

// SearchHandler handles search endpoints
type SearchHandler struct {
	Tables *enrich.Tables
}

// ZoneSearchResult represents a zone search result
type ZoneSearchResult struct {
	Name           string `json:"name"`
	NormalizedName string `json:"normalized_name"`
}

// ZoneSearchResponse wraps the results with the key that was searched for
type ZoneSearchResponse struct {
	Query   string             `json:"query"`
	Key     string             `json:"key"`
	Results []ZoneSearchResult `json:"results"`
}

// SearchZones finds boundary zones by normalized name
func (h *SearchHandler) SearchZones(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	searchTerm := query.Get("q")
	if normalize.IsBlank(searchTerm) {
		writeError(w, http.StatusBadRequest, "search term required")
		return
	}

	limit := parseIntParam(query.Get("limit"), 20)
	if limit <= 0 || limit > 100 {
		limit = 100 // Maximum limit
	}

	results := make([]ZoneSearchResult, 0)
	for _, zone := range h.Tables.Search(searchTerm, limit) {
		results = append(results, ZoneSearchResult{Name: zone.Name, NormalizedName: zone.NormalizedName})
	}

	writeJSON(w, http.StatusOK, ZoneSearchResponse{
		Query:   searchTerm,
		Key:     normalize.Normalize(searchTerm),
		Results: results,
	})
}
