package handlers

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/serdal-zonemap/internal/cache"
	"github.com/serdal-zonemap/internal/enrich"
	"github.com/serdal-zonemap/internal/observability"
)

// EmptyNotice is attached to responses where no zone carries recommendation data.
const EmptyNotice = "No recommendation data for this filter combination"

// MapsHandler handles map-related endpoints
type MapsHandler struct {
	Tables *enrich.Tables
	Cache  cache.Cache
}

// GeoJSONResponse represents a GeoJSON FeatureCollection of enriched zones
type GeoJSONResponse struct {
	Type     string          `json:"type"`
	Features []Feature       `json:"features"`
	Filter   enrich.Filter   `json:"filter"`
	Mode     enrich.ViewMode `json:"mode"`
	Matched  int             `json:"matched"`
	Notice   string          `json:"notice,omitempty"`
}

// Feature is one enriched zone as a GeoJSON feature
type Feature struct {
	Type       string            `json:"type"`
	Geometry   json.RawMessage   `json:"geometry"`
	Properties FeatureProperties `json:"properties"`
}

// FeatureProperties carries the popup, tooltip and styling values for a zone
type FeatureProperties struct {
	Name           string `json:"CNAME_E"`
	NormalizedName string `json:"normalized_name"`
	PatternID      string `json:"pattern_id"`
	Insight        string `json:"insight"`
	Recommendation string `json:"recommendation"`
	Bucket         string `json:"bucket"`
	Color          string `json:"color"`
	Matched        bool   `json:"matched"`
}

// NewGeoJSONResponse converts an enrichment result into a FeatureCollection
func NewGeoJSONResponse(result enrich.Result) GeoJSONResponse {
	features := make([]Feature, 0, len(result.Zones))
	for _, z := range result.Zones {
		geometry := z.Geometry
		if len(geometry) == 0 {
			geometry = json.RawMessage("null")
		}
		features = append(features, Feature{
			Type:     "Feature",
			Geometry: geometry,
			Properties: FeatureProperties{
				Name:           z.DisplayName,
				NormalizedName: z.NormalizedName,
				PatternID:      z.PatternID,
				Insight:        z.Insight,
				Recommendation: z.Recommendation,
				Bucket:         z.Bucket,
				Color:          z.Color,
				Matched:        z.Matched,
			},
		})
	}

	resp := GeoJSONResponse{
		Type:     "FeatureCollection",
		Features: features,
		Filter:   result.Filter,
		Mode:     result.Mode,
		Matched:  result.Matched,
	}
	if result.Empty() {
		resp.Notice = EmptyNotice
	}
	return resp
}

// RenderGeoJSON runs the enrichment pipeline and encodes the FeatureCollection
func RenderGeoJSON(tables *enrich.Tables, filter enrich.Filter, mode enrich.ViewMode) ([]byte, error) {
	start := time.Now()
	result := tables.Enrich(filter, mode)
	observability.ObserveEnrich(string(mode), result.Matched, time.Since(start))
	return json.Marshal(NewGeoJSONResponse(result))
}

// GetGeoJSON returns the enriched zones for the selected filter and view mode
func (h *MapsHandler) GetGeoJSON(w http.ResponseWriter, r *http.Request) {
	filter, mode, err := parseSelection(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	key := cache.Key("geojson", h.Tables.Version(), filter, mode)

	var body []byte
	if h.Cache != nil {
		cached, ok, err := h.Cache.Get(ctx, key)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		if ok {
			body = cached
		}
	}

	if body == nil {
		body, err = RenderGeoJSON(h.Tables, filter, mode)
		if err != nil {
			log.Error().Err(err).Str("filter", filter.String()).Msg("failed to encode zones")
			writeError(w, http.StatusInternalServerError, "failed to encode zones")
			return
		}
		if h.Cache != nil {
			if err := h.Cache.Set(ctx, key, body); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("cache write failed")
			}
		}
	}

	etag := calcETag(body)
	w.Header().Set("ETag", etag)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write geojson body")
	}
}

func calcETag(body []byte) string {
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`
}
