package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/serdal-zonemap/internal/enrich"
	"github.com/serdal-zonemap/internal/observability"
)

// ExportHandler handles data export endpoints. The route is only registered
// when export is enabled.
type ExportHandler struct {
	Tables *enrich.Tables
}

var exportHeader = []string{
	"zone", "normalized_name", "matched", "pattern_id", "bucket", "color", "insight", "recommendation",
}

// ExportCSV writes the enriched zones for a selection as CSV, without geometry
func (h *ExportHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	filter, mode, err := parseSelection(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	result := h.Tables.Enrich(filter, mode)
	observability.ObserveEnrich(string(mode), result.Matched, time.Since(start))

	filename := fmt.Sprintf("zones_%s_%s_%s_%s.csv",
		slug(filter.UnitType), slug(filter.Rooms), slug(filter.Quarter), slug(string(mode)))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	writer := csv.NewWriter(w)
	if err := WriteZonesCSV(writer, result); err != nil {
		log.Error().Err(err).Msg("failed to write export")
	}
}

// WriteZonesCSV writes one CSV row per enriched zone
func WriteZonesCSV(writer *csv.Writer, result enrich.Result) error {
	if err := writer.Write(exportHeader); err != nil {
		return err
	}
	for _, z := range result.Zones {
		row := []string{
			z.DisplayName, z.NormalizedName, strconv.FormatBool(z.Matched), z.PatternID,
			z.Bucket, z.Color, z.Insight, z.Recommendation,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func slug(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return '_'
	}, s)
}
