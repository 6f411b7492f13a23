package import_pkg

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/unicode/norm"

	"github.com/serdal-zonemap/internal/enrich"
)

// csvRow addresses a CSV record by header name.
type csvRow struct {
	columns map[string]int
	record  []string
}

// Get returns the cleaned cell for a column, or "" when the column or cell is absent.
func (r csvRow) Get(column string) string {
	idx, ok := r.columns[strings.ToLower(column)]
	if !ok || idx >= len(r.record) {
		return ""
	}
	return cleanCell(r.record[idx])
}

// cleanCell strips a byte order mark, folds to NFC and trims whitespace.
func cleanCell(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return strings.TrimSpace(norm.NFC.String(s))
}

// openCSV opens a CSV file, reads its header and checks the required columns.
func openCSV(filename string, required []string) (*os.File, *csv.Reader, map[string]int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open file %s: %w", filename, err)
	}

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		file.Close()
		return nil, nil, nil, fmt.Errorf("failed to read header of %s: %w", filename, err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(cleanCell(name))] = i
	}

	var missing []string
	for _, col := range required {
		if _, ok := columns[strings.ToLower(col)]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		file.Close()
		return nil, nil, nil, fmt.Errorf("%s: missing columns %s", filename, strings.Join(missing, ", "))
	}

	return file, reader, columns, nil
}

// readCSV reads every row of a CSV file, failing on the first malformed record.
func readCSV(filename string, required []string, each func(row csvRow) error) (int, error) {
	file, reader, columns, err := openCSV(filename, required)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	count := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf("%s: %w", filename, err)
		}
		if err := each(csvRow{columns: columns, record: record}); err != nil {
			return count, fmt.Errorf("%s line %d: %w", filename, count+2, err)
		}
		count++
	}
	return count, nil
}

// CSVImporter handles importing the recommendation CSV into the recommendation table
type CSVImporter struct {
	db *sql.DB
}

// NewCSVImporter creates a new CSV importer
func NewCSVImporter(db *sql.DB) *CSVImporter {
	return &CSVImporter{db: db}
}

// ImportStats counts the outcome of one import
type ImportStats struct {
	Imported int
	Skipped  int
}

// ImportCSV imports a CSV file with the given mapping function. Rows that fail to map
// or insert are counted and skipped.
func (ci *CSVImporter) ImportCSV(ctx context.Context, filename string, required []string, mapFunc func(csvRow) (*enrich.Recommendation, error)) (ImportStats, error) {
	log.Info().Str("file", filename).Msg("importing recommendations")

	file, reader, columns, err := openCSV(filename, required)
	if err != nil {
		return ImportStats{}, err
	}
	defer file.Close()

	stmt, err := ci.db.PrepareContext(ctx, `
		INSERT INTO recommendation (
			area, unit_type, rooms, quarter, pattern_id,
			insight_investor, recommendation_investor,
			insight_enduser, recommendation_enduser
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`)
	if err != nil {
		return ImportStats{}, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	imported := 0
	errors := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warn().Err(err).Msg("error reading CSV record")
			errors++
			continue
		}

		rec, err := mapFunc(csvRow{columns: columns, record: record})
		if err != nil {
			log.Warn().Err(err).Msg("error mapping record")
			errors++
			continue
		}

		_, err = stmt.ExecContext(ctx,
			rec.Area, rec.UnitType, rec.Rooms, rec.Quarter, rec.PatternID,
			rec.InsightInvestor, rec.RecommendationInvestor,
			rec.InsightEndUser, rec.RecommendationEndUser,
		)
		if err != nil {
			log.Warn().Err(err).Str("area", rec.Area).Msg("error inserting record")
			errors++
			continue
		}

		imported++
		if imported%1000 == 0 {
			log.Info().Int("imported", imported).Msg("import progress")
		}
	}

	log.Info().Int("imported", imported).Int("errors", errors).Msg("import complete")
	return ImportStats{Imported: imported, Skipped: errors}, nil
}
