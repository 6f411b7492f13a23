package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/serdal-zonemap/internal/enrich"
)

const recommendationSchema = `
CREATE TABLE IF NOT EXISTS recommendation (
	id                      BIGSERIAL PRIMARY KEY,
	area                    TEXT NOT NULL,
	unit_type               TEXT NOT NULL,
	rooms                   TEXT NOT NULL,
	quarter                 TEXT NOT NULL,
	pattern_id              TEXT NOT NULL DEFAULT '',
	insight_investor        TEXT NOT NULL DEFAULT '',
	recommendation_investor TEXT NOT NULL DEFAULT '',
	insight_enduser         TEXT NOT NULL DEFAULT '',
	recommendation_enduser  TEXT NOT NULL DEFAULT '',
	imported_at             TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS recommendation_filter_idx
	ON recommendation (unit_type, rooms, quarter);
`

// EnsureSchema creates the recommendation table if it does not exist
func (c *Connection) EnsureSchema(ctx context.Context) error {
	if _, err := c.DB.ExecContext(ctx, recommendationSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Truncate removes every imported recommendation row
func (c *Connection) Truncate(ctx context.Context) error {
	if _, err := c.DB.ExecContext(ctx, `TRUNCATE recommendation RESTART IDENTITY`); err != nil {
		return fmt.Errorf("failed to truncate recommendation: %w", err)
	}
	return nil
}

// RecommendationRepo reads the recommendation table
type RecommendationRepo struct {
	db *sql.DB
}

// NewRecommendationRepo creates a repository over an open connection
func NewRecommendationRepo(c *Connection) *RecommendationRepo {
	return &RecommendationRepo{db: c.DB}
}

// LoadAll returns every recommendation row in import order
func (r *RecommendationRepo) LoadAll(ctx context.Context) ([]enrich.Recommendation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT area, unit_type, rooms, quarter, pattern_id,
		       insight_investor, recommendation_investor,
		       insight_enduser, recommendation_enduser
		FROM recommendation
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}
	defer rows.Close()

	var records []enrich.Recommendation
	for rows.Next() {
		var rec enrich.Recommendation
		if err := rows.Scan(
			&rec.Area, &rec.UnitType, &rec.Rooms, &rec.Quarter, &rec.PatternID,
			&rec.InsightInvestor, &rec.RecommendationInvestor,
			&rec.InsightEndUser, &rec.RecommendationEndUser,
		); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read recommendations: %w", err)
	}
	return records, nil
}

// Count returns the number of stored recommendation rows
func (r *RecommendationRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recommendation`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count recommendations: %w", err)
	}
	return count, nil
}
