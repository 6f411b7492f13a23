package db

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockConnection(t *testing.T) (*Connection, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return &Connection{DB: sqlDB}, mock
}

func TestLoadAllPreservesImportOrder(t *testing.T) {
	conn, mock := newMockConnection(t)

	columns := []string{
		"area", "unit_type", "rooms", "quarter", "pattern_id",
		"insight_investor", "recommendation_investor", "insight_enduser", "recommendation_enduser",
	}
	mock.ExpectQuery(`SELECT area, unit_type, rooms, quarter, pattern_id.+FROM recommendation\s+ORDER BY id`).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("Al Barsha 1", "Apartment", "2", "Q1-2024", "7", "Yields up", "Buy", "Stable", "Rent").
			AddRow("JVC", "Apartment", "2", "Q1-2024", "3", "Oversupply", "Avoid", "Choice", "Negotiate"))

	records, err := NewRecommendationRepo(conn).LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Al Barsha 1", records[0].Area)
	assert.Equal(t, "Buy", records[0].RecommendationInvestor)
	assert.Equal(t, "JVC", records[1].Area)
	assert.Equal(t, "Negotiate", records[1].RecommendationEndUser)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCount(t *testing.T) {
	conn, mock := newMockConnection(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM recommendation`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	count, err := NewRecommendationRepo(conn).Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchemaAndTruncate(t *testing.T) {
	conn, mock := newMockConnection(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS recommendation`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`TRUNCATE recommendation RESTART IDENTITY`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, conn.EnsureSchema(context.Background()))
	require.NoError(t, conn.Truncate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
