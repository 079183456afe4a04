package etl

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BartekS5/pghdfs/pkg/models"
)

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		driver string
		table  string
		want   string
	}{
		{models.DriverPostgres, "users", `"users"`},
		{models.DriverPostgres, `we"ird`, `"we""ird"`},
		{models.DriverPostgres, "users; DROP TABLE x", `"users; DROP TABLE x"`},
		{models.DriverSQLServer, "order items", "[order items]"},
		{models.DriverSQLServer, "a]b", "[a]]b]"},
		{models.DriverMySQL, "users", "`users`"},
		{models.DriverMySQL, "a`b", "`a``b`"},
	}
	for _, tt := range tests {
		got, err := QuoteIdentifier(tt.driver, tt.table)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s %s", tt.driver, tt.table)
	}

	_, err := QuoteIdentifier("oracle", "users")
	assert.Error(t, err)
}

func TestSelectAllSQL(t *testing.T) {
	assert.Equal(t, `SELECT * FROM "users"`, SelectAllSQL("users"))
	assert.Equal(t, `SELECT * FROM "a""b"`, SelectAllSQL(`a"b`))
	assert.Equal(t, `SELECT * FROM "public.users"`, SelectAllSQL("public.users"))
}

func TestSQLProviderSnapshot(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT * FROM "users"`).WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "active", "joined", "score"}).
			AddRow(int64(1), "alice", true, time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC), []byte("2.50")).
			AddRow(int64(2), nil, false, nil, 0.25),
	)
	mock.ExpectClose()

	provider := newSQLProviderFromDB(db, models.DriverPostgres)
	ctx := context.Background()

	conn, err := provider.Acquire(ctx)
	require.NoError(t, err)
	rows, err := conn.QueryTable(ctx, "users")
	require.NoError(t, err)

	snap, err := BuildSnapshot("users", rows, 1000, NewTransformer(""))
	require.NoError(t, err)
	rows.Close()
	require.NoError(t, conn.Close(ctx))
	require.NoError(t, provider.Close())

	assert.Equal(t, "id,name,active,joined,score\n"+
		"1,alice,true,2024-03-01 12:30:00+00:00,2.50\n"+
		"2,,false,,0.25\n", string(snap.Data))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLProviderQueryError(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT * FROM [audit]").WillReturnError(assert.AnError)

	conn, err := newSQLProviderFromDB(db, models.DriverSQLServer).Acquire(context.Background())
	require.NoError(t, err)
	defer conn.Close(context.Background())

	_, err = conn.QueryTable(context.Background(), "audit")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestNewSQLProviderRejectsPgx(t *testing.T) {
	_, err := NewSQLProvider(models.PGConfig{Driver: models.DriverPgx}, models.ModePerCall)
	assert.Error(t, err)
}
