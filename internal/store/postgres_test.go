package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresStore_Migrate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewPostgresFromPool(mock)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS report_runs`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateRun(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewPostgresFromPool(mock)

	mock.ExpectExec(`INSERT INTO report_runs`).
		WithArgs(pgxmock.AnyArg(), "aggregate", "orders.xlsx",
			pgxmock.AnyArg(), pgxmock.AnyArg(), 1, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	saved, err := s.CreateRun(context.Background(), &Run{
		Kind:          "aggregate",
		Source:        "orders.xlsx",
		Params:        json.RawMessage(`{}`),
		Tables:        json.RawMessage(`[]`),
		CoercionCount: 1,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetRun(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewPostgresFromPool(mock)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT id, kind, source, params, tables, coercion_count, created_at`).
		WithArgs("run-1").
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "kind", "source", "params", "tables", "coercion_count", "created_at"},
		).AddRow("run-1", "compare", "a.xlsx,b.xlsx", []byte(`{}`), []byte(`[]`), 0, now))

	run, err := s.GetRun(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, "compare", run.Kind)
	assert.Equal(t, "a.xlsx,b.xlsx", run.Source)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetRunNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewPostgresFromPool(mock)

	mock.ExpectQuery(`SELECT id, kind, source`).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "kind", "source", "params", "tables", "coercion_count", "created_at"},
		))

	_, err = s.GetRun(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestPostgresStore_ListRuns(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewPostgresFromPool(mock)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT id, kind, source, params, tables, coercion_count, created_at`).
		WithArgs("aggregate", 100).
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "kind", "source", "params", "tables", "coercion_count", "created_at"},
		).
			AddRow("run-2", "aggregate", "week2.xlsx", []byte(`{}`), []byte(`[]`), 0, now).
			AddRow("run-1", "aggregate", "week1.xlsx", []byte(`{}`), []byte(`[]`), 3, now.Add(-time.Hour)))

	runs, err := s.ListRuns(context.Background(), RunFilter{Kind: "aggregate"})
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].ID)
	assert.Equal(t, 3, runs[1].CoercionCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
