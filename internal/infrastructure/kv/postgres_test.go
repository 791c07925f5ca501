package kv_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gdugdh24/fitmatch-backend/internal/infrastructure/kv"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPostgresStore(t *testing.T) (kv.Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS kv_entries").
		WillReturnResult(sqlmock.NewResult(0, 0))

	store, err := kv.NewPostgresStore(context.Background(), sqlx.NewDb(db, "sqlmock"))
	require.NoError(t, err)
	return store, mock
}

func TestPostgresStore_Get(t *testing.T) {
	store, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT value FROM kv_entries WHERE key = \$1`).
		WithArgs("fitmatch_db_users").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte(`[]`)))

	value, err := store.Get(context.Background(), "fitmatch_db_users")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetMissing(t *testing.T) {
	store, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT value FROM kv_entries WHERE key = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, kv.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SetDeleteClear(t *testing.T) {
	store, mock := newMockPostgresStore(t)
	ctx := context.Background()

	mock.ExpectExec(`INSERT INTO kv_entries`).
		WithArgs("k", []byte("v")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM kv_entries WHERE key = \$1`).
		WithArgs("k").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM kv_entries`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, store.Set(ctx, "k", []byte("v")))
	require.NoError(t, store.Delete(ctx, "k"))
	require.NoError(t, store.Clear(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}
