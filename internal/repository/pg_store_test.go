package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPGStore(t *testing.T) {
	pool := &pgxpool.Pool{}
	store := NewPGStore(pool)
	assert.NotNil(t, store)
}

func newMockPGStore(t *testing.T) (*PGStore, pgxmock.PgxPoolIface) {
	t.Helper()
	db, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return &PGStore{db: db}, db
}

func TestPGStore_Migrate(t *testing.T) {
	store, db := newMockPGStore(t)
	db.ExpectExec(`CREATE TABLE IF NOT EXISTS documents`).WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	require.NoError(t, store.Migrate(context.Background()))
	assert.NoError(t, db.ExpectationsWereMet())
}

func TestPGStore_List(t *testing.T) {
	store, db := newMockPGStore(t)
	db.ExpectQuery(`SELECT body FROM documents WHERE resource=\$1`).
		WithArgs("filmes").
		WillReturnRows(pgxmock.NewRows([]string{"body"}).
			AddRow([]byte(`{"id":"1","titulo":"Duna"}`)).
			AddRow([]byte(`{"id":"2","titulo":"Wall-E"}`)))

	docs, err := store.List(context.Background(), "filmes")

	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.JSONEq(t, `{"id":"2","titulo":"Wall-E"}`, string(docs[1]))
	assert.NoError(t, db.ExpectationsWereMet())
}

func TestPGStore_List_QueryError(t *testing.T) {
	store, db := newMockPGStore(t)
	dbErr := errors.New("connection reset")
	db.ExpectQuery(`SELECT body FROM documents`).WithArgs("filmes").WillReturnError(dbErr)

	_, err := store.List(context.Background(), "filmes")

	assert.ErrorIs(t, err, dbErr)
	assert.NoError(t, db.ExpectationsWereMet())
}

func TestPGStore_Create_AssignsID(t *testing.T) {
	store, db := newMockPGStore(t)
	db.ExpectExec(`INSERT INTO documents`).
		WithArgs("combos", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	doc, err := store.Create(context.Background(), "combos", json.RawMessage(`{"nome":"Pipoca"}`))

	require.NoError(t, err)
	var fields map[string]any
	require.NoError(t, json.Unmarshal(doc, &fields))
	assert.NotEmpty(t, fields["id"])
	assert.Equal(t, "Pipoca", fields["nome"])
	assert.NoError(t, db.ExpectationsWereMet())
}

func TestPGStore_Update(t *testing.T) {
	store, db := newMockPGStore(t)
	db.ExpectQuery(`UPDATE documents SET body=\$3`).
		WithArgs("sessoes", "3", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"body"}).AddRow([]byte(`{"id":"3","preco":25}`)))

	doc, err := store.Update(context.Background(), "sessoes", "3", json.RawMessage(`{"preco":25}`))

	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"3","preco":25}`, string(doc))
	assert.NoError(t, db.ExpectationsWereMet())
}

func TestPGStore_Update_MissingRowIsNotFound(t *testing.T) {
	store, db := newMockPGStore(t)
	db.ExpectQuery(`UPDATE documents SET body=\$3`).
		WithArgs("sessoes", "404", pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)

	_, err := store.Update(context.Background(), "sessoes", "404", json.RawMessage(`{"preco":25}`))

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, db.ExpectationsWereMet())
}

func TestPGStore_Delete(t *testing.T) {
	store, db := newMockPGStore(t)
	db.ExpectExec(`DELETE FROM documents`).WithArgs("filmes", "1").WillReturnResult(pgxmock.NewResult("DELETE", 1))
	db.ExpectExec(`DELETE FROM documents`).WithArgs("filmes", "9").WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, store.Delete(context.Background(), "filmes", "1"))
	assert.ErrorIs(t, store.Delete(context.Background(), "filmes", "9"), ErrNotFound)
	assert.NoError(t, db.ExpectationsWereMet())
}

func TestWithID(t *testing.T) {
	doc, err := withID(json.RawMessage(`{"id":"old","nome":"Sala 1"}`), "new")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"new","nome":"Sala 1"}`, string(doc))

	_, err = withID(json.RawMessage(`[1,2]`), "x")
	assert.Error(t, err)
}
