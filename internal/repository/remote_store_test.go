package repository

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRemoteStoreMock(t *testing.T) (*RemoteStore, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewRemoteStore(sqlx.NewDb(db, "sqlmock")), mock, func() { db.Close() }
}

func TestRemoteStoreList(t *testing.T) {
	store, mock, cleanup := newRemoteStoreMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "doc"}).
		AddRow("id-1", []byte(`{"fullName":"Ana"}`)).
		AddRow("id-2", []byte(`{"fullName":"Pedro"}`))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, doc FROM documents WHERE collection = $1`)).
		WithArgs(CollStudents).
		WillReturnRows(rows)

	docs, err := store.List(context.Background(), CollStudents)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "id-1", docs[0].ID)
	assert.JSONEq(t, `{"fullName":"Pedro"}`, string(docs[1].Data))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoteStoreInsertStripsEmbeddedID(t *testing.T) {
	store, mock, cleanup := newRemoteStoreMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO documents (collection, id, doc) VALUES ($1, $2, $3::jsonb - 'id')`)).
		WithArgs(CollIncidents, sqlmock.AnyArg(), []byte(`{"id":"","description":"pelea"}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := store.Insert(context.Background(), CollIncidents, json.RawMessage(`{"id":"","description":"pelea"}`))
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoteStoreUpdateAndDelete(t *testing.T) {
	store, mock, cleanup := newRemoteStoreMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE documents SET doc = $3::jsonb - 'id' WHERE collection = $1 AND id = $2`)).
		WithArgs(CollStudents, "id-1", []byte(`{"fullName":"Ana María"}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM documents WHERE collection = $1 AND id = $2`)).
		WithArgs(CollStudents, "id-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ctx := context.Background()
	require.NoError(t, store.Update(ctx, CollStudents, "id-1", json.RawMessage(`{"fullName":"Ana María"}`)))
	require.NoError(t, store.Delete(ctx, CollStudents, "id-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoteStoreFindByField(t *testing.T) {
	store, mock, cleanup := newRemoteStoreMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "doc"}).
		AddRow("id-9", []byte(`{"username":"admin"}`))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, doc FROM documents WHERE collection = $1 AND doc->>$2 = $3`)).
		WithArgs(CollUsers, "username", "admin").
		WillReturnRows(rows)

	docs, err := store.FindByField(context.Background(), CollUsers, "username", "admin")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "id-9", docs[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoteStoreBulkInsertSingleTransaction(t *testing.T) {
	store, mock, cleanup := newRemoteStoreMock(t)
	defer cleanup()

	mock.ExpectBegin()
	for i := 0; i < 3; i++ {
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO documents (collection, id, doc) VALUES ($1, $2, $3::jsonb - 'id')`)).
			WithArgs(CollStudents, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	batch := []json.RawMessage{
		json.RawMessage(`{"fullName":"A"}`),
		json.RawMessage(`{"fullName":"B"}`),
		json.RawMessage(`{"fullName":"C"}`),
	}
	require.NoError(t, store.BulkInsert(context.Background(), CollStudents, batch))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoteStoreBulkInsertRollsBackOnFailure(t *testing.T) {
	store, mock, cleanup := newRemoteStoreMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO documents`)).
		WithArgs(CollStudents, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO documents`)).
		WithArgs(CollStudents, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	batch := []json.RawMessage{
		json.RawMessage(`{"fullName":"A"}`),
		json.RawMessage(`{"fullName":"B"}`),
	}
	err := store.BulkInsert(context.Background(), CollStudents, batch)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoteStoreClear(t *testing.T) {
	store, mock, cleanup := newRemoteStoreMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM documents WHERE collection = $1`)).
		WithArgs(CollIncidents).
		WillReturnResult(sqlmock.NewResult(0, 5))

	require.NoError(t, store.Clear(context.Background(), CollIncidents))
	assert.NoError(t, mock.ExpectationsWereMet())
}
