package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocalStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(t.TempDir(), "inselpa")
	require.NoError(t, err)
	return store
}

func TestLocalStoreInsertListUpdateDelete(t *testing.T) {
	store := newTestLocalStore(t)
	ctx := context.Background()

	id, err := store.Insert(ctx, CollStudents, json.RawMessage(`{"fullName":"Ana Pérez","course":"10-2"}`))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "stu-"), "id %q should carry the student prefix", id)

	docs, err := store.List(ctx, CollStudents)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, id, docs[0].ID)
	assert.JSONEq(t, `{"fullName":"Ana Pérez","course":"10-2"}`, string(docs[0].Data))

	require.NoError(t, store.Update(ctx, CollStudents, id, json.RawMessage(`{"fullName":"Ana Pérez","course":"11-1"}`)))
	docs, err = store.List(ctx, CollStudents)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.JSONEq(t, `{"fullName":"Ana Pérez","course":"11-1"}`, string(docs[0].Data))

	require.NoError(t, store.Delete(ctx, CollStudents, id))
	docs, err = store.List(ctx, CollStudents)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestLocalStoreUpdateUnknownIDIsNoop(t *testing.T) {
	store := newTestLocalStore(t)
	ctx := context.Background()

	_, err := store.Insert(ctx, CollTeachers, json.RawMessage(`{"fullName":"Luis"}`))
	require.NoError(t, err)

	require.NoError(t, store.Update(ctx, CollTeachers, "teach-missing", json.RawMessage(`{"fullName":"Otro"}`)))
	require.NoError(t, store.Delete(ctx, CollTeachers, "teach-missing"))

	docs, err := store.List(ctx, CollTeachers)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.JSONEq(t, `{"fullName":"Luis"}`, string(docs[0].Data))
}

func TestLocalStoreFilePerCollection(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "inselpa")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Insert(ctx, CollIncidents, json.RawMessage(`{"description":"x"}`))
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, "inselpa_incidents.json"))
	require.NoError(t, err)

	var items []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &items))
	require.Len(t, items, 1)
	assert.Contains(t, items[0], "id", "persisted object should embed its id")

	// no stray temp file left behind
	_, err = os.Stat(filepath.Join(dir, "inselpa_incidents.json.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStoreFindByField(t *testing.T) {
	store := newTestLocalStore(t)
	ctx := context.Background()

	_, err := store.Insert(ctx, CollUsers, json.RawMessage(`{"username":"admin","fullName":"Admin"}`))
	require.NoError(t, err)
	_, err = store.Insert(ctx, CollUsers, json.RawMessage(`{"username":"profe","fullName":"Profe"}`))
	require.NoError(t, err)

	docs, err := store.FindByField(ctx, CollUsers, "username", "profe")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.JSONEq(t, `{"username":"profe","fullName":"Profe"}`, string(docs[0].Data))

	docs, err = store.FindByField(ctx, CollUsers, "username", "nadie")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestLocalStoreBulkInsertAndClear(t *testing.T) {
	store := newTestLocalStore(t)
	ctx := context.Background()

	batch := []json.RawMessage{
		json.RawMessage(`{"fullName":"A","course":"1-1"}`),
		json.RawMessage(`{"fullName":"B","course":"1-2"}`),
		json.RawMessage(`{"fullName":"C","course":"1-3"}`),
	}
	require.NoError(t, store.BulkInsert(ctx, CollStudents, batch))

	docs, err := store.List(ctx, CollStudents)
	require.NoError(t, err)
	require.Len(t, docs, 3)

	seen := map[string]bool{}
	for _, doc := range docs {
		assert.False(t, seen[doc.ID], "duplicate id %q", doc.ID)
		seen[doc.ID] = true
	}

	require.NoError(t, store.Clear(ctx, CollStudents))
	docs, err = store.List(ctx, CollStudents)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestLocalStoreEmptyCollectionReadsAsEmpty(t *testing.T) {
	store := newTestLocalStore(t)

	docs, err := store.List(context.Background(), CollIncidentTypes)
	require.NoError(t, err)
	assert.Empty(t, docs)
}
