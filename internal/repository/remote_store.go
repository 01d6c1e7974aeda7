package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// RemoteStore keeps every collection in a single documents table
// (collection text, id uuid, doc jsonb). The id lives in its own column;
// any "id" key inside the body is stripped on write.
type RemoteStore struct {
	db *sqlx.DB
}

// NewRemoteStore constructs a RemoteStore.
func NewRemoteStore(db *sqlx.DB) *RemoteStore {
	return &RemoteStore{db: db}
}

type documentRow struct {
	ID  string          `db:"id"`
	Doc json.RawMessage `db:"doc"`
}

// List returns every document in the collection in backend order.
func (s *RemoteStore) List(ctx context.Context, collection string) ([]Document, error) {
	const query = `SELECT id, doc FROM documents WHERE collection = $1`
	var rows []documentRow
	if err := s.db.SelectContext(ctx, &rows, query, collection); err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, Document{ID: row.ID, Data: row.Doc})
	}
	return docs, nil
}

// Insert writes a new document and returns its assigned id.
func (s *RemoteStore) Insert(ctx context.Context, collection string, data json.RawMessage) (string, error) {
	id := uuid.NewString()
	const query = `INSERT INTO documents (collection, id, doc) VALUES ($1, $2, $3::jsonb - 'id')`
	if _, err := s.db.ExecContext(ctx, query, collection, id, []byte(data)); err != nil {
		return "", fmt.Errorf("insert into %s: %w", collection, err)
	}
	return id, nil
}

// Update replaces the document body for the given id.
func (s *RemoteStore) Update(ctx context.Context, collection, id string, data json.RawMessage) error {
	const query = `UPDATE documents SET doc = $3::jsonb - 'id' WHERE collection = $1 AND id = $2`
	if _, err := s.db.ExecContext(ctx, query, collection, id, []byte(data)); err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return nil
}

// Delete removes the document. Deleting an unknown id is not an error.
func (s *RemoteStore) Delete(ctx context.Context, collection, id string) error {
	const query = `DELETE FROM documents WHERE collection = $1 AND id = $2`
	if _, err := s.db.ExecContext(ctx, query, collection, id); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// FindByField returns documents whose top-level field equals value.
func (s *RemoteStore) FindByField(ctx context.Context, collection, field, value string) ([]Document, error) {
	const query = `SELECT id, doc FROM documents WHERE collection = $1 AND doc->>$2 = $3`
	var rows []documentRow
	if err := s.db.SelectContext(ctx, &rows, query, collection, field, value); err != nil {
		return nil, fmt.Errorf("find %s by %s: %w", collection, field, err)
	}
	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, Document{ID: row.ID, Data: row.Doc})
	}
	return docs, nil
}

// BulkInsert writes all docs inside one transaction.
func (s *RemoteStore) BulkInsert(ctx context.Context, collection string, docs []json.RawMessage) error {
	if len(docs) == 0 {
		return nil
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bulk insert: %w", err)
	}
	const query = `INSERT INTO documents (collection, id, doc) VALUES ($1, $2, $3::jsonb - 'id')`
	for _, doc := range docs {
		if _, err := tx.ExecContext(ctx, query, collection, uuid.NewString(), []byte(doc)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("bulk insert into %s: %w", collection, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bulk insert: %w", err)
	}
	return nil
}

// Clear removes every document in the collection.
func (s *RemoteStore) Clear(ctx context.Context, collection string) error {
	const query = `DELETE FROM documents WHERE collection = $1`
	if _, err := s.db.ExecContext(ctx, query, collection); err != nil {
		return fmt.Errorf("clear %s: %w", collection, err)
	}
	return nil
}
