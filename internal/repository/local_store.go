package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LocalStore is the fallback backend: one JSON array file per collection
// under a base directory, named <prefix>_<collection>.json. Every write
// replaces the whole array, staged through a temp file so a crash never
// leaves a half-written collection behind.
type LocalStore struct {
	dir    string
	prefix string

	mu  sync.Mutex
	seq int64
}

// Local id prefixes per collection, matching the historical key scheme.
var localIDPrefixes = map[string]string{
	CollUsers:         "user",
	CollStudents:      "stu",
	CollTeachers:      "teach",
	CollIncidentTypes: "type",
	CollIncidents:     "inc",
}

// NewLocalStore ensures the base directory exists and returns a handle.
func NewLocalStore(dir, prefix string) (*LocalStore, error) {
	if dir == "" {
		dir = "./data"
	}
	if prefix == "" {
		prefix = "inselpa"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create local store directory: %w", err)
	}
	return &LocalStore{dir: dir, prefix: prefix}, nil
}

// List returns every document in the collection in file order.
func (s *LocalStore) List(ctx context.Context, collection string) ([]Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(collection)
}

// Insert appends a document with a freshly assigned id.
func (s *LocalStore) Insert(ctx context.Context, collection string, data json.RawMessage) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.read(collection)
	if err != nil {
		return "", err
	}
	id := s.nextID(collection)
	docs = append(docs, Document{ID: id, Data: data})
	if err := s.write(collection, docs); err != nil {
		return "", err
	}
	return id, nil
}

// Update replaces the body of the document with the given id. Unknown ids
// are left untouched without error, mirroring the remote behavior.
func (s *LocalStore) Update(ctx context.Context, collection, id string, data json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.read(collection)
	if err != nil {
		return err
	}
	for i := range docs {
		if docs[i].ID == id {
			docs[i].Data = data
			return s.write(collection, docs)
		}
	}
	return nil
}

// Delete removes the document. Deleting an unknown id is not an error.
func (s *LocalStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.read(collection)
	if err != nil {
		return err
	}
	kept := docs[:0]
	for _, doc := range docs {
		if doc.ID != id {
			kept = append(kept, doc)
		}
	}
	if len(kept) == len(docs) {
		return nil
	}
	return s.write(collection, kept)
}

// FindByField returns documents whose top-level field equals value.
func (s *LocalStore) FindByField(ctx context.Context, collection, field, value string) ([]Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.read(collection)
	if err != nil {
		return nil, err
	}
	var matched []Document
	for _, doc := range docs {
		var body map[string]json.RawMessage
		if err := json.Unmarshal(doc.Data, &body); err != nil {
			continue
		}
		var fieldValue string
		if raw, ok := body[field]; ok {
			if err := json.Unmarshal(raw, &fieldValue); err != nil {
				continue
			}
		}
		if fieldValue == value {
			matched = append(matched, doc)
		}
	}
	return matched, nil
}

// BulkInsert appends all docs in one file replacement.
func (s *LocalStore) BulkInsert(ctx context.Context, collection string, docs []json.RawMessage) error {
	if len(docs) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.read(collection)
	if err != nil {
		return err
	}
	for _, data := range docs {
		existing = append(existing, Document{ID: s.nextID(collection), Data: data})
	}
	return s.write(collection, existing)
}

// Clear empties the collection.
func (s *LocalStore) Clear(ctx context.Context, collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(collection, nil)
}

func (s *LocalStore) path(collection string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s.json", s.prefix, collection))
}

// nextID mirrors the historical "<prefix>-<unix-ms>" scheme, with a
// sequence suffix so ids within one millisecond stay unique and are never
// reused.
func (s *LocalStore) nextID(collection string) string {
	prefix, ok := localIDPrefixes[collection]
	if !ok {
		prefix = "doc"
	}
	s.seq++
	return fmt.Sprintf("%s-%d-%d", prefix, time.Now().UnixMilli(), s.seq)
}

func (s *LocalStore) read(collection string) ([]Document, error) {
	raw, err := os.ReadFile(s.path(collection))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read local %s: %w", collection, err)
	}

	var items []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode local %s: %w", collection, err)
	}

	docs := make([]Document, 0, len(items))
	for _, item := range items {
		var id string
		if rawID, ok := item["id"]; ok {
			_ = json.Unmarshal(rawID, &id)
		}
		delete(item, "id")
		body, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("encode local %s: %w", collection, err)
		}
		docs = append(docs, Document{ID: id, Data: body})
	}
	return docs, nil
}

func (s *LocalStore) write(collection string, docs []Document) error {
	items := make([]map[string]json.RawMessage, 0, len(docs))
	for _, doc := range docs {
		var body map[string]json.RawMessage
		if err := json.Unmarshal(doc.Data, &body); err != nil {
			return fmt.Errorf("encode local %s: %w", collection, err)
		}
		if body == nil {
			body = map[string]json.RawMessage{}
		}
		idJSON, _ := json.Marshal(doc.ID)
		body["id"] = idJSON
		items = append(items, body)
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode local %s: %w", collection, err)
	}

	path := s.path(collection)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write local %s: %w", collection, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace local %s: %w", collection, err)
	}
	return nil
}
