// Package repository implements the persistence gateway: a uniform CRUD
// surface per entity routed to either the remote document store or the
// local file store, with read degradation from remote to local.
package repository

import (
	"context"
	"encoding/json"
)

// Collection names. The same names key the remote tables and the local
// fallback files.
const (
	CollUsers         = "users"
	CollStudents      = "students"
	CollTeachers      = "teachers"
	CollIncidentTypes = "incident_types"
	CollIncidents     = "incidents"
)

// Document is one stored record: an opaque store-assigned ID plus the JSON
// body without the id field.
type Document struct {
	ID   string
	Data json.RawMessage
}

// DocumentStore is the per-collection contract both backends implement.
// Deletes are idempotent; Insert assigns and returns a fresh ID that is
// never reused.
type DocumentStore interface {
	List(ctx context.Context, collection string) ([]Document, error)
	Insert(ctx context.Context, collection string, data json.RawMessage) (string, error)
	Update(ctx context.Context, collection, id string, data json.RawMessage) error
	Delete(ctx context.Context, collection, id string) error
	FindByField(ctx context.Context, collection, field, value string) ([]Document, error)
	// BulkInsert writes all docs in one transaction. Callers are expected
	// to chunk to the backend's write-size ceiling.
	BulkInsert(ctx context.Context, collection string, docs []json.RawMessage) error
	Clear(ctx context.Context, collection string) error
}
