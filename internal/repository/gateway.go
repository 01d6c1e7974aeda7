package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/inselpa/incident-api/internal/models"
)

// maxBatchWrite is the remote backend's per-transaction write-size ceiling.
const maxBatchWrite = 450

// StoreMetrics receives gateway-level instrumentation events.
type StoreMetrics interface {
	IncFallbackRead(collection string)
	ObserveStoreOperation(operation, collection string, duration time.Duration)
}

// Gateway routes entity CRUD to whichever backend is active. The mode is
// fixed at construction: pass a remote store to run remote-first with local
// read degradation, or nil to run purely local for the process lifetime.
//
// Reads never surface remote errors to callers; they degrade to the local
// store's contents. Writes propagate remote errors so the caller can keep
// form state and retry.
type Gateway struct {
	remote  DocumentStore
	local   DocumentStore
	seed    models.User
	logger  *zap.Logger
	metrics StoreMetrics
	coll    *collate.Collator
}

// NewGateway constructs a Gateway. seed is the account planted whenever the
// user collection turns up empty, so a fresh installation can always log in.
func NewGateway(remote, local DocumentStore, seed models.User, logger *zap.Logger, metrics StoreMetrics) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		remote:  remote,
		local:   local,
		seed:    seed,
		logger:  logger,
		metrics: metrics,
		coll:    collate.New(language.Spanish),
	}
}

// RemoteEnabled reports whether the gateway was built in remote mode.
func (g *Gateway) RemoteEnabled() bool {
	return g.remote != nil
}

// observe reports the duration of a store operation. Meant to be deferred
// at the top of each operation: defer g.observe("list", coll, time.Now()).
func (g *Gateway) observe(operation, collection string, start time.Time) {
	if g.metrics != nil {
		g.metrics.ObserveStoreOperation(operation, collection, time.Since(start))
	}
}

func (g *Gateway) writeStore() DocumentStore {
	if g.remote != nil {
		return g.remote
	}
	return g.local
}

// listDocs reads a collection with the fallback policy applied.
func (g *Gateway) listDocs(ctx context.Context, collection string) ([]Document, error) {
	defer g.observe("list", collection, time.Now())
	if g.remote != nil {
		docs, err := g.remote.List(ctx, collection)
		if err == nil {
			return docs, nil
		}
		g.logger.Warn("remote list failed, serving local fallback",
			zap.String("collection", collection), zap.Error(err))
		if g.metrics != nil {
			g.metrics.IncFallbackRead(collection)
		}
	}
	docs, err := g.local.List(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("local list %s: %w", collection, err)
	}
	return docs, nil
}

// encodeDoc is the single funnel for persisted bodies. Model structs carry
// no omitempty tags, so absent optionals always reach the store as explicit
// nulls.
func encodeDoc(v any) (json.RawMessage, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return raw, nil
}

func decodeDocs[T any](docs []Document, setID func(*T, string)) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var item T
		if err := json.Unmarshal(doc.Data, &item); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", doc.ID, err)
		}
		setID(&item, doc.ID)
		out = append(out, item)
	}
	return out, nil
}

// save routes to insert or update based on the record's tagged state: an
// empty id is a draft and gets inserted, anything else updates in place.
func (g *Gateway) save(ctx context.Context, collection, id string, v any) (string, error) {
	data, err := encodeDoc(v)
	if err != nil {
		return "", err
	}
	store := g.writeStore()
	if id == "" {
		defer g.observe("insert", collection, time.Now())
		newID, err := store.Insert(ctx, collection, data)
		if err != nil {
			return "", fmt.Errorf("insert %s: %w", collection, err)
		}
		return newID, nil
	}
	defer g.observe("update", collection, time.Now())
	if err := store.Update(ctx, collection, id, data); err != nil {
		return "", fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return id, nil
}

func (g *Gateway) delete(ctx context.Context, collection, id string) error {
	defer g.observe("delete", collection, time.Now())
	if err := g.writeStore().Delete(ctx, collection, id); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// --- Users ---

// ListUsers returns all accounts, planting the seed admin when the
// collection is empty so the application never locks everyone out.
func (g *Gateway) ListUsers(ctx context.Context) ([]models.User, error) {
	docs, err := g.listDocs(ctx, CollUsers)
	if err != nil {
		return nil, err
	}
	users, err := decodeDocs(docs, func(u *models.User, id string) { u.ID = id })
	if err != nil {
		return nil, err
	}
	if len(users) == 0 && g.seed.Username != "" {
		seeded, err := g.SaveUser(ctx, g.seed)
		if err != nil {
			g.logger.Warn("could not seed default admin", zap.Error(err))
			fallback := g.seed
			return []models.User{fallback}, nil
		}
		return []models.User{seeded}, nil
	}
	return users, nil
}

// SaveUser inserts or updates an account. Inserts first look for an
// existing record with the same username and update it instead, so the
// unique-username rule holds without a backend constraint.
func (g *Gateway) SaveUser(ctx context.Context, user models.User) (models.User, error) {
	if user.ID == "" {
		existing, err := g.writeStore().FindByField(ctx, CollUsers, "username", user.Username)
		if err != nil {
			return models.User{}, fmt.Errorf("check duplicate username: %w", err)
		}
		if len(existing) > 0 {
			user.ID = existing[0].ID
		}
	}
	id, err := g.save(ctx, CollUsers, user.ID, user)
	if err != nil {
		return models.User{}, err
	}
	user.ID = id
	return user, nil
}

// DeleteUser removes an account; unknown ids are a no-op.
func (g *Gateway) DeleteUser(ctx context.Context, id string) error {
	return g.delete(ctx, CollUsers, id)
}

// --- Students ---

// ListStudents returns all students ordered by full name using Spanish
// collation, regardless of which backend served them.
func (g *Gateway) ListStudents(ctx context.Context) ([]models.Student, error) {
	docs, err := g.listDocs(ctx, CollStudents)
	if err != nil {
		return nil, err
	}
	students, err := decodeDocs(docs, func(s *models.Student, id string) { s.ID = id })
	if err != nil {
		return nil, err
	}
	sort.SliceStable(students, func(i, j int) bool {
		return g.coll.CompareString(students[i].FullName, students[j].FullName) < 0
	})
	return students, nil
}

// SaveStudent inserts or updates a student.
func (g *Gateway) SaveStudent(ctx context.Context, student models.Student) (models.Student, error) {
	id, err := g.save(ctx, CollStudents, student.ID, student)
	if err != nil {
		return models.Student{}, err
	}
	student.ID = id
	return student, nil
}

// DeleteStudent removes a student; unknown ids are a no-op.
func (g *Gateway) DeleteStudent(ctx context.Context, id string) error {
	return g.delete(ctx, CollStudents, id)
}

// BulkImportStudents writes staged students in batches of at most
// maxBatchWrite documents per transaction, strictly one batch after the
// other. Only the roster fields are persisted; staged ids are discarded.
func (g *Gateway) BulkImportStudents(ctx context.Context, students []models.Student) error {
	store := g.writeStore()
	for start := 0; start < len(students); start += maxBatchWrite {
		end := start + maxBatchWrite
		if end > len(students) {
			end = len(students)
		}
		batch := make([]json.RawMessage, 0, end-start)
		for _, student := range students[start:end] {
			data, err := encodeDoc(models.Student{FullName: student.FullName, Course: student.Course})
			if err != nil {
				return err
			}
			batch = append(batch, data)
		}
		batchStart := time.Now()
		if err := store.BulkInsert(ctx, CollStudents, batch); err != nil {
			return fmt.Errorf("bulk import batch at %d: %w", start, err)
		}
		g.observe("bulk_insert", CollStudents, batchStart)
	}
	return nil
}

// --- Teachers ---

// ListTeachers returns all teachers in backend order.
func (g *Gateway) ListTeachers(ctx context.Context) ([]models.Teacher, error) {
	docs, err := g.listDocs(ctx, CollTeachers)
	if err != nil {
		return nil, err
	}
	return decodeDocs(docs, func(t *models.Teacher, id string) { t.ID = id })
}

// SaveTeacher inserts or updates a teacher.
func (g *Gateway) SaveTeacher(ctx context.Context, teacher models.Teacher) (models.Teacher, error) {
	id, err := g.save(ctx, CollTeachers, teacher.ID, teacher)
	if err != nil {
		return models.Teacher{}, err
	}
	teacher.ID = id
	return teacher, nil
}

// DeleteTeacher removes a teacher; unknown ids are a no-op.
func (g *Gateway) DeleteTeacher(ctx context.Context, id string) error {
	return g.delete(ctx, CollTeachers, id)
}

// --- Incident types ---

// ListIncidentTypes returns all category labels in backend order.
func (g *Gateway) ListIncidentTypes(ctx context.Context) ([]models.IncidentType, error) {
	docs, err := g.listDocs(ctx, CollIncidentTypes)
	if err != nil {
		return nil, err
	}
	return decodeDocs(docs, func(t *models.IncidentType, id string) { t.ID = id })
}

// SaveIncidentType inserts or updates a category label.
func (g *Gateway) SaveIncidentType(ctx context.Context, it models.IncidentType) (models.IncidentType, error) {
	id, err := g.save(ctx, CollIncidentTypes, it.ID, it)
	if err != nil {
		return models.IncidentType{}, err
	}
	it.ID = id
	return it, nil
}

// DeleteIncidentType removes a category label; unknown ids are a no-op.
func (g *Gateway) DeleteIncidentType(ctx context.Context, id string) error {
	return g.delete(ctx, CollIncidentTypes, id)
}

// --- Incidents ---

// ListIncidents returns all incidents newest first. Records are ordered by
// their creation stamp; legacy records without one fall back to comparing
// the calendar date string.
func (g *Gateway) ListIncidents(ctx context.Context) ([]models.Incident, error) {
	docs, err := g.listDocs(ctx, CollIncidents)
	if err != nil {
		return nil, err
	}
	incidents, err := decodeDocs(docs, func(i *models.Incident, id string) { i.ID = id })
	if err != nil {
		return nil, err
	}
	sort.SliceStable(incidents, func(i, j int) bool {
		a, b := incidents[i], incidents[j]
		if a.CreatedAt != 0 && b.CreatedAt != 0 {
			return a.CreatedAt > b.CreatedAt
		}
		return a.Date > b.Date
	})
	return incidents, nil
}

// SaveIncident persists an incident. Incidents are append-only: the record
// is always inserted, never updated.
func (g *Gateway) SaveIncident(ctx context.Context, incident models.Incident) (models.Incident, error) {
	incident.ID = ""
	id, err := g.save(ctx, CollIncidents, "", incident)
	if err != nil {
		return models.Incident{}, err
	}
	incident.ID = id
	return incident, nil
}

// DeleteIncident removes an incident; unknown ids are a no-op.
func (g *Gateway) DeleteIncident(ctx context.Context, id string) error {
	return g.delete(ctx, CollIncidents, id)
}

// ClearYearlyData wipes every student and incident record before a new
// school year. Users, teachers and incident types survive.
func (g *Gateway) ClearYearlyData(ctx context.Context) error {
	store := g.writeStore()
	for _, collection := range []string{CollStudents, CollIncidents} {
		start := time.Now()
		if err := store.Clear(ctx, collection); err != nil {
			return fmt.Errorf("clear %s: %w", collection, err)
		}
		g.observe("clear", collection, start)
	}
	return nil
}
