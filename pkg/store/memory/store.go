package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/turboapi/turbo/pkg/errors"
	"github.com/turboapi/turbo/pkg/store"
)

type memoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]store.Document
	now         func() time.Time
}

func NewMemoryStore() *memoryStore {
	return &memoryStore{
		collections: make(map[string]map[string]store.Document),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// collection materializes the per-collection map. Mutates s.collections, so
// callers must hold the write lock; read paths use lookup instead.
func (s *memoryStore) collection(name string) map[string]store.Document {
	col, ok := s.collections[name]
	if !ok {
		col = make(map[string]store.Document)
		s.collections[name] = col
	}
	return col
}

// lookup never mutates: an unknown collection reads as empty. Safe under a
// read lock.
func (s *memoryStore) lookup(name string) map[string]store.Document {
	return s.collections[name]
}

func (s *memoryStore) CreateDocument(ctx context.Context, collection string, data store.Document, userID string, noMetaData bool) (store.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := data.Clone()
	if doc == nil {
		doc = store.Document{}
	}
	if !noMetaData {
		now := s.now()
		doc[store.FieldCreated] = now
		doc[store.FieldCreatedBy] = userID
		doc[store.FieldModified] = now
		doc[store.FieldModifiedBy] = userID
	}
	doc[store.FieldIsActive] = true
	doc[store.FieldID] = uuid.NewString()

	s.collection(collection)[doc.ID()] = doc
	return doc.Clone(), nil
}

func (s *memoryStore) GetDocumentByID(ctx context.Context, collection, id string, includeInactive bool) (store.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.lookup(collection)[id]
	if !ok {
		return nil, nil
	}
	if !doc.IsActive() && !includeInactive {
		return nil, nil
	}
	return doc.Clone(), nil
}

func (s *memoryStore) GetDocumentsByProp(ctx context.Context, collection, prop string, value any, includeInactive bool) ([]store.Document, error) {
	return s.GetDocumentsByProps(ctx, collection, map[string]any{prop: value}, includeInactive)
}

func (s *memoryStore) GetDocumentsByProps(ctx context.Context, collection string, props map[string]any, includeInactive bool) ([]store.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.query(collection, func(doc store.Document) bool {
		if !doc.IsActive() && !includeInactive {
			return false
		}
		for prop, value := range props {
			if !valueEquals(doc[prop], value) {
				return false
			}
		}
		return true
	}), nil
}

func (s *memoryStore) GetActiveDocuments(ctx context.Context, collection string) ([]store.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.query(collection, func(doc store.Document) bool {
		return doc.IsActive()
	}), nil
}

func (s *memoryStore) GetAllDocuments(ctx context.Context, collection string) ([]store.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.query(collection, func(store.Document) bool { return true }), nil
}

func (s *memoryStore) GetRecentDocuments(ctx context.Context, collection string, limit int) ([]store.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]store.Document, 0)
	for _, doc := range s.lookup(collection) {
		docs = append(docs, doc.Clone())
	}
	sort.Slice(docs, func(i, j int) bool {
		return createdAt(docs[j]).Before(createdAt(docs[i]))
	})

	if limit <= 0 {
		limit = store.DefaultQueryLimit
	}
	if len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

func (s *memoryStore) GetMyDocuments(ctx context.Context, collection, userID string) ([]store.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.query(collection, func(doc store.Document) bool {
		return doc.IsActive() && doc.CreatedBy() == userID
	}), nil
}

func (s *memoryStore) GetUserDocuments(ctx context.Context, collection, userID string) ([]store.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.query(collection, func(doc store.Document) bool {
		return doc.CreatedBy() == userID
	}), nil
}

func (s *memoryStore) UpdateDocument(ctx context.Context, collection, id string, data store.Document, userID string, noMetaData bool) (store.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.collection(collection)[id]
	if !ok {
		return nil, notFound(collection, id)
	}

	// Shallow last-write-wins merge of the update payload over the
	// existing fields.
	merged := existing.Clone()
	for key, value := range data {
		merged[key] = value
	}
	merged[store.FieldID] = id
	s.stamp(merged, userID, noMetaData)

	s.collection(collection)[id] = merged
	return merged.Clone(), nil
}

func (s *memoryStore) ArchiveDocument(ctx context.Context, collection, id string, userID string, noMetaData bool) (store.Document, error) {
	return s.setActive(collection, id, userID, noMetaData, false)
}

func (s *memoryStore) DearchiveDocument(ctx context.Context, collection, id string, userID string, noMetaData bool) (store.Document, error) {
	return s.setActive(collection, id, userID, noMetaData, true)
}

func (s *memoryStore) DeleteDocument(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collection(collection)[id]; !ok {
		return notFound(collection, id)
	}
	delete(s.collection(collection), id)
	return nil
}

func (s *memoryStore) setActive(collection, id, userID string, noMetaData, active bool) (store.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.collection(collection)[id]
	if !ok {
		return nil, notFound(collection, id)
	}

	updated := existing.Clone()
	updated[store.FieldIsActive] = active
	s.stamp(updated, userID, noMetaData)

	s.collection(collection)[id] = updated
	return updated.Clone(), nil
}

func (s *memoryStore) stamp(doc store.Document, userID string, noMetaData bool) {
	if noMetaData || userID == "" {
		return
	}
	doc[store.FieldModified] = s.now()
	doc[store.FieldModifiedBy] = userID
}

// query returns matching documents ordered by id, capped at the default
// query limit. Callers must hold at least a read lock.
func (s *memoryStore) query(collection string, match func(store.Document) bool) []store.Document {
	docs := make([]store.Document, 0)
	for _, doc := range s.lookup(collection) {
		if match(doc) {
			docs = append(docs, doc.Clone())
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID() < docs[j].ID() })
	if len(docs) > store.DefaultQueryLimit {
		docs = docs[:store.DefaultQueryLimit]
	}
	return docs
}

func createdAt(doc store.Document) time.Time {
	created, _ := doc[store.FieldCreated].(time.Time)
	return created
}

func notFound(collection, id string) error {
	return errors.NewNotFoundError(fmt.Sprintf("%s:%s not found", collection, id))
}

// valueEquals compares a stored field against a query value, tolerating the
// int/float64 mismatch introduced by JSON decoding.
func valueEquals(a, b any) bool {
	if af, aok := toFloat(a); aok {
		bf, bok := toFloat(b)
		return bok && af == bf
	}
	return a == b
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
