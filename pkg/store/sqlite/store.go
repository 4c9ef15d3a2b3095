package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/turboapi/turbo/pkg/errors"
	"github.com/turboapi/turbo/pkg/store"
)

// documentRow persists one document. The full document (metadata included)
// lives in the data JSON column; collection, is_active, created_by and
// created are mirrored into columns so queries never parse JSON in Go.
type documentRow struct {
	ID         string    `gorm:"column:id;primaryKey"`
	Collection string    `gorm:"column:collection;primaryKey;index:idx_documents_collection"`
	Data       string    `gorm:"column:data;not null"`
	IsActive   bool      `gorm:"column:is_active"`
	CreatedBy  string    `gorm:"column:created_by;index:idx_documents_created_by"`
	Created    time.Time `gorm:"column:created"`
}

func (documentRow) TableName() string { return "documents" }

var propNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Store is a DataService backed by a single sqlite documents table.
// Timestamps round-trip through JSON, so documents read back carry RFC3339
// strings in their metadata fields.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}
	return db, nil
}

func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&documentRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate documents table: %v", err)
	}
	return &Store{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *Store) CreateDocument(ctx context.Context, collection string, data store.Document, userID string, noMetaData bool) (store.Document, error) {
	doc := data.Clone()
	if doc == nil {
		doc = store.Document{}
	}

	now := s.now()
	if !noMetaData {
		doc[store.FieldCreated] = now
		doc[store.FieldCreatedBy] = userID
		doc[store.FieldModified] = now
		doc[store.FieldModifiedBy] = userID
	}
	doc[store.FieldIsActive] = true
	doc[store.FieldID] = uuid.NewString()

	row, err := encodeRow(collection, doc, now)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, storageError(err)
	}
	return doc, nil
}

func (s *Store) GetDocumentByID(ctx context.Context, collection, id string, includeInactive bool) (store.Document, error) {
	row, err := s.fetch(ctx, collection, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if !row.IsActive && !includeInactive {
		return nil, nil
	}
	return decodeRow(row)
}

func (s *Store) GetDocumentsByProp(ctx context.Context, collection, prop string, value any, includeInactive bool) ([]store.Document, error) {
	return s.GetDocumentsByProps(ctx, collection, map[string]any{prop: value}, includeInactive)
}

func (s *Store) GetDocumentsByProps(ctx context.Context, collection string, props map[string]any, includeInactive bool) ([]store.Document, error) {
	q := s.baseQuery(ctx, collection, includeInactive)
	for prop, value := range props {
		if !propNamePattern.MatchString(prop) {
			return nil, errors.NewValidationError(fmt.Sprintf("invalid property name %q", prop))
		}
		q = q.Where(fmt.Sprintf("json_extract(data, '$.%s') = ?", prop), value)
	}
	return s.list(q)
}

func (s *Store) GetActiveDocuments(ctx context.Context, collection string) ([]store.Document, error) {
	return s.list(s.baseQuery(ctx, collection, false))
}

func (s *Store) GetAllDocuments(ctx context.Context, collection string) ([]store.Document, error) {
	return s.list(s.baseQuery(ctx, collection, true))
}

func (s *Store) GetRecentDocuments(ctx context.Context, collection string, limit int) ([]store.Document, error) {
	if limit <= 0 {
		limit = store.DefaultQueryLimit
	}
	q := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("created DESC").
		Limit(limit)

	var rows []documentRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, storageError(err)
	}
	return decodeRows(rows)
}

func (s *Store) GetMyDocuments(ctx context.Context, collection, userID string) ([]store.Document, error) {
	return s.list(s.baseQuery(ctx, collection, false).Where("created_by = ?", userID))
}

func (s *Store) GetUserDocuments(ctx context.Context, collection, userID string) ([]store.Document, error) {
	return s.list(s.baseQuery(ctx, collection, true).Where("created_by = ?", userID))
}

func (s *Store) UpdateDocument(ctx context.Context, collection, id string, data store.Document, userID string, noMetaData bool) (store.Document, error) {
	row, err := s.fetch(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	doc, err := decodeRow(row)
	if err != nil {
		return nil, err
	}

	for key, value := range data {
		doc[key] = value
	}
	doc[store.FieldID] = id
	return s.save(ctx, collection, doc, row.Created, userID, noMetaData)
}

func (s *Store) ArchiveDocument(ctx context.Context, collection, id string, userID string, noMetaData bool) (store.Document, error) {
	return s.setActive(ctx, collection, id, userID, noMetaData, false)
}

func (s *Store) DearchiveDocument(ctx context.Context, collection, id string, userID string, noMetaData bool) (store.Document, error) {
	return s.setActive(ctx, collection, id, userID, noMetaData, true)
}

func (s *Store) DeleteDocument(ctx context.Context, collection, id string) error {
	result := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		Delete(&documentRow{})
	if result.Error != nil {
		return storageError(result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("%s:%s not found", collection, id))
	}
	return nil
}

func (s *Store) setActive(ctx context.Context, collection, id, userID string, noMetaData, active bool) (store.Document, error) {
	row, err := s.fetch(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	doc, err := decodeRow(row)
	if err != nil {
		return nil, err
	}

	doc[store.FieldIsActive] = active
	return s.save(ctx, collection, doc, row.Created, userID, noMetaData)
}

func (s *Store) save(ctx context.Context, collection string, doc store.Document, created time.Time, userID string, noMetaData bool) (store.Document, error) {
	if !noMetaData && userID != "" {
		doc[store.FieldModified] = s.now()
		doc[store.FieldModifiedBy] = userID
	}

	row, err := encodeRow(collection, doc, created)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return nil, storageError(err)
	}
	return doc, nil
}

func (s *Store) fetch(ctx context.Context, collection, id string) (documentRow, error) {
	var row documentRow
	err := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return row, errors.NewNotFoundError(fmt.Sprintf("%s:%s not found", collection, id))
		}
		return row, storageError(err)
	}
	return row, nil
}

func (s *Store) baseQuery(ctx context.Context, collection string, includeInactive bool) *gorm.DB {
	q := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("id").
		Limit(store.DefaultQueryLimit)
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	return q
}

func (s *Store) list(q *gorm.DB) ([]store.Document, error) {
	var rows []documentRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, storageError(err)
	}
	return decodeRows(rows)
}

func encodeRow(collection string, doc store.Document, created time.Time) (documentRow, error) {
	payload, err := json.Marshal(doc)
	if err != nil {
		return documentRow{}, errors.NewInternalError("failed to encode document").WithReason(err.Error())
	}
	return documentRow{
		ID:         doc.ID(),
		Collection: collection,
		Data:       string(payload),
		IsActive:   doc.IsActive(),
		CreatedBy:  doc.CreatedBy(),
		Created:    created,
	}, nil
}

func decodeRow(row documentRow) (store.Document, error) {
	var doc store.Document
	if err := json.Unmarshal([]byte(row.Data), &doc); err != nil {
		return nil, errors.NewInternalError("failed to decode document").WithReason(err.Error())
	}
	return doc, nil
}

func decodeRows(rows []documentRow) ([]store.Document, error) {
	docs := make([]store.Document, 0, len(rows))
	for _, row := range rows {
		doc, err := decodeRow(row)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func storageError(err error) error {
	return errors.NewDependencyError("storage operation failed").WithReason(err.Error())
}
