package store

import "context"

// Reserved document field names, kept identical to the wire format the
// library has always produced.
const (
	FieldID         = "id"
	FieldIsActive   = "isActive"
	FieldCreated    = "created"
	FieldCreatedBy  = "createdBy"
	FieldModified   = "modified"
	FieldModifiedBy = "modifiedBy"
)

// DefaultQueryLimit caps list queries when the caller does not say otherwise.
const DefaultQueryLimit = 50

// Document is the persisted unit of data: an opaque id plus arbitrary named
// fields. The id is immutable once assigned.
type Document map[string]any

func (d Document) ID() string {
	id, _ := d[FieldID].(string)
	return id
}

func (d Document) IsActive() bool {
	active, _ := d[FieldIsActive].(bool)
	return active
}

func (d Document) CreatedBy() string {
	createdBy, _ := d[FieldCreatedBy].(string)
	return createdBy
}

// Clone returns a shallow copy. Nested values are shared.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for key, value := range d {
		out[key] = value
	}
	return out
}

// DataService is the pluggable document store behind the lifecycle
// controller. Single-document writes are atomic; multi-step check-then-write
// flows built on top of it are not.
//
// Reads that take includeInactive=false must hide archived documents.
// GetDocumentByID returns (nil, nil) when the document is absent or hidden.
type DataService interface {
	CreateDocument(ctx context.Context, collection string, data Document, userID string, noMetaData bool) (Document, error)
	GetDocumentByID(ctx context.Context, collection, id string, includeInactive bool) (Document, error)
	GetDocumentsByProp(ctx context.Context, collection, prop string, value any, includeInactive bool) ([]Document, error)
	GetDocumentsByProps(ctx context.Context, collection string, props map[string]any, includeInactive bool) ([]Document, error)
	GetActiveDocuments(ctx context.Context, collection string) ([]Document, error)
	GetAllDocuments(ctx context.Context, collection string) ([]Document, error)
	GetRecentDocuments(ctx context.Context, collection string, limit int) ([]Document, error)
	GetMyDocuments(ctx context.Context, collection, userID string) ([]Document, error)
	GetUserDocuments(ctx context.Context, collection, userID string) ([]Document, error)
	UpdateDocument(ctx context.Context, collection, id string, data Document, userID string, noMetaData bool) (Document, error)
	ArchiveDocument(ctx context.Context, collection, id string, userID string, noMetaData bool) (Document, error)
	DearchiveDocument(ctx context.Context, collection, id string, userID string, noMetaData bool) (Document, error)
	DeleteDocument(ctx context.Context, collection, id string) error
}
