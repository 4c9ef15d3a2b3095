package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/turboapi/turbo/pkg/store"
)

// MockDataService is a testify mock of the store.DataService contract.
type MockDataService struct {
	mock.Mock
}

func NewMockDataService() *MockDataService {
	return &MockDataService{}
}

func (m *MockDataService) CreateDocument(ctx context.Context, collection string, data store.Document, userID string, noMetaData bool) (store.Document, error) {
	args := m.Called(ctx, collection, data, userID, noMetaData)
	return toDocument(args.Get(0)), args.Error(1)
}

func (m *MockDataService) GetDocumentByID(ctx context.Context, collection, id string, includeInactive bool) (store.Document, error) {
	args := m.Called(ctx, collection, id, includeInactive)
	return toDocument(args.Get(0)), args.Error(1)
}

func (m *MockDataService) GetDocumentsByProp(ctx context.Context, collection, prop string, value any, includeInactive bool) ([]store.Document, error) {
	args := m.Called(ctx, collection, prop, value, includeInactive)
	return toDocuments(args.Get(0)), args.Error(1)
}

func (m *MockDataService) GetDocumentsByProps(ctx context.Context, collection string, props map[string]any, includeInactive bool) ([]store.Document, error) {
	args := m.Called(ctx, collection, props, includeInactive)
	return toDocuments(args.Get(0)), args.Error(1)
}

func (m *MockDataService) GetActiveDocuments(ctx context.Context, collection string) ([]store.Document, error) {
	args := m.Called(ctx, collection)
	return toDocuments(args.Get(0)), args.Error(1)
}

func (m *MockDataService) GetAllDocuments(ctx context.Context, collection string) ([]store.Document, error) {
	args := m.Called(ctx, collection)
	return toDocuments(args.Get(0)), args.Error(1)
}

func (m *MockDataService) GetRecentDocuments(ctx context.Context, collection string, limit int) ([]store.Document, error) {
	args := m.Called(ctx, collection, limit)
	return toDocuments(args.Get(0)), args.Error(1)
}

func (m *MockDataService) GetMyDocuments(ctx context.Context, collection, userID string) ([]store.Document, error) {
	args := m.Called(ctx, collection, userID)
	return toDocuments(args.Get(0)), args.Error(1)
}

func (m *MockDataService) GetUserDocuments(ctx context.Context, collection, userID string) ([]store.Document, error) {
	args := m.Called(ctx, collection, userID)
	return toDocuments(args.Get(0)), args.Error(1)
}

func (m *MockDataService) UpdateDocument(ctx context.Context, collection, id string, data store.Document, userID string, noMetaData bool) (store.Document, error) {
	args := m.Called(ctx, collection, id, data, userID, noMetaData)
	return toDocument(args.Get(0)), args.Error(1)
}

func (m *MockDataService) ArchiveDocument(ctx context.Context, collection, id string, userID string, noMetaData bool) (store.Document, error) {
	args := m.Called(ctx, collection, id, userID, noMetaData)
	return toDocument(args.Get(0)), args.Error(1)
}

func (m *MockDataService) DearchiveDocument(ctx context.Context, collection, id string, userID string, noMetaData bool) (store.Document, error) {
	args := m.Called(ctx, collection, id, userID, noMetaData)
	return toDocument(args.Get(0)), args.Error(1)
}

func (m *MockDataService) DeleteDocument(ctx context.Context, collection, id string) error {
	args := m.Called(ctx, collection, id)
	return args.Error(0)
}

func toDocument(v any) store.Document {
	if doc, ok := v.(store.Document); ok {
		return doc
	}
	return nil
}

func toDocuments(v any) []store.Document {
	if docs, ok := v.([]store.Document); ok {
		return docs
	}
	return nil
}
