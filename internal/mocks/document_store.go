package mocks

import (
	"context"

	"github.com/phrazzld/notes-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// DocumentStore is a testify mock of store.DocumentStore.
type DocumentStore struct {
	mock.Mock
}

var _ store.DocumentStore = (*DocumentStore)(nil)

// Set is a mock implementation of store.DocumentStore.Set
func (m *DocumentStore) Set(ctx context.Context, collection, id string, data map[string]any) error {
	args := m.Called(ctx, collection, id, data)
	return args.Error(0)
}

// Add is a mock implementation of store.DocumentStore.Add
func (m *DocumentStore) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	args := m.Called(ctx, collection, data)
	return args.String(0), args.Error(1)
}

// Get is a mock implementation of store.DocumentStore.Get
func (m *DocumentStore) Get(ctx context.Context, collection, id string) (*store.Document, error) {
	args := m.Called(ctx, collection, id)
	if doc, ok := args.Get(0).(*store.Document); ok {
		return doc, args.Error(1)
	}
	return nil, args.Error(1)
}

// Update is a mock implementation of store.DocumentStore.Update
func (m *DocumentStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	args := m.Called(ctx, collection, id, fields)
	return args.Error(0)
}

// Delete is a mock implementation of store.DocumentStore.Delete
func (m *DocumentStore) Delete(ctx context.Context, collection, id string) error {
	args := m.Called(ctx, collection, id)
	return args.Error(0)
}

// Where is a mock implementation of store.DocumentStore.Where
func (m *DocumentStore) Where(ctx context.Context, collection, field string, value any) ([]store.Document, error) {
	args := m.Called(ctx, collection, field, value)
	if docs, ok := args.Get(0).([]store.Document); ok {
		return docs, args.Error(1)
	}
	return nil, args.Error(1)
}
