package store

import "context"

// Document is a schemaless record in a named collection.
type Document struct {
	ID   string
	Data map[string]any
}

// DocumentStore is a collection-based document database.
type DocumentStore interface {
	// Set writes data under id, replacing any existing document.
	Set(ctx context.Context, collection, id string, data map[string]any) error

	// Add writes data under a store-assigned id and returns that id.
	Add(ctx context.Context, collection string, data map[string]any) (string, error)

	// Get returns the document stored under id.
	// Returns ErrDocumentNotFound if there is none.
	Get(ctx context.Context, collection, id string) (*Document, error)

	// Update merges fields into an existing document. An empty fields map
	// is allowed and only checks that the document exists.
	// Returns ErrDocumentNotFound if there is no document under id.
	Update(ctx context.Context, collection, id string, fields map[string]any) error

	// Delete removes the document under id. Deleting a missing document
	// is not an error.
	Delete(ctx context.Context, collection, id string) error

	// Where returns every document whose field equals value. The order of
	// the result is unspecified and may differ between calls.
	Where(ctx context.Context, collection, field string, value any) ([]Document, error)
}
