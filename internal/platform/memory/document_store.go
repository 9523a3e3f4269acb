package memory

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/notes-api/internal/platform/logger"
	"github.com/phrazzld/notes-api/internal/store"
)

// DocumentStore keeps collections of documents in maps. It is safe for
// concurrent use. Stored and returned field maps are copies, so callers
// may mutate them freely.
type DocumentStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]any
	logger      *slog.Logger
}

var _ store.DocumentStore = (*DocumentStore)(nil)

// NewDocumentStore creates an empty DocumentStore. If log is nil, the
// default logger is used.
func NewDocumentStore(log *slog.Logger) *DocumentStore {
	if log == nil {
		log = slog.Default()
	}
	return &DocumentStore{
		collections: make(map[string]map[string]map[string]any),
		logger:      log.With(slog.String("component", "memory_document_store")),
	}
}

func (s *DocumentStore) collection(name string) map[string]map[string]any {
	c, ok := s.collections[name]
	if !ok {
		c = make(map[string]map[string]any)
		s.collections[name] = c
	}
	return c
}

func cloneFields(data map[string]any) map[string]any {
	if data == nil {
		return map[string]any{}
	}
	return maps.Clone(data)
}

// Set implements store.DocumentStore.Set.
func (s *DocumentStore) Set(ctx context.Context, collection, id string, data map[string]any) error {
	if id == "" {
		return fmt.Errorf("%w: document id is empty", store.ErrInvalidEntity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.collection(collection)[id] = cloneFields(data)
	return nil
}

// Add implements store.DocumentStore.Add.
func (s *DocumentStore) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.collection(collection)[id] = cloneFields(data)
	logger.FromContextOrDefault(ctx, s.logger).Debug("document added",
		slog.String("collection", collection),
		slog.String("document_id", id))
	return id, nil
}

// Get implements store.DocumentStore.Get.
func (s *DocumentStore) Get(ctx context.Context, collection, id string) (*store.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.collections[collection][id]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", store.ErrDocumentNotFound, collection, id)
	}
	return &store.Document{ID: id, Data: cloneFields(data)}, nil
}

// Update implements store.DocumentStore.Update.
func (s *DocumentStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.collections[collection][id]
	if !ok {
		return fmt.Errorf("%w: %s/%s", store.ErrDocumentNotFound, collection, id)
	}
	maps.Copy(data, fields)
	return nil
}

// Delete implements store.DocumentStore.Delete.
func (s *DocumentStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.collections[collection], id)
	return nil
}

// Where implements store.DocumentStore.Where. Results follow map iteration
// order, which Go randomizes.
func (s *DocumentStore) Where(
	ctx context.Context,
	collection, field string,
	value any,
) ([]store.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := []store.Document{}
	for id, data := range s.collections[collection] {
		if v, ok := data[field]; ok && reflect.DeepEqual(v, value) {
			docs = append(docs, store.Document{ID: id, Data: cloneFields(data)})
		}
	}
	return docs, nil
}
