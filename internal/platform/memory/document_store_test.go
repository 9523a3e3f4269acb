package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/phrazzld/notes-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentStoreCRUD(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewDocumentStore(nil)

	require.NoError(t, s.Set(ctx, "users", "u1", map[string]any{"email": "ada@example.com"}))

	doc, err := s.Get(ctx, "users", "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", doc.ID)
	assert.Equal(t, "ada@example.com", doc.Data["email"])

	doc.Data["email"] = "mutated@example.com"
	again, err := s.Get(ctx, "users", "u1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", again.Data["email"], "returned maps are copies")

	require.NoError(t, s.Update(ctx, "users", "u1", map[string]any{"name": "Ada"}))
	doc, err = s.Get(ctx, "users", "u1")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"email": "ada@example.com", "name": "Ada"}, doc.Data)

	require.NoError(t, s.Update(ctx, "users", "u1", map[string]any{}), "empty update is an existence check")
	assert.ErrorIs(t, s.Update(ctx, "users", "missing", map[string]any{}), store.ErrDocumentNotFound)

	require.NoError(t, s.Delete(ctx, "users", "u1"))
	require.NoError(t, s.Delete(ctx, "users", "u1"), "deleting twice is not an error")

	_, err = s.Get(ctx, "users", "u1")
	assert.ErrorIs(t, err, store.ErrDocumentNotFound)
	assert.True(t, store.IsNotFoundError(err))
}

func TestDocumentStoreAddAndWhere(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewDocumentStore(nil)

	id1, err := s.Add(ctx, "notes", map[string]any{"uid": "u1", "title": "a"})
	require.NoError(t, err)
	id2, err := s.Add(ctx, "notes", map[string]any{"uid": "u1", "title": "b"})
	require.NoError(t, err)
	_, err = s.Add(ctx, "notes", map[string]any{"uid": "u2", "title": "c"})
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	docs, err := s.Where(ctx, "notes", "uid", "u1")
	require.NoError(t, err)
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	assert.ElementsMatch(t, []string{id1, id2}, ids)

	none, err := s.Where(ctx, "notes", "uid", "nobody")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	none, err = s.Where(ctx, "unknown", "uid", "u1")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDocumentStoreConcurrentAdds(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewDocumentStore(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Add(ctx, "notes", map[string]any{"uid": "u1"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	docs, err := s.Where(ctx, "notes", "uid", "u1")
	require.NoError(t, err)
	assert.Len(t, docs, 50)
}
