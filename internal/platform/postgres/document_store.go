package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/notes-api/internal/platform/logger"
	"github.com/phrazzld/notes-api/internal/redact"
	"github.com/phrazzld/notes-api/internal/store"
)

// DocumentStore implements store.DocumentStore on the documents table.
// Each row holds one document as JSONB, keyed by (collection, id).
//
// Values round-trip through JSON, so numbers come back as float64 and
// time.Time values as strings.
type DocumentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.DocumentStore = (*DocumentStore)(nil)

// NewDocumentStore creates a DocumentStore. db may be a *sql.DB or a *sql.Tx.
// If log is nil, the default logger is used.
func NewDocumentStore(db store.DBTX, log *slog.Logger) *DocumentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &DocumentStore{
		db:     db,
		logger: log.With(slog.String("component", "postgres_document_store")),
	}
}

func encodeFields(data map[string]any) ([]byte, error) {
	if data == nil {
		data = map[string]any{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	return raw, nil
}

func decodeFields(raw []byte) (map[string]any, error) {
	data := map[string]any{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return data, nil
}

// Set implements store.DocumentStore.Set.
func (s *DocumentStore) Set(ctx context.Context, collection, id string, data map[string]any) error {
	if id == "" {
		return fmt.Errorf("%w: document id is empty", store.ErrInvalidEntity)
	}
	raw, err := encodeFields(data)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO documents (collection, id, data)
		VALUES ($1, $2, $3::jsonb)
		ON CONFLICT (collection, id)
		DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`
	if _, err := s.db.ExecContext(ctx, query, collection, id, raw); err != nil {
		s.logError(ctx, "failed to set document", err, collection, id)
		return MapError(err)
	}
	return nil
}

// Add implements store.DocumentStore.Add.
func (s *DocumentStore) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	raw, err := encodeFields(data)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	query := `INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3::jsonb)`
	if _, err := s.db.ExecContext(ctx, query, collection, id, raw); err != nil {
		s.logError(ctx, "failed to add document", err, collection, id)
		return "", MapError(err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("document added",
		slog.String("collection", collection),
		slog.String("document_id", id))
	return id, nil
}

// Get implements store.DocumentStore.Get.
func (s *DocumentStore) Get(ctx context.Context, collection, id string) (*store.Document, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s/%s", store.ErrDocumentNotFound, collection, id)
		}
		s.logError(ctx, "failed to get document", err, collection, id)
		return nil, MapError(err)
	}

	data, err := decodeFields(raw)
	if err != nil {
		return nil, err
	}
	return &store.Document{ID: id, Data: data}, nil
}

// Update implements store.DocumentStore.Update. Fields are merged with the
// JSONB concatenation operator, so keys not named in fields are kept.
func (s *DocumentStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	raw, err := encodeFields(fields)
	if err != nil {
		return err
	}

	query := `
		UPDATE documents
		SET data = data || $3::jsonb, updated_at = NOW()
		WHERE collection = $1 AND id = $2
	`
	result, err := s.db.ExecContext(ctx, query, collection, id, raw)
	if err != nil {
		s.logError(ctx, "failed to update document", err, collection, id)
		return MapError(err)
	}
	return CheckRowsAffected(result, fmt.Errorf("%w: %s/%s", store.ErrDocumentNotFound, collection, id))
}

// Delete implements store.DocumentStore.Delete.
func (s *DocumentStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`,
		collection, id)
	if err != nil {
		s.logError(ctx, "failed to delete document", err, collection, id)
		return MapError(err)
	}
	return nil
}

// Where implements store.DocumentStore.Where using JSONB containment, so
// the comparison respects the JSON type of value.
func (s *DocumentStore) Where(
	ctx context.Context,
	collection, field string,
	value any,
) ([]store.Document, error) {
	filter, err := encodeFields(map[string]any{field: value})
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, data FROM documents WHERE collection = $1 AND data @> $2::jsonb`,
		collection, filter)
	if err != nil {
		s.logError(ctx, "failed to query documents", err, collection, "")
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logError(ctx, "failed to close rows", closeErr, collection, "")
		}
	}()

	docs := []store.Document{}
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, MapError(err)
		}
		data, err := decodeFields(raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, store.Document{ID: id, Data: data})
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return docs, nil
}

func (s *DocumentStore) logError(ctx context.Context, msg string, err error, collection, id string) {
	logger.FromContextOrDefault(ctx, s.logger).Error(msg,
		redact.Attr(err),
		slog.String("collection", collection),
		slog.String("document_id", id))
}
