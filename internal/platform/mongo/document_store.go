package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/notes-api/internal/platform/logger"
	"github.com/phrazzld/notes-api/internal/redact"
	"github.com/phrazzld/notes-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const idField = "_id"

// ConnectTimeout bounds Connect's initial ping.
const ConnectTimeout = 10 * time.Second

// DocumentStore implements store.DocumentStore on a Mongo database.
type DocumentStore struct {
	db     *mongo.Database
	logger *slog.Logger
}

var _ store.DocumentStore = (*DocumentStore)(nil)

// Connect opens a client for uri and verifies it with a ping. The caller
// owns the client and must Disconnect it.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, nil
}

// NewDocumentStore creates a DocumentStore on db. If log is nil, the default
// logger is used.
func NewDocumentStore(db *mongo.Database, log *slog.Logger) *DocumentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &DocumentStore{
		db:     db,
		logger: log.With(slog.String("component", "mongo_document_store")),
	}
}

// Ping reports whether the server is reachable.
func (s *DocumentStore) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, readpref.Primary())
}

// toBSON copies data into a bson.M with id as _id.
func toBSON(id string, data map[string]any) bson.M {
	doc := make(bson.M, len(data)+1)
	for k, v := range data {
		doc[k] = v
	}
	doc[idField] = id
	return doc
}

// fromBSON splits a stored document into its id and fields.
func fromBSON(raw bson.M) store.Document {
	data := make(map[string]any, len(raw))
	var id string
	for k, v := range raw {
		if k == idField {
			id = fmt.Sprint(v)
			continue
		}
		data[k] = v
	}
	return store.Document{ID: id, Data: data}
}

// Set implements store.DocumentStore.Set.
func (s *DocumentStore) Set(ctx context.Context, collection, id string, data map[string]any) error {
	if id == "" {
		return fmt.Errorf("%w: document id is empty", store.ErrInvalidEntity)
	}

	_, err := s.db.Collection(collection).ReplaceOne(ctx,
		bson.M{idField: id},
		toBSON(id, data),
		options.Replace().SetUpsert(true))
	if err != nil {
		s.logError(ctx, "failed to set document", err, collection, id)
		return err
	}
	return nil
}

// Add implements store.DocumentStore.Add.
func (s *DocumentStore) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	id := uuid.NewString()
	if _, err := s.db.Collection(collection).InsertOne(ctx, toBSON(id, data)); err != nil {
		s.logError(ctx, "failed to add document", err, collection, id)
		return "", err
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("document added",
		slog.String("collection", collection),
		slog.String("document_id", id))
	return id, nil
}

// Get implements store.DocumentStore.Get.
func (s *DocumentStore) Get(ctx context.Context, collection, id string) (*store.Document, error) {
	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{idField: id}).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s/%s", store.ErrDocumentNotFound, collection, id)
		}
		s.logError(ctx, "failed to get document", err, collection, id)
		return nil, err
	}

	doc := fromBSON(raw)
	return &doc, nil
}

// Update implements store.DocumentStore.Update with $set. Mongo rejects an
// empty $set, so an empty fields map only checks that the document exists.
func (s *DocumentStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	coll := s.db.Collection(collection)
	notFound := fmt.Errorf("%w: %s/%s", store.ErrDocumentNotFound, collection, id)

	if len(fields) == 0 {
		n, err := coll.CountDocuments(ctx, bson.M{idField: id}, options.Count().SetLimit(1))
		if err != nil {
			s.logError(ctx, "failed to check document", err, collection, id)
			return err
		}
		if n == 0 {
			return notFound
		}
		return nil
	}

	set := make(bson.M, len(fields))
	for k, v := range fields {
		if k == idField {
			continue
		}
		set[k] = v
	}

	result, err := coll.UpdateOne(ctx, bson.M{idField: id}, bson.M{"$set": set})
	if err != nil {
		s.logError(ctx, "failed to update document", err, collection, id)
		return err
	}
	if result.MatchedCount == 0 {
		return notFound
	}
	return nil
}

// Delete implements store.DocumentStore.Delete.
func (s *DocumentStore) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{idField: id}); err != nil {
		s.logError(ctx, "failed to delete document", err, collection, id)
		return err
	}
	return nil
}

// Where implements store.DocumentStore.Where with an equality filter.
func (s *DocumentStore) Where(
	ctx context.Context,
	collection, field string,
	value any,
) ([]store.Document, error) {
	cursor, err := s.db.Collection(collection).Find(ctx, bson.M{field: value})
	if err != nil {
		s.logError(ctx, "failed to query documents", err, collection, "")
		return nil, err
	}

	var raws []bson.M
	if err := cursor.All(ctx, &raws); err != nil {
		s.logError(ctx, "failed to read documents", err, collection, "")
		return nil, err
	}

	docs := make([]store.Document, 0, len(raws))
	for _, raw := range raws {
		docs = append(docs, fromBSON(raw))
	}
	return docs, nil
}

func (s *DocumentStore) logError(ctx context.Context, msg string, err error, collection, id string) {
	logger.FromContextOrDefault(ctx, s.logger).Error(msg,
		redact.Attr(err),
		slog.String("collection", collection),
		slog.String("document_id", id))
}
