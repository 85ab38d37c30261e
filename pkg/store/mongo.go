package store

import (
	"context"
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pipsleuth/pipsleuth/pkg/errors"
)

// MongoStore keeps scan records in a MongoDB collection, for teams
// collecting compliance scans centrally.
//
// Records are stored as documents carrying the scan identity plus the
// JSON-encoded payload, so the record schema can evolve without BSON
// migrations.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// MongoConfig configures the MongoDB backend.
type MongoConfig struct {
	URI        string // connection string (mongodb://...)
	Database   string // defaults to "pipsleuth"
	Collection string // defaults to "scans"
}

type mongoDoc struct {
	ID        string    `bson:"_id"`
	CreatedAt time.Time `bson:"created_at"`
	Payload   []byte    `bson:"payload"`
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "pipsleuth"
	}
	if cfg.Collection == "" {
		cfg.Collection = "scans"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connecting to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStore, err, "pinging mongodb")
	}

	return &MongoStore{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Put upserts the record by scan ID.
func (s *MongoStore) Put(ctx context.Context, rec *ScanRecord) error {
	if rec.ID == "" {
		return errors.New(errors.ErrCodeInvalidRecord, "scan record has no ID")
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "encoding scan %s", rec.ID)
	}

	doc := mongoDoc{ID: rec.ID, CreatedAt: rec.CreatedAt, Payload: payload}
	_, err = s.collection.ReplaceOne(ctx, bson.M{"_id": rec.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "storing scan %s", rec.ID)
	}
	return nil
}

// Get retrieves a record by ID.
func (s *MongoStore) Get(ctx context.Context, id string) (*ScanRecord, error) {
	var doc mongoDoc
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeScanNotFound, "scan %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "reading scan %s", id)
	}

	var rec ScanRecord
	if err := json.Unmarshal(doc.Payload, &rec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRecord, err, "decoding scan %s", id)
	}
	return &rec, nil
}

// List returns stored scan IDs, newest first.
func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetProjection(bson.M{"_id": 1})

	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "listing scans")
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "decoding scan ID")
		}
		ids = append(ids, doc.ID)
	}
	if err := cursor.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "iterating scans")
	}
	return ids, nil
}

// Close disconnects the MongoDB client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
