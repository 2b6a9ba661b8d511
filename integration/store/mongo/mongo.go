package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	driver "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Energy1190/autossl/core/certstore"
)

// Compile-time check that Store implements the capability contract.
var _ certstore.Store = (*Store)(nil)

// Config holds MongoDB connection configuration with environment variable
// mapping.
type Config struct {
	ConnectionURL string `env:"MONGODB_URL,required"`
	Database      string `env:"MONGODB_DATABASE" envDefault:"autossl"`
	Collection    string `env:"MONGODB_COLLECTION" envDefault:"kv"`
}

type document struct {
	Key       string     `bson:"_id"`
	Value     []byte     `bson:"value"`
	ExpiresAt *time.Time `bson:"expires_at,omitempty"`
}

// Store is a MongoDB-backed certstore.Store. Expiry rides in the document;
// reads treat past-expiry documents as absent because the server-side TTL
// monitor only runs periodically.
type Store struct {
	coll *driver.Collection
}

// Connect connects, verifies connectivity with a ping, and wraps the
// configured collection.
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	client, err := driver.Connect(options.Client().ApplyURI(cfg.ConnectionURL))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return NewWithCollection(client.Database(cfg.Database).Collection(cfg.Collection)), nil
}

// NewWithCollection wraps an existing collection.
func NewWithCollection(coll *driver.Collection) *Store {
	return &Store{coll: coll}
}

// EnsureIndexes creates the TTL index that lets the server reap expired
// documents on its own. Reads stay correct without it.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, driver.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return fmt.Errorf("mongo ensure indexes: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var doc document
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: key}}).Decode(&doc)
	if errors.Is(err, driver.ErrNoDocuments) {
		return nil, certstore.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo get %s: %w", key, err)
	}
	if expired(doc) {
		return nil, certstore.ErrKeyNotFound
	}
	return doc.Value, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	doc := document{Key: key, Value: value}
	if ttl > 0 {
		t := time.Now().Add(ttl)
		doc.ExpiresAt = &t
	}

	_, err := s.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: key}}, doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: key}}); err != nil {
		return fmt.Errorf("mongo delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) KeysWithSuffix(ctx context.Context, suffix string) ([]string, error) {
	filter := bson.D{{Key: "_id", Value: bson.Regex{Pattern: regexp.QuoteMeta(suffix) + "$"}}}

	cursor, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("mongo list %q: %w", suffix, err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	var keys []string
	for cursor.Next(ctx) {
		var doc document
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongo list %q: %w", suffix, err)
		}
		if expired(doc) {
			continue
		}
		keys = append(keys, doc.Key)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("mongo list %q: %w", suffix, err)
	}
	return keys, nil
}

// Healthcheck returns a health check function that pings the server.
func Healthcheck(client *driver.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		return client.Ping(ctx, nil)
	}
}

func expired(doc document) bool {
	return doc.ExpiresAt != nil && time.Now().After(*doc.ExpiresAt)
}
