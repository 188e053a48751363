package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rrens/campus-console/internal/config"
	"github.com/Rrens/campus-console/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type stateDocument struct {
	Namespace string    `bson:"_id"`
	Payload   []byte    `bson:"payload"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// StateRepository stores one document per namespace
type StateRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// Open connects to MongoDB and selects the configured collection
func Open(ctx context.Context, cfg config.MongoConfig) (*StateRepository, error) {
	clientOpts := options.Client().ApplyURI(cfg.URI)
	if cfg.Timeout > 0 {
		clientOpts.SetConnectTimeout(cfg.Timeout)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping: %w", err)
	}

	return &StateRepository{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (r *StateRepository) Get(ctx context.Context, namespace string) ([]byte, error) {
	var doc stateDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": namespace}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get state: %w", err)
	}
	return doc.Payload, nil
}

func (r *StateRepository) Put(ctx context.Context, namespace string, payload []byte) error {
	doc := stateDocument{Namespace: namespace, Payload: payload, UpdatedAt: time.Now().UTC()}
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": namespace}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to put state: %w", err)
	}
	return nil
}

func (r *StateRepository) Delete(ctx context.Context, namespace string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": namespace}); err != nil {
		return fmt.Errorf("failed to delete state: %w", err)
	}
	return nil
}

func (r *StateRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, nil)
}

func (r *StateRepository) Close() error {
	return r.client.Disconnect(context.Background())
}
