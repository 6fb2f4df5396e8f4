package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Mongo keeps the same one-document-per-key layout in a remote collection, for
// deployments that want the data off the host.
type Mongo struct {
	client *mongo.Client
	col    *mongo.Collection
}

type kvDoc struct {
	Key   string `bson:"_id"`
	Value string `bson:"value"`
}

func ConnectMongo(ctx context.Context) (*Mongo, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	uri := os.Getenv("MONGODB_URI")
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	databaseName := os.Getenv("DATABASE_NAME")
	if databaseName == "" {
		databaseName = "aliautos"
	}
	return &Mongo{
		client: client,
		col:    client.Database(databaseName).Collection("kv"),
	}, nil
}

func (m *Mongo) Get(ctx context.Context, key string) (string, bool, error) {
	var doc kvDoc
	err := m.col.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return doc.Value, true, nil
}

func (m *Mongo) Set(ctx context.Context, key, value string) error {
	opts := options.Replace().SetUpsert(true)
	_, err := m.col.ReplaceOne(ctx, bson.M{"_id": key}, kvDoc{Key: key, Value: value}, opts)
	if err != nil {
		// A document past the server's size ceiling is this backend's quota.
		if strings.Contains(err.Error(), "too large") {
			return ErrQuotaExceeded
		}
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (m *Mongo) Remove(ctx context.Context, key string) error {
	if _, err := m.col.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

func (m *Mongo) Close() error {
	return m.client.Disconnect(context.Background())
}
