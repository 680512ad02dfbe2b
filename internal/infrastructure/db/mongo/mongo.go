// Package mongo holds the MongoDB connection helper and the user and post
// repositories. The platform keeps both collections in a single database.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultDatabase = "blog_platform"
)

// Config captures the settings for the MongoDB connection.
type Config struct {
	URI      string
	Database string // defaults to blog_platform
	Timeout  time.Duration
}

// Connect establishes the client, verifies connectivity with a ping, and
// returns the client together with the platform database. Callers are
// expected to run EnsureIndexes on the repositories right after connecting
// so the unique email and slug indexes exist before the API serves traffic.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	database := cfg.Database
	if database == "" {
		database = defaultDatabase
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(database), nil
}
