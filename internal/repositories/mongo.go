package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/videoingest/backend/internal/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const mongoConnectTimeout = 10 * time.Second

// MongoConnector owns the process-wide document store connection.
// The client is created on first use and reused until Close.
type MongoConnector struct {
	uri        string
	database   string
	collection string
	logger     *zap.Logger

	mu     sync.Mutex
	client *mongo.Client
}

// NewMongoConnector creates a connector. No connection is made until Collection is called.
func NewMongoConnector(uri, database, collection string, logger *zap.Logger) *MongoConnector {
	return &MongoConnector{
		uri:        uri,
		database:   database,
		collection: collection,
		logger:     logger,
	}
}

// Configured reports whether a connection URI is present
func (c *MongoConnector) Configured() bool {
	return c.uri != ""
}

// Collection returns the content collection, connecting on first use.
// A failed connection attempt is not cached, so the next call retries.
func (c *MongoConnector) Collection(ctx context.Context) (*mongo.Collection, error) {
	if !c.Configured() {
		return nil, models.ErrStoreUnconfigured
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		client, err := c.connect(ctx)
		if err != nil {
			return nil, err
		}
		c.client = client
		c.logger.Info("connected to document store", zap.String("database", c.database))
	}

	return c.client.Database(c.database).Collection(c.collection), nil
}

func (c *MongoConnector) connect(ctx context.Context) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(c.uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to document store: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("failed to ping document store: %w", err)
	}
	return client, nil
}

// Close disconnects the client if one was created
func (c *MongoConnector) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return nil
	}
	err := c.client.Disconnect(ctx)
	c.client = nil
	if err != nil {
		return fmt.Errorf("failed to disconnect from document store: %w", err)
	}
	return nil
}
