// Package db manages the MongoDB connection and collection indexes.
package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// connectTimeout bounds the initial connect and ping.
const connectTimeout = 10 * time.Second

// InitMongo connects to MongoDB at the given URI, verifies the connection
// with a ping and ensures the indexes the application relies on. It returns
// the database handle and the connected client (for disconnecting on
// shutdown).
func InitMongo(ctx context.Context, uri, dbName string) (*mongo.Database, *mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, fmt.Errorf("ping mongodb: %w", err)
	}

	database := client.Database(dbName)

	if err := ensureIndexes(ctx, database); err != nil {
		return nil, nil, fmt.Errorf("create indexes: %w", err)
	}

	return database, client, nil
}

// ensureIndexes creates the unique email index on users and the
// ownership-scoped query indexes on tasks.
func ensureIndexes(ctx context.Context, database *mongo.Database) error {
	_, err := database.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("users email index: %w", err)
	}

	_, err = database.Collection("tasks").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("tasks indexes: %w", err)
	}

	return nil
}
