package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/multierr"
)

const (
	defaultTimeout = 10 * time.Second
	pingTimeout    = 5 * time.Second
)

// ConnectDB establishes a connection to MongoDB and pings the primary.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), pingTimeout)
	defer pingCancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), pingTimeout)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}
	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes of every collection. All collections are attempted;
// the returned error combines the failures.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	var errs error
	if err := EnsureUserIndexes(ctx, db.Collection(userCollectionName)); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("%s: %w", userCollectionName, err))
	}
	if err := EnsureWorkoutIndexes(ctx, db.Collection(workoutCollectionName)); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("%s: %w", workoutCollectionName, err))
	}
	if err := EnsureGoalIndexes(ctx, db.Collection(goalCollectionName)); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("%s: %w", goalCollectionName, err))
	}
	return errs
}
