package mongo

import (
	"alcyxob/trainer-planner/internal/repository"
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

const (
	trainerCollectionName  = "trainers"
	clientCollectionName   = "clients"
	exerciseCollectionName = "exercises"
	workoutCollectionName  = "workouts"
)

// ConnectDB establishes a connection to MongoDB using the provided URI.
// Transactions require the server to run as a replica set.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// Ping the primary so an unreachable server fails at startup, not on the first request.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
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

// NewStore wires every Mongo repository around db.
func NewStore(client *mongo.Client, db *mongo.Database) repository.Store {
	return repository.Store{
		Transactor: NewTransactor(client),
		Trainers:   NewMongoTrainerRepository(db),
		Clients:    NewMongoClientRepository(db),
		Exercises:  NewMongoExerciseRepository(db),
		Workouts:   NewMongoWorkoutRepository(db),
	}
}

// transactor runs callbacks inside a session transaction. The session context
// is handed to fn, so collection calls made with it join the transaction.
type transactor struct {
	client *mongo.Client
}

func NewTransactor(client *mongo.Client) repository.Transactor {
	return &transactor{client: client}
}

func (t *transactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}

	session, err := t.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// EnsureIndexes creates the indexes every repository relies on. Call once during startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		trainerCollectionName: {
			{Keys: bson.D{{Key: "subject", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		clientCollectionName: {
			{Keys: bson.D{{Key: "trainerId", Value: 1}, {Key: "name", Value: 1}}},
		},
		exerciseCollectionName: {
			{
				// Names are unique per owner scope; global rows share the "global" scope.
				Keys:    bson.D{{Key: "scope", Value: 1}, {Key: "nameKey", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uq_scope_name_key"),
			},
			{Keys: bson.D{{Key: "trainerId", Value: 1}}, Options: options.Index().SetSparse(true)},
		},
		workoutCollectionName: {
			{Keys: bson.D{{Key: "trainerId", Value: 1}, {Key: "date", Value: -1}}},
			{Keys: bson.D{{Key: "trainerId", Value: 1}, {Key: "clientId", Value: 1}}},
			// Backs the in-use check before an exercise is deleted.
			{Keys: bson.D{{Key: "blocks.sets.exerciseId", Value: 1}}},
		},
	}
	for name, indexes := range specs {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("failed to create indexes for collection %s: %w", name, err)
		}
	}
	return nil
}
