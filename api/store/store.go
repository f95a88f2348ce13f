/* store.go
 * Contains the store struct and NewStore function. The methods for this package are split by collection:
 * contestants, applications, votes, tasks and payments. Each of these files contain methods for interacting with that
 * part of the database
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrStatusChanged is returned when a conditional status transition finds the document in another state
var ErrStatusChanged = errors.New("document status changed concurrently")

// Collection names
const (
	ContestantsCollection    = "contestants"
	SignupsCollection        = "signups"
	TasksCollection          = "tasks"
	VotesCollection          = "votes"
	PaymentsCollection       = "payments"
	PayoutRequestsCollection = "payoutRequests"
	CountersCollection       = "counters"
)

// Collections holds a handle for every collection used by the store
type Collections struct {
	Contestants    *mongo.Collection
	Signups        *mongo.Collection
	Tasks          *mongo.Collection
	Votes          *mongo.Collection
	Payments       *mongo.Collection
	PayoutRequests *mongo.Collection
	Counters       *mongo.Collection
}

type Store struct {
	Client      *mongo.Client
	Database    *mongo.Database
	Collections Collections
}

// NewCollections returns the collection handles for a database
func NewCollections(db *mongo.Database) Collections {
	return Collections{
		Contestants:    db.Collection(ContestantsCollection),
		Signups:        db.Collection(SignupsCollection),
		Tasks:          db.Collection(TasksCollection),
		Votes:          db.Collection(VotesCollection),
		Payments:       db.Collection(PaymentsCollection),
		PayoutRequests: db.Collection(PayoutRequestsCollection),
		Counters:       db.Collection(CountersCollection),
	}
}

// Function for initialising Store. Initialises the db connection and verifies it with a ping
// Preconditions: Receives context, strings containing dbName and mongoURI
// Postconditions: Returns pointer to the Store object, or error if it occurs
func NewStore(ctx context.Context, dbName string, mongoURI string) (*Store, error) {
	if dbName == "" || mongoURI == "" {
		return nil, fmt.Errorf("dbName and mongoURI are required")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	db := client.Database(dbName)

	return &Store{
		Client:      client,
		Database:    db,
		Collections: NewCollections(db),
	}, nil
}

// EnsureIndexes creates the indexes used by vote aggregation, task lookup and payment callbacks
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []struct {
		coll  *mongo.Collection
		model mongo.IndexModel
	}{
		{s.Collections.Votes, mongo.IndexModel{Keys: bson.D{{Key: "timestamp", Value: 1}}}},
		{s.Collections.Votes, mongo.IndexModel{Keys: bson.D{{Key: "contestantId", Value: 1}}}},
		{s.Collections.Tasks, mongo.IndexModel{Keys: bson.D{{Key: "day", Value: 1}}}},
		{s.Collections.Signups, mongo.IndexModel{Keys: bson.D{{Key: "status", Value: 1}}}},
		{s.Collections.Payments, mongo.IndexModel{Keys: bson.D{{Key: "txRef", Value: 1}}, Options: options.Index().SetUnique(true)}},
	}
	for _, idx := range indexes {
		if _, err := idx.coll.Indexes().CreateOne(ctx, idx.model); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", idx.coll.Name(), err)
		}
	}
	return nil
}

// isNotFound reports whether err is a missing document error
func isNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
