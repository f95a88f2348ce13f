/* applications.go
 * Contains the methods for interacting with the signups collection
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"fmt"
	"time"

	"smallie/api/shared"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InsertApplication stores a new signup
// Preconditions: Receives context and a validated application
// Postconditions: Returns the hex id of the new document, or an error if it occurs
func (s *Store) InsertApplication(ctx context.Context, app Application) (string, error) {
	res, err := s.Collections.Signups.InsertOne(ctx, app)
	if err != nil {
		return "", fmt.Errorf("failed to insert application: %w", err)
	}
	return insertedHex(res)
}

// GetApplication does DB lookup for a single signup
func (s *Store) GetApplication(ctx context.Context, id string) (Application, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return Application{}, mongo.ErrNoDocuments
	}

	var result Application
	err = s.Collections.Signups.FindOne(ctx, bson.M{"_id": oid}).Decode(&result)
	if err != nil {
		if isNotFound(err) {
			return Application{}, err
		}
		return Application{}, fmt.Errorf("error fetching application from db: %w", err)
	}
	return result, nil
}

// ListApplications returns signups with the given status, newest first. An empty status returns all signups.
func (s *Store) ListApplications(ctx context.Context, status string) ([]Application, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := s.Collections.Signups.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching applications from db: %w", err)
	}
	results := []Application{}
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("error unpacking cursor into slice of applications: %w", err)
	}
	return results, nil
}

// TransitionApplication moves a signup from one status to another. The update only applies while the signup is still
// in the from status, so an application can't be approved twice.
// Preconditions: Receives context, application id, expected and new status, and the spawned contestant id (0 if none)
// Postconditions: Returns nil on success, mongo.ErrNoDocuments if the signup is missing, ErrStatusChanged if it is
// no longer in the expected status, or another error if it occurs
func (s *Store) TransitionApplication(ctx context.Context, id string, from string, to string, contestantID int) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}

	update := transitionUpdate(to, contestantID, time.Now().UTC())
	res, err := s.Collections.Signups.UpdateOne(ctx, bson.M{"_id": oid, "status": from}, update)
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}
	if res.MatchedCount == 0 {
		if _, err := s.GetApplication(ctx, id); err != nil {
			return err
		}
		return ErrStatusChanged
	}
	return nil
}

// transitionUpdate builds the update for a status change. Moving back to pending clears the contestant id left by a
// failed approval.
func transitionUpdate(to string, contestantID int, now time.Time) bson.M {
	set := bson.M{"status": to, "updatedAt": now}
	if contestantID > 0 {
		set["contestantId"] = contestantID
	}
	update := bson.M{"$set": set}
	if to == shared.ApplicationPending {
		update["$unset"] = bson.M{"contestantId": ""}
	}
	return update
}

// insertedHex returns the ObjectID of an insert as a hex string
func insertedHex(res *mongo.InsertOneResult) (string, error) {
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}
