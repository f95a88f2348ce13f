/* contestants.go
 * Contains the methods for interacting with the contestants and counters collections
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// contestantSequence is the counters document used to allocate contestant ids
const contestantSequence = "contestants"

// ListContestants returns every contestant ordered by votes, highest first
// Preconditions: Receives context
// Postconditions: Returns slice of contestants (possibly empty), or an error if it occurs
func (s *Store) ListContestants(ctx context.Context) ([]Contestant, error) {
	opts := options.Find().SetSort(bson.D{{Key: "votes", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := s.Collections.Contestants.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching contestants from db: %w", err)
	}

	results := []Contestant{}
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("error unpacking cursor into slice of contestants: %w", err)
	}
	return results, nil
}

// GetContestant does DB lookup for a single contestant
// Preconditions: Receives context and the contestant id
// Postconditions: Returns the contestant, mongo.ErrNoDocuments if it does not exist, or another error if it occurs
func (s *Store) GetContestant(ctx context.Context, id int) (Contestant, error) {
	var result Contestant
	err := s.Collections.Contestants.FindOne(ctx, bson.M{"_id": id}).Decode(&result)
	if err != nil {
		if isNotFound(err) {
			return Contestant{}, err
		}
		return Contestant{}, fmt.Errorf("error fetching contestant %d from db: %w", id, err)
	}
	return result, nil
}

// CountContestants returns the number of contestant documents
func (s *Store) CountContestants(ctx context.Context) (int64, error) {
	n, err := s.Collections.Contestants.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("error counting contestants: %w", err)
	}
	return n, nil
}

// NextContestantID allocates the next contestant id. The sequence is first raised to the current contestant count so
// ids continue from existing documents, then atomically incremented, so two concurrent approvals never share an id.
// Preconditions: Receives context
// Postconditions: Returns a fresh id, or an error if it occurs
func (s *Store) NextContestantID(ctx context.Context) (int, error) {
	count, err := s.CountContestants(ctx)
	if err != nil {
		return 0, err
	}

	filter := bson.M{"_id": contestantSequence}
	_, err = s.Collections.Counters.UpdateOne(ctx, filter, bson.M{"$max": bson.M{"seq": count}}, options.Update().SetUpsert(true))
	if err != nil {
		return 0, fmt.Errorf("failed to seed contestant sequence: %w", err)
	}

	var counter struct {
		Seq int `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = s.Collections.Counters.FindOneAndUpdate(ctx, filter, bson.M{"$inc": bson.M{"seq": 1}}, opts).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate contestant id: %w", err)
	}
	return counter.Seq, nil
}

// InsertContestant stores a new contestant
func (s *Store) InsertContestant(ctx context.Context, contestant Contestant) error {
	if contestant.ID <= 0 {
		return fmt.Errorf("contestant id must be positive")
	}
	_, err := s.Collections.Contestants.InsertOne(ctx, contestant)
	if err != nil {
		return fmt.Errorf("failed to insert contestant %d: %w", contestant.ID, err)
	}
	return nil
}

// UpdateContestant sets the non-nil profile fields of a contestant and stamps updated_at
// Preconditions: Receives context, contestant id and the fields to update
// Postconditions: Updates the document, returns mongo.ErrNoDocuments if it does not exist or an error if it occurs
func (s *Store) UpdateContestant(ctx context.Context, id int, update ContestantUpdate) error {
	set, err := toSetDocument(update)
	if err != nil {
		return err
	}
	set["updated_at"] = time.Now().UTC()
	return s.updateContestant(ctx, id, bson.M{"$set": set})
}

// SetEliminated flips the eliminated flag of a contestant
func (s *Store) SetEliminated(ctx context.Context, id int, eliminated bool) error {
	return s.updateContestant(ctx, id, bson.M{"$set": bson.M{
		"eliminated": eliminated,
		"updated_at": time.Now().UTC(),
	}})
}

// IncrementVotes atomically adds delta to a contestant's vote counter. A read-modify-write would lose updates under
// concurrent votes, so this must stay a single $inc.
func (s *Store) IncrementVotes(ctx context.Context, id int, delta int) error {
	return s.updateContestant(ctx, id, bson.M{
		"$inc": bson.M{"votes": delta},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
}

// SetVotes atomically overwrites a contestant's vote counter and returns the total it replaced
// Preconditions: Receives context, contestant id and the new total
// Postconditions: Returns the previous total, mongo.ErrNoDocuments if the contestant does not exist or an error
func (s *Store) SetVotes(ctx context.Context, id int, votes int) (int, error) {
	update := bson.M{"$set": bson.M{"votes": votes, "updated_at": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.Before).
		SetProjection(bson.M{"votes": 1})

	var previous struct {
		Votes int `bson:"votes"`
	}
	err := s.Collections.Contestants.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&previous)
	if err == mongo.ErrNoDocuments {
		return 0, err
	}
	if err != nil {
		return 0, fmt.Errorf("failed to set votes of contestant %d: %w", id, err)
	}
	return previous.Votes, nil
}

func (s *Store) updateContestant(ctx context.Context, id int, update bson.M) error {
	res, err := s.Collections.Contestants.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update contestant %d: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// toSetDocument marshals a struct with omitempty fields into a $set document
func toSetDocument(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal update: %w", err)
	}
	set := bson.M{}
	if err := bson.Unmarshal(raw, &set); err != nil {
		return nil, fmt.Errorf("failed to unmarshal update: %w", err)
	}
	return set, nil
}
