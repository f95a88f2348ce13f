/* votes.go
 * Contains the methods for interacting with the votes collection. The collection is append-only; nothing in this
 * package updates or deletes a vote.
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"fmt"

	"smallie/api/shared"

	"go.mongodb.org/mongo-driver/bson"
)

// InsertVote appends a vote record
func (s *Store) InsertVote(ctx context.Context, vote Vote) error {
	if vote.Source == "" {
		vote.Source = shared.VoteSourcePurchase
	}
	if _, err := s.Collections.Votes.InsertOne(ctx, vote); err != nil {
		return fmt.Errorf("failed to insert vote: %w", err)
	}
	return nil
}

// SumPurchasedVotes sums the count of purchased votes in a time window. Admin adjustments are excluded since they
// carry no revenue.
// Preconditions: Receives context and the time window
// Postconditions: Returns the total count (0 if there are no votes), or an error if it occurs
func (s *Store) SumPurchasedVotes(ctx context.Context, filter VoteFilter) (int, error) {
	match := voteMatch(filter)
	match = append(match, bson.E{Key: "source", Value: bson.M{"$ne": shared.VoteSourceAdjustment}})

	pipeline := bson.A{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$count"}}},
		}}},
	}
	cursor, err := s.Collections.Votes.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("error aggregating vote totals: %w", err)
	}

	var results []struct {
		Total int `bson:"total"`
	}
	if err = cursor.All(ctx, &results); err != nil {
		return 0, fmt.Errorf("error unpacking vote totals: %w", err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

// TallyVotes sums vote counts per contestant in a time window, highest first. This scans every vote in the window.
func (s *Store) TallyVotes(ctx context.Context, filter VoteFilter) ([]shared.Tally, error) {
	pipeline := bson.A{
		bson.D{{Key: "$match", Value: voteMatch(filter)}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$contestantId"},
			{Key: "votes", Value: bson.D{{Key: "$sum", Value: "$count"}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "votes", Value: -1}, {Key: "_id", Value: 1}}}},
	}
	cursor, err := s.Collections.Votes.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("error aggregating vote tallies: %w", err)
	}

	results := []shared.Tally{}
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("error unpacking vote tallies: %w", err)
	}
	return results, nil
}

// DailyTallies sums vote counts per calendar day and contestant in a time window. Days are calendar dates in the
// given UTC offset (e.g. "+01:00"). Purchased excludes admin adjustments.
// Preconditions: Receives context, the time window and the UTC offset days are counted in
// Postconditions: Returns tallies ordered by date then votes (highest first), or an error if it occurs
func (s *Store) DailyTallies(ctx context.Context, filter VoteFilter, offset string) ([]shared.DayTally, error) {
	date := bson.D{{Key: "$dateToString", Value: bson.D{
		{Key: "format", Value: "%Y-%m-%d"},
		{Key: "date", Value: "$timestamp"},
		{Key: "timezone", Value: offset},
	}}}
	purchased := bson.D{{Key: "$cond", Value: bson.A{
		bson.D{{Key: "$eq", Value: bson.A{"$source", shared.VoteSourceAdjustment}}},
		0,
		"$count",
	}}}

	pipeline := bson.A{
		bson.D{{Key: "$match", Value: voteMatch(filter)}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "date", Value: date}, {Key: "contestantId", Value: "$contestantId"}}},
			{Key: "votes", Value: bson.D{{Key: "$sum", Value: "$count"}}},
			{Key: "purchased", Value: bson.D{{Key: "$sum", Value: purchased}}},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "date", Value: "$_id.date"},
			{Key: "contestantId", Value: "$_id.contestantId"},
			{Key: "votes", Value: 1},
			{Key: "purchased", Value: 1},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "date", Value: 1}, {Key: "votes", Value: -1}, {Key: "contestantId", Value: 1}}}},
	}
	cursor, err := s.Collections.Votes.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("error aggregating daily tallies: %w", err)
	}

	results := []shared.DayTally{}
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("error unpacking daily tallies: %w", err)
	}
	return results, nil
}

func voteMatch(filter VoteFilter) bson.D {
	match := bson.D{}
	window := bson.D{}
	if !filter.From.IsZero() {
		window = append(window, bson.E{Key: "$gte", Value: filter.From})
	}
	if !filter.To.IsZero() {
		window = append(window, bson.E{Key: "$lt", Value: filter.To})
	}
	if len(window) > 0 {
		match = append(match, bson.E{Key: "timestamp", Value: window})
	}
	return match
}
