/* test_helpers.go
 * Contains test helper functions and sample documents for store package tests
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"time"

	"smallie/api/shared"
)

// CreateTestStore creates a Store connected to a throwaway test database.
// Returns the store and a cleanup function that drops the database.
func CreateTestStore(ctx context.Context, mongoURI string) (*Store, func(), error) {
	store, err := NewStore(ctx, "test_smallie", mongoURI)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if store.Client != nil {
			store.Database.Drop(context.TODO())
			store.Client.Disconnect(context.TODO())
		}
	}
	return store, cleanup, nil
}

// CreateSampleContestants returns three contestants with distinct vote counts, one of them eliminated
func CreateSampleContestants() []Contestant {
	created := time.Date(2025, 4, 14, 12, 0, 0, 0, time.UTC)
	return []Contestant{
		{ID: 1, Name: "Ada Obi", Age: 24, Location: "Lagos", Bio: "Dancer and streamer", Votes: 120, CreatedAt: created},
		{ID: 2, Name: "Bola Tinubu", Age: 27, Location: "Abuja", Bio: "Comedian", Votes: 80, Eliminated: true, CreatedAt: created},
		{ID: 3, Name: "Chidi Eze", Age: 22, Location: "Enugu", Bio: "Singer", Votes: 95, CreatedAt: created},
	}
}

// CreateSampleApplication returns a pending application
func CreateSampleApplication() Application {
	return Application{
		Name:         "Ngozi Ade",
		Email:        "ngozi@example.com",
		Phone:        "+2348000000000",
		Location:     "Ibadan",
		Bio:          "I love streaming challenges every night",
		SocialHandle: "@ngozi",
		Status:       shared.ApplicationPending,
		CreatedAt:    time.Date(2025, 4, 14, 9, 0, 0, 0, time.UTC),
	}
}
