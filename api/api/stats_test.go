/* stats_test.go
 * Contains unit tests for stats.go
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"errors"
	"testing"

	"smallie/api/shared"
	"smallie/api/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// region Stats tests

func TestStats(t *testing.T) {
	a, mockStore := newPayoutAPI(t)
	mockStore.Votes = append(mockStore.Votes,
		store.Vote{ContestantID: 3, Count: 5, Timestamp: testNow, Source: shared.VoteSourceAdjustment})

	stats, err := a.Stats(context.Background(), testNow)
	require.NoError(t, err)

	// Adjustments are left out of revenue
	assert.Equal(t, 100, stats.TotalVotes)
	assert.Equal(t, "50", stats.RevenueUSD.String())
	assert.Equal(t, "45", stats.PoolUSD.String())
	assert.Equal(t, 3, stats.ActiveContestants)

	require.Len(t, stats.Days, 7)
	assert.Equal(t, "2025-04-10", stats.Days[0].Date)

	yesterday := stats.Days[5]
	assert.Equal(t, "2025-04-15", yesterday.Date)
	assert.Equal(t, 10, yesterday.Votes)
	assert.Equal(t, "5", yesterday.RevenueUSD.String())
	assert.Equal(t, "0.45", yesterday.PayoutUSD.String())
	assert.Equal(t, "Dayo Bello", yesterday.Leader)

	today := stats.Days[6]
	assert.Equal(t, "2025-04-16", today.Date)
	assert.Equal(t, 95, today.Votes)
	assert.Equal(t, 90, today.Purchased)
	assert.Equal(t, "4.05", today.PayoutUSD.String())
	assert.Equal(t, "Ada Obi", today.Leader)

	require.Len(t, stats.Contestants, 4)
	assert.Equal(t, ContestantVotes{ID: 1, Name: "Ada Obi", Votes: 120, LoggedVotes: 60}, stats.Contestants[0])
	assert.Equal(t, ContestantVotes{ID: 3, Name: "Chidi Eze", Votes: 95, LoggedVotes: 35}, stats.Contestants[1])
	assert.Equal(t, ContestantVotes{ID: 2, Name: "Bola Ade", Votes: 80, Eliminated: true}, stats.Contestants[2])
}

func TestStats_NoVotes(t *testing.T) {
	a, _ := newTestAPI(t)

	stats, err := a.Stats(context.Background(), testNow)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalVotes)
	assert.Zero(t, stats.ActiveContestants)
	assert.Empty(t, stats.Contestants)
	require.Len(t, stats.Days, 7)
	for _, day := range stats.Days {
		assert.Empty(t, day.Leader)
	}
}

func TestStats_StoreError(t *testing.T) {
	a, mockStore := newPayoutAPI(t)
	mockStore.TallyVotesError = errors.New("aggregate failed")

	_, err := a.Stats(context.Background(), testNow)
	assert.Error(t, err)
}

// endregion
