/* stats.go
 * Contains the admin dashboard statistics
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"time"

	"smallie/api/logic"
	"smallie/api/store"
)

// Stats gathers the admin dashboard: prize fund totals, active contestants, the daily series for the last seven WAT
// days and every contestant's votes, highest first
// Preconditions: Receives context and the current time
// Postconditions: Returns the dashboard, or an error if any read fails
func (a *API) Stats(ctx context.Context, now time.Time) (Stats, error) {
	fund, err := a.PrizeFund(ctx)
	if err != nil {
		return Stats{}, err
	}
	contestants, err := a.ListContestants(ctx)
	if err != nil {
		return Stats{}, err
	}
	logged, err := a.Store.TallyVotes(ctx, store.VoteFilter{})
	if err != nil {
		return Stats{}, err
	}
	_, to := logic.DayBounds(now)
	filter := store.VoteFilter{From: logic.SeriesStart(now, logic.StatsDays), To: to}
	daily, err := a.Store.DailyTallies(ctx, filter, logic.WATOffset)
	if err != nil {
		return Stats{}, err
	}

	loggedByID := make(map[int]int, len(logged))
	for _, t := range logged {
		loggedByID[t.ContestantID] = t.Votes
	}
	names := make(map[int]string, len(contestants))
	stats := Stats{PrizeFund: fund, Contestants: make([]ContestantVotes, 0, len(contestants))}
	for _, c := range contestants {
		names[c.ID] = c.Name
		if !c.Eliminated {
			stats.ActiveContestants++
		}
		stats.Contestants = append(stats.Contestants, ContestantVotes{
			ID:          c.ID,
			Name:        c.Name,
			Votes:       c.Votes,
			LoggedVotes: loggedByID[c.ID],
			Eliminated:  c.Eliminated,
		})
	}

	series := logic.DailySeries(now, logic.StatsDays, daily)
	stats.Days = make([]DayStats, len(series))
	for i, day := range series {
		stats.Days[i] = DayStats{DayStats: day, Leader: names[day.LeaderID]}
	}
	return stats, nil
}
