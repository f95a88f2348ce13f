/* stats.go
 * Contains the daily voting series shown on the admin dashboard
 * Authors: Zachary Bower
 */

package logic

import (
	"time"

	"smallie/api/shared"

	"github.com/shopspring/decimal"
)

// StatsDays is the number of days in the dashboard series
const StatsDays = 7

// DayStats summarises one WAT calendar day of voting
type DayStats struct {
	Date       string          `json:"date"`
	Votes      int             `json:"votes"`
	Purchased  int             `json:"purchased"`
	RevenueUSD decimal.Decimal `json:"revenueUsd"`
	PayoutUSD  decimal.Decimal `json:"payoutUsd"`
	LeaderID   int             `json:"leaderId,omitempty"`
	LeaderVote int             `json:"leaderVotes,omitempty"`
}

// SeriesStart returns midnight WAT of the first day of an n day series ending on the day containing now
func SeriesStart(now time.Time, n int) time.Time {
	start, _ := DayBounds(now)
	return start.AddDate(0, 0, -(n - 1))
}

// DailySeries builds one entry per WAT day for the n days ending on the day containing now, oldest first. Days without
// votes are present with zero totals. The leader of a day is the contestant with the most votes that day, the lower id
// on a tie; days where nobody gained votes have no leader.
// Preconditions: Receives the current time, the series length and per day tallies (dates formatted with DateLayout)
// Postconditions: Returns exactly n entries. Tallies outside the series are ignored.
func DailySeries(now time.Time, n int, tallies []shared.DayTally) []DayStats {
	if n <= 0 {
		return []DayStats{}
	}
	start := SeriesStart(now, n)
	series := make([]DayStats, n)
	index := make(map[string]int, n)
	for i := range series {
		date := start.AddDate(0, 0, i).Format(DateLayout)
		series[i] = DayStats{Date: date, RevenueUSD: decimal.Zero, PayoutUSD: decimal.Zero}
		index[date] = i
	}

	for _, t := range tallies {
		i, ok := index[t.Date]
		if !ok {
			continue
		}
		day := &series[i]
		day.Votes += t.Votes
		day.Purchased += t.Purchased
		if t.Votes <= 0 {
			continue
		}
		if day.LeaderID == 0 || t.Votes > day.LeaderVote || (t.Votes == day.LeaderVote && t.ContestantID < day.LeaderID) {
			day.LeaderID = t.ContestantID
			day.LeaderVote = t.Votes
		}
	}

	for i := range series {
		day := &series[i]
		if day.Purchased <= 0 {
			continue
		}
		revenue, pool, _ := PayoutPool(shared.PayoutDaily, day.Purchased)
		day.RevenueUSD = revenue
		day.PayoutUSD = pool.RoundFloor(2)
	}
	return series
}
