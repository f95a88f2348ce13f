/* payout.go
 * Contains the payout pool and rank distribution calculations for daily and final payouts
 * Authors: Zachary Bower
 */

package logic

import (
	"fmt"
	"sort"

	"smallie/api/shared"

	"github.com/shopspring/decimal"
)

// Pool shares of revenue per payout scope
var (
	DailyPoolShare = decimal.RequireFromString("0.09")
	FinalPoolShare = decimal.RequireFromString("0.90")
)

// RankShares is the split of a pool across 1st, 2nd and 3rd place
var RankShares = []decimal.Decimal{
	decimal.RequireFromString("0.50"),
	decimal.RequireFromString("0.30"),
	decimal.RequireFromString("0.20"),
}

// MaxWinners is the number of ranks that receive a share of a pool
const MaxWinners = 3

// Winner is a ranked contestant with their share of a pool
type Winner struct {
	Rank         int             `json:"rank"`
	ContestantID int             `json:"contestantId"`
	Votes        int             `json:"votes"`
	Share        decimal.Decimal `json:"share"`
	AmountUSD    decimal.Decimal `json:"amountUsd"`
	AmountNGN    decimal.Decimal `json:"amountNgn"`
}

// Payout is the computed summary of a payout scope
type Payout struct {
	Scope      string          `json:"scope"`
	TotalVotes int             `json:"totalVotes"`
	RevenueUSD decimal.Decimal `json:"revenueUsd"`
	PoolUSD    decimal.Decimal `json:"poolUsd"`
	RevenueNGN decimal.Decimal `json:"revenueNgn"`
	PoolNGN    decimal.Decimal `json:"poolNgn"`
	Winners    []Winner        `json:"winners"`
}

// PoolShare returns the share of revenue set aside for a scope
func PoolShare(scope string) (decimal.Decimal, error) {
	switch scope {
	case shared.PayoutDaily:
		return DailyPoolShare, nil
	case shared.PayoutFinal:
		return FinalPoolShare, nil
	default:
		return decimal.Zero, fmt.Errorf("unknown payout scope: %s", scope)
	}
}

// PayoutPool calculates revenue and pool for a number of purchased votes in a scope
// Preconditions: Receives payout scope (daily or final) and the non-negative number of purchased votes in scope
// Postconditions: Returns revenue and pool in USD, or an error if the scope is unknown
func PayoutPool(scope string, purchasedVotes int) (decimal.Decimal, decimal.Decimal, error) {
	share, err := PoolShare(scope)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if purchasedVotes < 0 {
		return decimal.Zero, decimal.Zero, fmt.Errorf("vote total cannot be negative: %d", purchasedVotes)
	}
	revenue := Revenue(purchasedVotes)
	return revenue, revenue.Mul(share), nil
}

// RankShareFor returns the re-normalised shares for the number of ranks present.
// With all three ranks present the shares are 50/30/20; with fewer, the present ranks split the whole pool in the same proportion.
func RankShareFor(present int) []decimal.Decimal {
	if present <= 0 {
		return nil
	}
	if present > len(RankShares) {
		present = len(RankShares)
	}
	total := decimal.Zero
	for _, s := range RankShares[:present] {
		total = total.Add(s)
	}
	shares := make([]decimal.Decimal, present)
	for i, s := range RankShares[:present] {
		shares[i] = s.Div(total)
	}
	return shares
}

// RankTallies orders tallies by votes descending, ties broken by lower contestant id, and drops zero tallies
func RankTallies(tallies []shared.Tally) []shared.Tally {
	ranked := make([]shared.Tally, 0, len(tallies))
	for _, t := range tallies {
		if t.Votes > 0 {
			ranked = append(ranked, t)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Votes != ranked[j].Votes {
			return ranked[i].Votes > ranked[j].Votes
		}
		return ranked[i].ContestantID < ranked[j].ContestantID
	})
	return ranked
}

// Distribute splits a pool across the top tallies. Amounts are rounded down to the cent so the sum never exceeds the pool.
func Distribute(pool decimal.Decimal, tallies []shared.Tally) []Winner {
	ranked := RankTallies(tallies)
	if len(ranked) > MaxWinners {
		ranked = ranked[:MaxWinners]
	}
	shares := RankShareFor(len(ranked))

	winners := make([]Winner, 0, len(ranked))
	for i, t := range ranked {
		amount := pool.Mul(shares[i]).RoundFloor(2)
		winners = append(winners, Winner{
			Rank:         i + 1,
			ContestantID: t.ContestantID,
			Votes:        t.Votes,
			Share:        shares[i],
			AmountUSD:    amount,
			AmountNGN:    amount.Mul(NGNPerUSD).Floor(),
		})
	}
	return winners
}

// ComputePayout builds the full payout summary for a scope
// Preconditions: Receives the scope, number of purchased votes in scope (revenue basis) and per-contestant tallies in scope (ranking basis)
// Postconditions: Returns the payout summary or an error if the scope is invalid
func ComputePayout(scope string, purchasedVotes int, tallies []shared.Tally) (Payout, error) {
	revenue, pool, err := PayoutPool(scope, purchasedVotes)
	if err != nil {
		return Payout{}, err
	}
	return Payout{
		Scope:      scope,
		TotalVotes: purchasedVotes,
		RevenueUSD: revenue,
		PoolUSD:    pool,
		RevenueNGN: ToNGN(revenue),
		PoolNGN:    ToNGN(pool),
		Winners:    Distribute(pool, tallies),
	}, nil
}

// PlaceLabel returns a display label for a rank
func PlaceLabel(rank int) string {
	switch rank {
	case 1:
		return "First Place"
	case 2:
		return "Second Place"
	case 3:
		return "Third Place"
	default:
		return "No Winner"
	}
}
