/* payout_test.go
 * Contains unit tests for payout.go functions
 * Authors: Zachary Bower
 */

package logic

import (
	"testing"

	"smallie/api/shared"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// region PayoutPool tests

func TestPayoutPool_Daily(t *testing.T) {
	revenue, pool, err := PayoutPool(shared.PayoutDaily, 100)

	require.NoError(t, err)
	assert.True(t, dec("50").Equal(revenue))
	assert.True(t, dec("4.5").Equal(pool))
}

func TestPayoutPool_Final(t *testing.T) {
	revenue, pool, err := PayoutPool(shared.PayoutFinal, 100)

	require.NoError(t, err)
	assert.True(t, dec("50").Equal(revenue))
	assert.True(t, dec("45").Equal(pool))
}

func TestPayoutPool_MatchesFormulaForAnyCount(t *testing.T) {
	for votes := 0; votes <= 500; votes += 7 {
		_, daily, err := PayoutPool(shared.PayoutDaily, votes)
		require.NoError(t, err)
		_, final, err := PayoutPool(shared.PayoutFinal, votes)
		require.NoError(t, err)

		v := decimal.NewFromInt(int64(votes))
		assert.True(t, v.Mul(dec("0.5")).Mul(dec("0.09")).Equal(daily))
		assert.True(t, v.Mul(dec("0.5")).Mul(dec("0.90")).Equal(final))
	}
}

func TestPayoutPool_ZeroVotes(t *testing.T) {
	revenue, pool, err := PayoutPool(shared.PayoutFinal, 0)

	require.NoError(t, err)
	assert.True(t, revenue.IsZero())
	assert.True(t, pool.IsZero())
}

func TestPayoutPool_UnknownScope(t *testing.T) {
	_, _, err := PayoutPool("weekly", 10)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown payout scope")
}

func TestPayoutPool_NegativeVotes(t *testing.T) {
	_, _, err := PayoutPool(shared.PayoutDaily, -1)
	assert.Error(t, err)
}

// endregion

// region Distribute tests

func TestDistribute_ThreeWinners(t *testing.T) {
	tallies := []shared.Tally{
		{ContestantID: 1, Votes: 10},
		{ContestantID: 2, Votes: 30},
		{ContestantID: 3, Votes: 20},
		{ContestantID: 4, Votes: 5},
	}

	winners := Distribute(dec("100"), tallies)

	require.Len(t, winners, 3)
	assert.Equal(t, 2, winners[0].ContestantID)
	assert.Equal(t, 3, winners[1].ContestantID)
	assert.Equal(t, 1, winners[2].ContestantID)
	assert.True(t, dec("50").Equal(winners[0].AmountUSD))
	assert.True(t, dec("30").Equal(winners[1].AmountUSD))
	assert.True(t, dec("20").Equal(winners[2].AmountUSD))
	assert.True(t, dec("24000").Equal(winners[0].AmountNGN))
}

func TestDistribute_SingleWinnerTakesWholePool(t *testing.T) {
	winners := Distribute(dec("45"), []shared.Tally{{ContestantID: 7, Votes: 3}})

	require.Len(t, winners, 1)
	assert.Equal(t, 1, winners[0].Rank)
	assert.True(t, dec("45").Equal(winners[0].AmountUSD))
}

func TestDistribute_TwoWinnersRenormalised(t *testing.T) {
	winners := Distribute(dec("80"), []shared.Tally{
		{ContestantID: 1, Votes: 9},
		{ContestantID: 2, Votes: 4},
	})

	require.Len(t, winners, 2)
	assert.True(t, dec("50").Equal(winners[0].AmountUSD))
	assert.True(t, dec("30").Equal(winners[1].AmountUSD))
}

func TestDistribute_NeverExceedsPool(t *testing.T) {
	pools := []string{"0.01", "0.07", "1", "4.5", "13.37", "999.99"}
	for _, p := range pools {
		for n := 1; n <= 3; n++ {
			var tallies []shared.Tally
			for i := 1; i <= n; i++ {
				tallies = append(tallies, shared.Tally{ContestantID: i, Votes: 10 * i})
			}
			winners := Distribute(dec(p), tallies)
			require.Len(t, winners, n)

			sum := decimal.Zero
			for _, w := range winners {
				sum = sum.Add(w.AmountUSD)
			}
			assert.True(t, sum.LessThanOrEqual(dec(p)), "pool %s with %d winners paid %s", p, n, sum)
		}
	}
}

func TestDistribute_NoVotes(t *testing.T) {
	winners := Distribute(dec("10"), nil)
	assert.Empty(t, winners)
}

func TestDistribute_TieBrokenByContestantID(t *testing.T) {
	winners := Distribute(dec("10"), []shared.Tally{
		{ContestantID: 5, Votes: 3},
		{ContestantID: 2, Votes: 3},
	})

	require.Len(t, winners, 2)
	assert.Equal(t, 2, winners[0].ContestantID)
	assert.Equal(t, 5, winners[1].ContestantID)
}

// endregion

// region ComputePayout tests

func TestComputePayout_Daily(t *testing.T) {
	payout, err := ComputePayout(shared.PayoutDaily, 200, []shared.Tally{{ContestantID: 1, Votes: 200}})

	require.NoError(t, err)
	assert.Equal(t, shared.PayoutDaily, payout.Scope)
	assert.True(t, dec("100").Equal(payout.RevenueUSD))
	assert.True(t, dec("9").Equal(payout.PoolUSD))
	assert.True(t, dec("4320").Equal(payout.PoolNGN))
	require.Len(t, payout.Winners, 1)
	assert.True(t, dec("9").Equal(payout.Winners[0].AmountUSD))
}

func TestPlaceLabel(t *testing.T) {
	assert.Equal(t, "First Place", PlaceLabel(1))
	assert.Equal(t, "Second Place", PlaceLabel(2))
	assert.Equal(t, "Third Place", PlaceLabel(3))
	assert.Equal(t, "No Winner", PlaceLabel(0))
}

// endregion
