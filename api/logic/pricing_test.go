/* pricing_test.go
 * Contains unit tests for pricing.go functions
 * Authors: Zachary Bower
 */

package logic

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// region VotePrice tests

func TestVotePrice_ThreeVotes(t *testing.T) {
	quote, err := VotePrice(3)

	require.NoError(t, err)
	assert.Equal(t, "1.50", quote.USD())
	assert.Equal(t, "720", quote.NGN())
}

func TestVotePrice_SingleVote(t *testing.T) {
	quote, err := VotePrice(1)

	require.NoError(t, err)
	assert.Equal(t, "0.50", quote.USD())
	assert.Equal(t, "240", quote.NGN())
}

func TestVotePrice_LargeCount(t *testing.T) {
	quote, err := VotePrice(1001)

	require.NoError(t, err)
	assert.Equal(t, "500.50", quote.USD())
	assert.Equal(t, "240240", quote.NGN())
}

func TestVotePrice_IsCountTimesUnitPrice(t *testing.T) {
	for count := 1; count <= 200; count++ {
		quote, err := VotePrice(count)
		require.NoError(t, err)
		expected := decimal.NewFromInt(int64(count)).Div(decimal.NewFromInt(2))
		assert.True(t, expected.Equal(quote.TotalUSD), "count %d: expected %s got %s", count, expected, quote.TotalUSD)
	}
}

func TestVotePrice_RejectsNonPositive(t *testing.T) {
	for _, count := range []int{0, -1, -50} {
		_, err := VotePrice(count)
		assert.Error(t, err)
	}
}

// endregion

// region conversion tests

func TestToSOL_RoundsToFourPlaces(t *testing.T) {
	sol := ToSOL(decimal.RequireFromString("1"))
	assert.Equal(t, "0.0042", sol.String())
}

func TestRequiresEmail(t *testing.T) {
	assert.False(t, RequiresEmail(1))
	assert.False(t, RequiresEmail(4))
	assert.True(t, RequiresEmail(5))
	assert.True(t, RequiresEmail(100))
}

// endregion
