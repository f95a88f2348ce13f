/* pricing.go
 * Contains the vote pricing and currency conversion logic
 * Authors: Zachary Bower
 */

package logic

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Pricing constants. Amounts are in USD unless stated otherwise.
var (
	UnitPrice = decimal.RequireFromString("0.50")
	NGNPerUSD = decimal.NewFromInt(480)
	USDPerSOL = decimal.NewFromInt(240)
)

// EmailThreshold is the vote count from which an email address is required
const EmailThreshold = 5

// Quote holds the price of a vote purchase in both display currencies
type Quote struct {
	Count    int             `json:"count"`
	TotalUSD decimal.Decimal `json:"totalUsd"`
	TotalNGN decimal.Decimal `json:"totalNgn"`
}

// USD returns the total formatted with two decimals, e.g. "1.50"
func (q Quote) USD() string {
	return q.TotalUSD.StringFixed(2)
}

// NGN returns the naira total rounded to a whole unit, e.g. "720"
func (q Quote) NGN() string {
	return q.TotalNGN.StringFixed(0)
}

// VotePrice calculates the price of count votes.
// Preconditions: Receives the number of votes being purchased
// Postconditions: Returns the quote (count x 0.50 rounded to 2dp, and its naira value) or an error if count is not positive
func VotePrice(count int) (Quote, error) {
	if count < 1 {
		return Quote{}, fmt.Errorf("vote count must be at least 1, got %d", count)
	}
	usd := UnitPrice.Mul(decimal.NewFromInt(int64(count))).Round(2)
	return Quote{
		Count:    count,
		TotalUSD: usd,
		TotalNGN: ToNGN(usd),
	}, nil
}

// Revenue returns the USD revenue generated by a number of purchased votes
func Revenue(votes int) decimal.Decimal {
	return UnitPrice.Mul(decimal.NewFromInt(int64(votes)))
}

// ToNGN converts a USD amount to naira, rounded to the nearest whole unit
func ToNGN(usd decimal.Decimal) decimal.Decimal {
	return usd.Mul(NGNPerUSD).Round(0)
}

// ToSOL converts a USD amount to SOL at the fixed approximate rate, rounded to 4dp
func ToSOL(usd decimal.Decimal) decimal.Decimal {
	return usd.Div(USDPerSOL).Round(4)
}

// RequiresEmail reports whether a purchase of count votes must carry an email address
func RequiresEmail(count int) bool {
	return count >= EmailThreshold
}
