/* models.go
 * This file contain the request and response structs that are used by api consumers
 * Authors: Zachary Bower
 */

package api

import (
	"smallie/api/external"
	"smallie/api/logic"
	"smallie/api/shared"
	"smallie/api/store"

	"github.com/shopspring/decimal"
)

// VoteRequest is a vote purchase submitted by a fan
type VoteRequest struct {
	ContestantID int    `json:"contestantId"`
	Count        int    `json:"count"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	UserID       string `json:"userId"`
}

// VoteResult is the outcome of SubmitVote. Either a checkout was opened and the vote is recorded once the payment
// completes, or no rail is configured and the vote was recorded immediately.
type VoteResult struct {
	Quote     logic.Quote        `json:"quote"`
	Recorded  bool               `json:"recorded"`
	PaymentID string             `json:"paymentId,omitempty"`
	Checkout  *external.Checkout `json:"checkout,omitempty"`
}

// ApplicationRequest is the signup form
type ApplicationRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Location     string `json:"location"`
	Bio          string `json:"bio"`
	SocialHandle string `json:"socialHandle"`
	Experience   string `json:"experience"`
	StreamURL    string `json:"streamUrl"`
	Age          int    `json:"age"`
	PhotoURL     string `json:"photoUrl"`
}

// TaskInput is the admin task form
type TaskInput struct {
	Day         int    `json:"day"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// TaskView is the task shown for a day. Placeholder is set when no task is scheduled.
type TaskView struct {
	Day         int    `json:"day"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Placeholder bool   `json:"placeholder"`
}

// PayoutPreview is a computed payout with the winners resolved to contestants
type PayoutPreview struct {
	logic.Payout
	Recipients []shared.Recipient `json:"recipients"`
}

// Leader returns the first place recipient
func (p PayoutPreview) Leader() (shared.Recipient, bool) {
	if len(p.Recipients) == 0 {
		return shared.Recipient{}, false
	}
	return p.Recipients[0], true
}

// FiatPayout is the payment record and checkout opened for a fiat payout
type FiatPayout struct {
	Payment  store.Payment     `json:"payment"`
	Checkout external.Checkout `json:"checkout"`
}

// PrizeFund is the final pool accumulated so far
type PrizeFund struct {
	TotalVotes int             `json:"totalVotes"`
	RevenueUSD decimal.Decimal `json:"revenueUsd"`
	PoolUSD    decimal.Decimal `json:"poolUsd"`
	PoolNGN    decimal.Decimal `json:"poolNgn"`
}

// Stats is the admin dashboard summary: the prize fund totals, the last seven days of voting and every contestant's
// votes
type Stats struct {
	PrizeFund
	ActiveContestants int               `json:"activeContestants"`
	Days              []DayStats        `json:"days"`
	Contestants       []ContestantVotes `json:"contestants"`
}

// DayStats is one day of the dashboard series with the leader's name resolved
type DayStats struct {
	logic.DayStats
	Leader string `json:"leader,omitempty"`
}

// ContestantVotes compares a contestant's vote counter with the total in the vote log
type ContestantVotes struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Votes       int    `json:"votes"`
	LoggedVotes int    `json:"loggedVotes"`
	Eliminated  bool   `json:"eliminated"`
}
