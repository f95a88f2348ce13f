/* models.go
 * This file contain the interfaces, structs and constants that are shared between sub packages
 * Authors: Zachary Bower
 */

package shared

// Payout scopes
const (
	PayoutDaily = "daily"
	PayoutFinal = "final"
)

// Application statuses
const (
	ApplicationPending  = "pending"
	ApplicationApproved = "approved"
	ApplicationRejected = "rejected"
)

// Payment statuses. Transitions are advisory; nothing reconciles them against the provider.
const (
	PaymentInitiated  = "initiated"
	PaymentProcessing = "processing"
	PaymentCompleted  = "completed"
	PaymentCancelled  = "cancelled"
	PaymentFailed     = "failed"
	PaymentPending    = "pending"
)

// Payment rails
const (
	RailFlutterwave = "flutterwave"
	RailSolana      = "solana"
)

// Vote sources. Only purchases count towards revenue.
const (
	VoteSourcePurchase   = "purchase"
	VoteSourceAdjustment = "adjustment"
)

// Voter identifies who cast a vote. Either field may be empty for anonymous voters below the email threshold.
type Voter struct {
	UserID string `bson:"userId,omitempty" json:"userId,omitempty"`
	Email  string `bson:"email,omitempty" json:"email,omitempty"`
}

// Recipient describes who a payout is sent to
type Recipient struct {
	ID     string  `bson:"id" json:"id"`
	Name   string  `bson:"name" json:"name"`
	Email  string  `bson:"email" json:"email"`
	Wallet string  `bson:"wallet" json:"wallet"`
	Place  string  `bson:"place" json:"place"`
	Payout float64 `bson:"payout" json:"payout"`
	Votes  int     `bson:"votes" json:"votes"`
}

// Tally is the summed vote count for one contestant within a scope
type Tally struct {
	ContestantID int `bson:"_id" json:"contestantId"`
	Votes        int `bson:"votes" json:"votes"`
}

// DayTally is the vote count one contestant received on one calendar day. Purchased excludes admin adjustments.
type DayTally struct {
	Date         string `bson:"date" json:"date"`
	ContestantID int    `bson:"contestantId" json:"contestantId"`
	Votes        int    `bson:"votes" json:"votes"`
	Purchased    int    `bson:"purchased" json:"purchased"`
}
