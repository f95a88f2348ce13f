/* models.go
 * This file contain the structs that relate to DB objects. Every collection is a flat document; shape is enforced
 * here and in the api package, not by the database.
 * Authors: Zachary Bower
 */

package store

import (
	"time"

	"smallie/api/shared"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contestant is an approved competition participant. The numeric id is the document _id.
type Contestant struct {
	ID            int       `bson:"_id" json:"id"`
	Name          string    `bson:"name" json:"name"`
	Age           int       `bson:"age" json:"age"`
	Location      string    `bson:"location" json:"location"`
	Bio           string    `bson:"bio" json:"bio"`
	ImageURL      string    `bson:"image_url" json:"imageUrl"`
	StreamURL     string    `bson:"stream_url" json:"streamUrl"`
	Votes         int       `bson:"votes" json:"votes"`
	Eliminated    bool      `bson:"eliminated" json:"eliminated"`
	Email         string    `bson:"email" json:"email,omitempty"`
	Phone         string    `bson:"phone" json:"phone,omitempty"`
	SocialHandle  string    `bson:"social_handle" json:"socialHandle"`
	WalletAddress string    `bson:"wallet_address,omitempty" json:"walletAddress,omitempty"`
	CreatedAt     time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}

// GetVotes returns the denormalised vote counter
func (c Contestant) GetVotes() int {
	return c.Votes
}

// IsEliminated reports whether the contestant has been eliminated
func (c Contestant) IsEliminated() bool {
	return c.Eliminated
}

// ContestantUpdate holds the admin editable profile fields. Nil fields are left untouched.
type ContestantUpdate struct {
	Name          *string `bson:"name,omitempty" json:"name,omitempty"`
	Age           *int    `bson:"age,omitempty" json:"age,omitempty"`
	Location      *string `bson:"location,omitempty" json:"location,omitempty"`
	Bio           *string `bson:"bio,omitempty" json:"bio,omitempty"`
	ImageURL      *string `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
	StreamURL     *string `bson:"stream_url,omitempty" json:"streamUrl,omitempty"`
	Email         *string `bson:"email,omitempty" json:"email,omitempty"`
	Phone         *string `bson:"phone,omitempty" json:"phone,omitempty"`
	SocialHandle  *string `bson:"social_handle,omitempty" json:"socialHandle,omitempty"`
	WalletAddress *string `bson:"wallet_address,omitempty" json:"walletAddress,omitempty"`
}

// Application is a signup requesting to become a contestant
type Application struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	Phone        string             `bson:"phone" json:"phone"`
	Location     string             `bson:"location" json:"location"`
	Bio          string             `bson:"bio" json:"bio"`
	SocialHandle string             `bson:"socialHandle" json:"socialHandle"`
	Experience   string             `bson:"experience" json:"experience"`
	StreamURL    string             `bson:"streamUrl" json:"streamUrl"`
	Age          int                `bson:"age,omitempty" json:"age,omitempty"`
	PhotoURL     string             `bson:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	Status       string             `bson:"status" json:"status"`
	ContestantID int                `bson:"contestantId,omitempty" json:"contestantId,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// Vote is one append-only record of purchased (or admin adjusted) votes
type Vote struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ContestantID int                `bson:"contestantId" json:"contestantId"`
	UserID       string             `bson:"userId,omitempty" json:"userId,omitempty"`
	Email        string             `bson:"email,omitempty" json:"email,omitempty"`
	Count        int                `bson:"count" json:"count"`
	Day          int                `bson:"day" json:"day"`
	Timestamp    time.Time          `bson:"timestamp" json:"timestamp"`
	Amount       float64            `bson:"amount" json:"amount"`
	Source       string             `bson:"source" json:"source"`
	PaymentID    string             `bson:"paymentId,omitempty" json:"paymentId,omitempty"`
}

// Task is an admin managed daily challenge
type Task struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Day           int                `bson:"day" json:"day"`
	Title         string             `bson:"title" json:"title"`
	Description   string             `bson:"description" json:"description"`
	Status        string             `bson:"status" json:"status"`
	ScheduledDate time.Time          `bson:"scheduled_date" json:"scheduledDate"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Task statuses
const (
	TaskPending   = "pending"
	TaskActive    = "active"
	TaskCompleted = "completed"
)

// Payment purposes
const (
	PurposeVote   = "vote"
	PurposePayout = "payout"
)

// Payment is the server side record of one checkout on either rail
type Payment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Rail       string             `bson:"rail" json:"rail"`
	Purpose    string             `bson:"purpose" json:"purpose"`
	PayoutType string             `bson:"payoutType,omitempty" json:"payoutType,omitempty"`
	Amount     float64            `bson:"amount" json:"amount"`
	Currency   string             `bson:"currency" json:"currency"`
	TxRef      string             `bson:"txRef" json:"txRef"`
	Status     string             `bson:"status" json:"status"`
	Simulated  bool               `bson:"simulated,omitempty" json:"simulated,omitempty"`

	// Customer or recipient
	Name   string `bson:"name,omitempty" json:"name,omitempty"`
	Email  string `bson:"email,omitempty" json:"email,omitempty"`
	Phone  string `bson:"phone,omitempty" json:"phone,omitempty"`
	Wallet string `bson:"wallet,omitempty" json:"wallet,omitempty"`

	// Vote purchase intent, recorded as votes once the payment completes
	ContestantID int `bson:"contestantId,omitempty" json:"contestantId,omitempty"`
	VoteCount    int `bson:"voteCount,omitempty" json:"voteCount,omitempty"`

	// Provider references
	ProviderRef  string `bson:"providerRef,omitempty" json:"providerRef,omitempty"`
	Signature    string `bson:"signature,omitempty" json:"signature,omitempty"`
	Block        int64  `bson:"block,omitempty" json:"block,omitempty"`
	ErrorMessage string `bson:"errorMessage,omitempty" json:"errorMessage,omitempty"`
	// Why a payment was cancelled, e.g. the operator declined the transfer
	CancellationReason string `bson:"cancellationReason,omitempty" json:"cancellationReason,omitempty"`

	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
	CompletedAt *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	CancelledAt *time.Time `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
	FailedAt    *time.Time `bson:"failedAt,omitempty" json:"failedAt,omitempty"`
}

// PaymentUpdate holds the fields written alongside a status transition
type PaymentUpdate struct {
	ProviderRef        string     `bson:"providerRef,omitempty"`
	Signature          string     `bson:"signature,omitempty"`
	Block              int64      `bson:"block,omitempty"`
	ErrorMessage       string     `bson:"errorMessage,omitempty"`
	CancellationReason string     `bson:"cancellationReason,omitempty"`
	CompletedAt        *time.Time `bson:"completedAt,omitempty"`
	CancelledAt        *time.Time `bson:"cancelledAt,omitempty"`
	FailedAt           *time.Time `bson:"failedAt,omitempty"`
}

// PayoutRequest records that an admin opened a payout for a scope
type PayoutRequest struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type      string             `bson:"type" json:"type"`
	Amount    float64            `bson:"amount" json:"amount"`
	AmountSol float64            `bson:"amountSol" json:"amountSol"`
	Recipient shared.Recipient   `bson:"recipient" json:"recipient"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// VoteFilter restricts vote aggregations to a time window. Zero times are unbounded.
type VoteFilter struct {
	From time.Time
	To   time.Time
}
