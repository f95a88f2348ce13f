/* store_interface.go
 * Contains the Store interface for dependency injection and testing
 * Authors: Zachary Bower
 */

package store

import (
	"context"

	"smallie/api/shared"
)

// Interface defines the methods that Store implements.
// This allows for mocking in tests.
type Interface interface {
	// Contestants
	ListContestants(ctx context.Context) ([]Contestant, error)
	GetContestant(ctx context.Context, id int) (Contestant, error)
	CountContestants(ctx context.Context) (int64, error)
	NextContestantID(ctx context.Context) (int, error)
	InsertContestant(ctx context.Context, contestant Contestant) error
	UpdateContestant(ctx context.Context, id int, update ContestantUpdate) error
	SetEliminated(ctx context.Context, id int, eliminated bool) error
	IncrementVotes(ctx context.Context, id int, delta int) error
	SetVotes(ctx context.Context, id int, votes int) (int, error)

	// Applications
	InsertApplication(ctx context.Context, app Application) (string, error)
	GetApplication(ctx context.Context, id string) (Application, error)
	ListApplications(ctx context.Context, status string) ([]Application, error)
	TransitionApplication(ctx context.Context, id string, from string, to string, contestantID int) error

	// Votes
	InsertVote(ctx context.Context, vote Vote) error
	SumPurchasedVotes(ctx context.Context, filter VoteFilter) (int, error)
	TallyVotes(ctx context.Context, filter VoteFilter) ([]shared.Tally, error)
	DailyTallies(ctx context.Context, filter VoteFilter, offset string) ([]shared.DayTally, error)

	// Tasks
	ListTasks(ctx context.Context) ([]Task, error)
	GetTask(ctx context.Context, id string) (Task, error)
	GetTaskByDay(ctx context.Context, day int) (Task, error)
	CountTasks(ctx context.Context) (int64, error)
	InsertTask(ctx context.Context, task Task) (string, error)
	UpdateTask(ctx context.Context, id string, task Task) error
	DeleteTask(ctx context.Context, id string) error

	// Payments and payout requests
	InsertPayment(ctx context.Context, payment Payment) (string, error)
	GetPayment(ctx context.Context, id string) (Payment, error)
	GetPaymentByTxRef(ctx context.Context, txRef string) (Payment, error)
	TransitionPayment(ctx context.Context, id string, from []string, to string, update PaymentUpdate) error
	InsertPayoutRequest(ctx context.Context, req PayoutRequest) (string, error)
	ListPayoutRequests(ctx context.Context) ([]PayoutRequest, error)

	// Getter methods for accessing fields
	GetDatabase() interface{ Name() string }
	GetClient() interface{ Disconnect(context.Context) error }
}

// Ensure Store implements Interface
var _ Interface = (*Store)(nil)

// GetDatabase returns the database instance
func (s *Store) GetDatabase() interface{ Name() string } {
	return s.Database
}

// GetClient returns the MongoDB client
func (s *Store) GetClient() interface{ Disconnect(context.Context) error } {
	return s.Client
}
