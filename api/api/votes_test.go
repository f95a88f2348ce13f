/* votes_test.go
 * Contains unit tests for votes.go
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"testing"

	"smallie/api/external"
	"smallie/api/shared"
	"smallie/api/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// region Quote tests

func TestQuote(t *testing.T) {
	a, _ := newTestAPI(t)

	q, err := a.Quote(3)
	require.NoError(t, err)
	assert.Equal(t, "1.50", q.USD())
	assert.Equal(t, "720", q.NGN())

	_, err = a.Quote(0)
	assert.ErrorIs(t, err, ErrValidation)
}

// endregion

// region SubmitVote tests

func TestSubmitVote_ValidationBeforePersistence(t *testing.T) {
	tests := []struct {
		name string
		req  VoteRequest
	}{
		{"no contestant", VoteRequest{Count: 1}},
		{"zero votes", VoteRequest{ContestantID: 1, Count: 0}},
		{"email required at threshold", VoteRequest{ContestantID: 1, Count: 5}},
		{"invalid email", VoteRequest{ContestantID: 1, Count: 1, Email: "not-an-email"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, mockStore := newTestAPI(t)
			mockStore.AddContestants(sampleContestants()...)

			_, err := a.SubmitVote(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Empty(t, mockStore.Votes)
			assert.Empty(t, mockStore.Payments)
			assert.Equal(t, 120, mockStore.Contestants[1].Votes)
		})
	}
}

func TestSubmitVote_UnknownContestant(t *testing.T) {
	a, _ := newTestAPI(t)

	_, err := a.SubmitVote(context.Background(), VoteRequest{ContestantID: 42, Count: 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitVote_EliminatedContestant(t *testing.T) {
	a, mockStore := newTestAPI(t)
	mockStore.AddContestants(sampleContestants()...)

	_, err := a.SubmitVote(context.Background(), VoteRequest{ContestantID: 2, Count: 1})
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Empty(t, mockStore.Votes)
}

func TestSubmitVote_DirectWhenNoRail(t *testing.T) {
	a, mockStore := newTestAPI(t)
	a.Receipts = external.NewMemoryReceipts()
	mockStore.AddContestants(sampleContestants()...)

	result, err := a.SubmitVote(context.Background(), VoteRequest{ContestantID: 3, Count: 4})
	require.NoError(t, err)
	assert.True(t, result.Recorded)
	assert.Nil(t, result.Checkout)
	assert.Equal(t, "2.00", result.Quote.USD())

	assert.Equal(t, 99, mockStore.Contestants[3].Votes)
	require.Len(t, mockStore.Votes, 1)
	vote := mockStore.Votes[0]
	assert.Equal(t, 4, vote.Count)
	assert.Equal(t, 2, vote.Day)
	assert.Equal(t, 2.0, vote.Amount)
	assert.Equal(t, shared.VoteSourcePurchase, vote.Source)
	assert.Equal(t, testNow, vote.Timestamp)

	receipts, _ := a.ListReceipts(context.Background())
	require.Len(t, receipts, 1)
	assert.Equal(t, "Chidi Eze", receipts[0].ContestantName)
}

func TestSubmitVote_OpensCheckout(t *testing.T) {
	a, mockStore := newTestAPI(t)
	fiat := &MockFiatRail{}
	a.Fiat = fiat
	mockStore.AddContestants(sampleContestants()...)

	result, err := a.SubmitVote(context.Background(), VoteRequest{ContestantID: 1, Count: 10, Email: "fan@example.com"})
	require.NoError(t, err)
	assert.False(t, result.Recorded)
	require.NotNil(t, result.Checkout)
	assert.NotEmpty(t, result.PaymentID)

	// Nothing is counted until the payment completes
	assert.Equal(t, 120, mockStore.Contestants[1].Votes)
	assert.Empty(t, mockStore.Votes)

	payment := mockStore.Payments[result.PaymentID]
	assert.Equal(t, shared.PaymentInitiated, payment.Status)
	assert.Equal(t, store.PurposeVote, payment.Purpose)
	assert.Equal(t, 10, payment.VoteCount)
	assert.Equal(t, 1, payment.ContestantID)
	assert.Equal(t, 5.0, payment.Amount)
	assert.Equal(t, result.Checkout.TxRef, payment.TxRef)

	require.Len(t, fiat.Checkouts, 1)
	assert.True(t, fiat.Checkouts[0].Amount.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, "10 votes for Ada Obi", fiat.Checkouts[0].Description)
}

func TestSubmitVote_RailWithoutKeysFallsBack(t *testing.T) {
	a, mockStore := newTestAPI(t)
	a.Fiat = &MockFiatRail{AvailableError: external.ErrRailUnavailable}
	mockStore.AddContestants(sampleContestants()...)

	result, err := a.SubmitVote(context.Background(), VoteRequest{ContestantID: 1, Count: 1})
	require.NoError(t, err)
	assert.True(t, result.Recorded)
	assert.Equal(t, 121, mockStore.Contestants[1].Votes)
}

// endregion

// region RecordVote tests

func TestRecordVote_CounterAndLogAgree(t *testing.T) {
	a, mockStore := newTestAPI(t)
	mockStore.AddContestants(sampleContestants()...)
	ctx := context.Background()

	require.NoError(t, a.RecordVote(ctx, 4, 3, shared.Voter{Email: "a@b.co"}, ""))
	require.NoError(t, a.RecordVote(ctx, 4, 2, shared.Voter{}, "pay-1"))

	total := 0
	for _, v := range mockStore.Votes {
		if v.ContestantID == 4 {
			total += v.Count
		}
	}
	assert.Equal(t, 5, total)
	assert.Equal(t, 15, mockStore.Contestants[4].Votes)
	assert.Equal(t, "pay-1", mockStore.Votes[1].PaymentID)
}

func TestRecordVote_MissingContestant(t *testing.T) {
	a, mockStore := newTestAPI(t)

	err := a.RecordVote(context.Background(), 9, 1, shared.Voter{}, "")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, mockStore.Votes)
}

// endregion

// region CompletePayment tests

func newVotePayment(mockStore *MockStore, txRef string) string {
	return mockStore.AddPayment(store.Payment{
		Rail:         shared.RailFlutterwave,
		Purpose:      store.PurposeVote,
		Amount:       5,
		Currency:     "USD",
		TxRef:        txRef,
		Status:       shared.PaymentInitiated,
		Email:        "fan@example.com",
		ContestantID: 3,
		VoteCount:    10,
	})
}

func TestCompletePayment_RecordsVoteOnce(t *testing.T) {
	a, mockStore := newTestAPI(t)
	a.Receipts = external.NewMemoryReceipts()
	a.Fiat = &MockFiatRail{Verification: external.Verification{
		ID: 777, TxRef: "smallie-1", Status: "successful", Amount: 5, Currency: "USD",
	}}
	mockStore.AddContestants(sampleContestants()...)
	id := newVotePayment(mockStore, "smallie-1")
	ctx := context.Background()

	payment, err := a.CompletePayment(ctx, "smallie-1", "777")
	require.NoError(t, err)
	assert.Equal(t, shared.PaymentCompleted, payment.Status)
	assert.Equal(t, "777", mockStore.Payments[id].ProviderRef)
	assert.Equal(t, 105, mockStore.Contestants[3].Votes)
	require.Len(t, mockStore.Votes, 1)
	assert.Equal(t, id, mockStore.Votes[0].PaymentID)

	// A duplicate callback does not count the votes again
	_, err = a.CompletePayment(ctx, "smallie-1", "777")
	require.NoError(t, err)
	assert.Equal(t, 105, mockStore.Contestants[3].Votes)
	assert.Len(t, mockStore.Votes, 1)

	receipts, _ := a.ListReceipts(ctx)
	require.Len(t, receipts, 1)
	assert.Equal(t, 10, receipts[0].VoteCount)
	assert.Equal(t, "Chidi Eze", receipts[0].ContestantName)
}

func TestCompletePayment_VerificationMismatch(t *testing.T) {
	a, mockStore := newTestAPI(t)
	a.Fiat = &MockFiatRail{Verification: external.Verification{
		TxRef: "smallie-1", Status: "successful", Amount: 0.5, Currency: "USD",
	}}
	mockStore.AddContestants(sampleContestants()...)
	id := newVotePayment(mockStore, "smallie-1")

	_, err := a.CompletePayment(context.Background(), "smallie-1", "777")
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, shared.PaymentFailed, mockStore.Payments[id].Status)
	assert.Empty(t, mockStore.Votes)
	assert.Equal(t, 95, mockStore.Contestants[3].Votes)
}

func TestCompletePayment_WithoutSecretKey(t *testing.T) {
	a, mockStore := newTestAPI(t)
	a.Fiat = &MockFiatRail{VerifyError: external.ErrRailUnavailable}
	mockStore.AddContestants(sampleContestants()...)
	newVotePayment(mockStore, "smallie-1")

	payment, err := a.CompletePayment(context.Background(), "smallie-1", "777")
	require.NoError(t, err)
	assert.Equal(t, shared.PaymentCompleted, payment.Status)
	assert.Equal(t, 105, mockStore.Contestants[3].Votes)
}

func TestCompletePayment_CancelledPayment(t *testing.T) {
	a, mockStore := newTestAPI(t)
	a.Fiat = &MockFiatRail{VerifyError: external.ErrRailUnavailable}
	mockStore.AddContestants(sampleContestants()...)
	newVotePayment(mockStore, "smallie-1")

	_, err := a.CancelPayment(context.Background(), "smallie-1")
	require.NoError(t, err)

	_, err = a.CompletePayment(context.Background(), "smallie-1", "777")
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Empty(t, mockStore.Votes)
}

func TestCompletePayment_UnknownTxRef(t *testing.T) {
	a, _ := newTestAPI(t)
	a.Fiat = &MockFiatRail{}

	_, err := a.CompletePayment(context.Background(), "nope", "1")
	assert.ErrorIs(t, err, ErrNotFound)
}

// endregion

// region CancelPayment tests

func TestCancelPayment(t *testing.T) {
	a, mockStore := newTestAPI(t)
	id := newVotePayment(mockStore, "smallie-1")
	ctx := context.Background()

	payment, err := a.CancelPayment(ctx, "smallie-1")
	require.NoError(t, err)
	assert.Equal(t, shared.PaymentCancelled, payment.Status)
	assert.NotNil(t, mockStore.Payments[id].CancelledAt)

	// Cancelling twice is harmless
	_, err = a.CancelPayment(ctx, "smallie-1")
	assert.NoError(t, err)
}

func TestCancelPayment_AlreadyCompleted(t *testing.T) {
	a, mockStore := newTestAPI(t)
	mockStore.AddPayment(store.Payment{TxRef: "smallie-2", Status: shared.PaymentCompleted})

	_, err := a.CancelPayment(context.Background(), "smallie-2")
	assert.ErrorIs(t, err, ErrInvalidState)
}

// endregion

// region HandleFiatWebhook tests

func TestHandleFiatWebhook(t *testing.T) {
	event := external.WebhookEvent{
		Event: "charge.completed",
		Data:  external.Verification{ID: 9, TxRef: "smallie-1", Status: "successful", Amount: 5, Currency: "USD"},
	}

	t.Run("rejects bad signature", func(t *testing.T) {
		a, mockStore := newTestAPI(t)
		a.Fiat = &MockFiatRail{WebhookHash: "hash"}
		newVotePayment(mockStore, "smallie-1")

		err := a.HandleFiatWebhook(context.Background(), "wrong", event)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("completes payment", func(t *testing.T) {
		a, mockStore := newTestAPI(t)
		a.Fiat = &MockFiatRail{WebhookHash: "hash"}
		mockStore.AddContestants(sampleContestants()...)
		id := newVotePayment(mockStore, "smallie-1")

		require.NoError(t, a.HandleFiatWebhook(context.Background(), "hash", event))
		assert.Equal(t, shared.PaymentCompleted, mockStore.Payments[id].Status)
		assert.Equal(t, "9", mockStore.Payments[id].ProviderRef)
		assert.Equal(t, 105, mockStore.Contestants[3].Votes)
	})

	t.Run("marks failed charge", func(t *testing.T) {
		a, mockStore := newTestAPI(t)
		a.Fiat = &MockFiatRail{WebhookHash: "hash"}
		id := newVotePayment(mockStore, "smallie-1")

		failed := event
		failed.Data.Status = "failed"
		require.NoError(t, a.HandleFiatWebhook(context.Background(), "hash", failed))
		assert.Equal(t, shared.PaymentFailed, mockStore.Payments[id].Status)
		assert.Empty(t, mockStore.Votes)
	})
}

// endregion

// region verificationMismatch tests

func TestVerificationMismatch(t *testing.T) {
	payment := store.Payment{TxRef: "smallie-1", Amount: 2.5, Currency: "USD"}
	ok := external.Verification{TxRef: "smallie-1", Status: "successful", Amount: 2.5, Currency: "usd"}
	assert.Empty(t, verificationMismatch(payment, ok))

	overpaid := ok
	overpaid.Amount = 3
	assert.Empty(t, verificationMismatch(payment, overpaid))

	wrongRef := ok
	wrongRef.TxRef = "smallie-2"
	assert.NotEmpty(t, verificationMismatch(payment, wrongRef))

	wrongCurrency := ok
	wrongCurrency.Currency = "NGN"
	assert.NotEmpty(t, verificationMismatch(payment, wrongCurrency))

	pending := ok
	pending.Status = "pending"
	assert.NotEmpty(t, verificationMismatch(payment, pending))
}

// endregion
