/* votes.go
 * Contains the vote purchase flow: quoting, submitting, recording and completing or cancelling the payment behind a
 * vote
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"smallie/api/external"
	"smallie/api/logic"
	"smallie/api/shared"
	"smallie/api/store"
)

// Quote returns the price of count votes
func (a *API) Quote(count int) (logic.Quote, error) {
	quote, err := logic.VotePrice(count)
	if err != nil {
		return logic.Quote{}, newError(ErrValidation, "please enter at least 1 vote")
	}
	return quote, nil
}

// SubmitVote validates a vote purchase and either opens a checkout for it, or records it directly when no payment rail
// is configured
// Preconditions: Receives context and the vote request
// Postconditions: Returns the quote with either the checkout or Recorded set, or an error. Invalid requests are
// rejected before anything is written.
func (a *API) SubmitVote(ctx context.Context, req VoteRequest) (VoteResult, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := logic.ValidateVote(req.ContestantID, req.Count, req.Email); err != nil {
		return VoteResult{}, validationError(err)
	}
	quote, err := a.Quote(req.Count)
	if err != nil {
		return VoteResult{}, err
	}

	contestant, err := a.Store.GetContestant(ctx, req.ContestantID)
	if err != nil {
		return VoteResult{}, translate(err, "contestant")
	}
	if contestant.Eliminated {
		return VoteResult{}, newError(ErrInvalidState, "%s has been eliminated and can no longer receive votes", contestant.Name)
	}

	if err := a.fiatAvailable(); err != nil {
		a.log().Info("no payment rail, recording vote directly", "contestant", contestant.ID, "count", req.Count, "reason", err)
		voter := shared.Voter{UserID: req.UserID, Email: req.Email}
		if err := a.RecordVote(ctx, contestant.ID, req.Count, voter, ""); err != nil {
			return VoteResult{}, err
		}
		a.appendReceipt(ctx, external.Receipt{
			Provider:       "direct",
			Amount:         quote.TotalUSD.InexactFloat64(),
			VoteCount:      req.Count,
			ContestantID:   contestant.ID,
			ContestantName: contestant.Name,
			Email:          req.Email,
			Status:         shared.PaymentCompleted,
			Timestamp:      a.now(),
		})
		return VoteResult{Quote: quote, Recorded: true}, nil
	}

	checkout, err := a.Fiat.Checkout(external.CheckoutRequest{
		Amount:      quote.TotalUSD,
		Currency:    external.DefaultCurrency,
		Email:       req.Email,
		Phone:       req.Phone,
		Name:        req.Name,
		Description: fmt.Sprintf("%d votes for %s", req.Count, contestant.Name),
		Meta:        map[string]string{"contestantId": strconv.Itoa(contestant.ID), "voteCount": strconv.Itoa(req.Count)},
	})
	if err != nil {
		return VoteResult{}, err
	}

	payment := store.Payment{
		Rail:         shared.RailFlutterwave,
		Purpose:      store.PurposeVote,
		Amount:       checkout.Amount,
		Currency:     checkout.Currency,
		TxRef:        checkout.TxRef,
		Status:       shared.PaymentInitiated,
		Name:         checkout.Customer.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		ContestantID: contestant.ID,
		VoteCount:    req.Count,
		CreatedAt:    a.now(),
	}
	id, err := a.Store.InsertPayment(ctx, payment)
	if err != nil {
		return VoteResult{}, err
	}
	a.Metrics.PaymentTransition(payment.Rail, payment.Purpose, payment.Status)

	return VoteResult{Quote: quote, PaymentID: id, Checkout: &checkout}, nil
}

// RecordVote adds count votes to a contestant's counter and appends the matching vote record
// Preconditions: Receives context, contestant id, a positive count, the voter and the payment id (empty if none)
// Postconditions: Returns nil once both the counter and the log are updated, or an error if it occurs
func (a *API) RecordVote(ctx context.Context, contestantID int, count int, voter shared.Voter, paymentID string) error {
	if count < 1 {
		return newError(ErrValidation, "please enter at least 1 vote")
	}
	if err := a.Store.IncrementVotes(ctx, contestantID, count); err != nil {
		return translate(err, "contestant")
	}

	now := a.now()
	day, _ := a.Competition.DayIndex(now)
	revenue := logic.Revenue(count)
	vote := store.Vote{
		ContestantID: contestantID,
		UserID:       voter.UserID,
		Email:        voter.Email,
		Count:        count,
		Day:          day,
		Timestamp:    now,
		Amount:       revenue.InexactFloat64(),
		Source:       shared.VoteSourcePurchase,
		PaymentID:    paymentID,
	}
	if err := a.Store.InsertVote(ctx, vote); err != nil {
		a.log().Error("vote counter incremented but vote record failed", "contestant", contestantID, "count", count, "error", err)
		return err
	}
	a.Metrics.VotesRecorded(shared.VoteSourcePurchase, count, revenue.InexactFloat64())
	return nil
}

// CompletePayment handles the provider success callback for a fiat payment. The transaction is verified with the
// provider when a secret key is configured. A vote purchase records its votes exactly once; a duplicate callback for
// an already completed payment is a no-op.
// Preconditions: Receives context, the tx_ref we generated and the provider transaction id
// Postconditions: Returns the completed payment, or an error if it occurs
func (a *API) CompletePayment(ctx context.Context, txRef string, transactionID string) (store.Payment, error) {
	payment, err := a.Store.GetPaymentByTxRef(ctx, txRef)
	if err != nil {
		return store.Payment{}, translate(err, "payment")
	}
	if payment.Status == shared.PaymentCompleted {
		return payment, nil
	}
	if err := a.fiatAvailable(); err != nil {
		return store.Payment{}, err
	}

	verification, err := a.Fiat.Verify(ctx, transactionID)
	switch {
	case errors.Is(err, ErrRailUnavailable):
		a.log().Warn("payment completed without provider verification", "txRef", txRef, "reason", err)
	case err != nil:
		return store.Payment{}, fmt.Errorf("failed to verify payment %s: %w", txRef, err)
	default:
		if reason := verificationMismatch(payment, verification); reason != "" {
			a.failPayment(ctx, payment, reason)
			return store.Payment{}, newError(ErrInvalidState, "payment could not be verified: %s", reason)
		}
	}
	return a.completeFiatPayment(ctx, payment, transactionID)
}

// HandleFiatWebhook applies a provider webhook. The signature is the verif-hash header.
func (a *API) HandleFiatWebhook(ctx context.Context, signature string, event external.WebhookEvent) error {
	if err := a.fiatAvailable(); err != nil {
		return err
	}
	if !a.Fiat.VerifyWebhook(signature) {
		return newError(ErrUnauthorized, "invalid webhook signature")
	}

	payment, err := a.Store.GetPaymentByTxRef(ctx, event.Data.TxRef)
	if err != nil {
		return translate(err, "payment")
	}
	if payment.Status == shared.PaymentCompleted {
		return nil
	}
	if !event.Data.Successful() {
		a.failPayment(ctx, payment, "provider reported "+event.Data.Status)
		return nil
	}
	if reason := verificationMismatch(payment, event.Data); reason != "" {
		a.failPayment(ctx, payment, reason)
		return newError(ErrInvalidState, "payment could not be verified: %s", reason)
	}
	_, err = a.completeFiatPayment(ctx, payment, strconv.FormatInt(event.Data.ID, 10))
	return err
}

// CancelPayment marks an initiated payment as cancelled when the checkout is closed without paying
func (a *API) CancelPayment(ctx context.Context, txRef string) (store.Payment, error) {
	payment, err := a.Store.GetPaymentByTxRef(ctx, txRef)
	if err != nil {
		return store.Payment{}, translate(err, "payment")
	}
	if payment.Status == shared.PaymentCancelled {
		return payment, nil
	}

	now := a.now()
	err = a.Store.TransitionPayment(ctx, payment.ID.Hex(), []string{shared.PaymentInitiated}, shared.PaymentCancelled,
		store.PaymentUpdate{CancelledAt: &now})
	if err != nil {
		return store.Payment{}, translate(err, "payment")
	}
	a.Metrics.PaymentTransition(payment.Rail, payment.Purpose, shared.PaymentCancelled)

	payment.Status = shared.PaymentCancelled
	payment.CancelledAt = &now
	return payment, nil
}

func (a *API) completeFiatPayment(ctx context.Context, payment store.Payment, providerRef string) (store.Payment, error) {
	now := a.now()
	err := a.Store.TransitionPayment(ctx, payment.ID.Hex(), []string{shared.PaymentInitiated}, shared.PaymentCompleted,
		store.PaymentUpdate{ProviderRef: providerRef, CompletedAt: &now})
	if errors.Is(err, store.ErrStatusChanged) {
		// Another callback won the transition
		current, getErr := a.Store.GetPayment(ctx, payment.ID.Hex())
		if getErr == nil && current.Status == shared.PaymentCompleted {
			return current, nil
		}
		return store.Payment{}, translate(err, "payment")
	}
	if err != nil {
		return store.Payment{}, translate(err, "payment")
	}
	a.Metrics.PaymentTransition(payment.Rail, payment.Purpose, shared.PaymentCompleted)

	payment.Status = shared.PaymentCompleted
	payment.ProviderRef = providerRef
	payment.CompletedAt = &now

	receipt := external.Receipt{
		Provider:      payment.Rail,
		TxRef:         payment.TxRef,
		TransactionID: providerRef,
		Amount:        payment.Amount,
		Email:         payment.Email,
		Status:        "successful",
		Timestamp:     now,
	}
	if payment.Purpose == store.PurposeVote {
		voter := shared.Voter{Email: payment.Email}
		if err := a.RecordVote(ctx, payment.ContestantID, payment.VoteCount, voter, payment.ID.Hex()); err != nil {
			return payment, fmt.Errorf("payment %s completed but vote was not recorded: %w", payment.TxRef, err)
		}
		receipt.VoteCount = payment.VoteCount
		receipt.ContestantID = payment.ContestantID
		if c, err := a.Store.GetContestant(ctx, payment.ContestantID); err == nil {
			receipt.ContestantName = c.Name
		}
	}
	a.appendReceipt(ctx, receipt)
	return payment, nil
}

func (a *API) failPayment(ctx context.Context, payment store.Payment, reason string) {
	now := a.now()
	err := a.Store.TransitionPayment(ctx, payment.ID.Hex(), []string{shared.PaymentInitiated, shared.PaymentProcessing},
		shared.PaymentFailed, store.PaymentUpdate{ErrorMessage: reason, FailedAt: &now})
	if err != nil {
		a.log().Warn("failed to mark payment failed", "txRef", payment.TxRef, "error", err)
		return
	}
	a.Metrics.PaymentTransition(payment.Rail, payment.Purpose, shared.PaymentFailed)
	a.log().Info("payment failed", "txRef", payment.TxRef, "reason", reason)
}

// verificationMismatch returns why a provider verification does not match our payment record, or "" if it does
func verificationMismatch(payment store.Payment, v external.Verification) string {
	switch {
	case !v.Successful():
		return "provider status is " + v.Status
	case v.TxRef != payment.TxRef:
		return "transaction reference mismatch"
	case !strings.EqualFold(v.Currency, payment.Currency):
		return "currency mismatch"
	case v.Amount+0.005 < payment.Amount:
		return "amount paid is less than amount due"
	}
	return ""
}

// dayScope returns the vote filter for a payout scope
func dayScope(scope string, now time.Time) store.VoteFilter {
	if scope != shared.PayoutDaily {
		return store.VoteFilter{}
	}
	from, to := logic.DayBounds(now)
	return store.VoteFilter{From: from, To: to}
}
