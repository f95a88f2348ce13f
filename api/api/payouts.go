/* payouts.go
 * Contains the payout operations: previewing the daily and final pools, opening payout requests, paying the leader
 * through either rail, and the prize fund
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"smallie/api/external"
	"smallie/api/logic"
	"smallie/api/shared"
	"smallie/api/store"

	"go.mongodb.org/mongo-driver/mongo"
)

// Reasons stored on cancelled crypto payouts
const (
	CancelReasonDeclined = "admin declined the transfer"
	CancelReasonAborted  = "request cancelled before the transfer confirmed"
)

// PreviewPayout computes the payout for a scope without writing anything. Daily scope covers votes cast in the
// current WAT calendar day; final scope covers every vote.
// Preconditions: Receives context, the scope (daily or final) and the current time
// Postconditions: Returns the payout with winners resolved to recipients, or an error if it occurs
func (a *API) PreviewPayout(ctx context.Context, scope string, now time.Time) (PayoutPreview, error) {
	if _, err := logic.PoolShare(scope); err != nil {
		return PayoutPreview{}, validationError(err)
	}
	filter := dayScope(scope, now)

	purchased, err := a.Store.SumPurchasedVotes(ctx, filter)
	if err != nil {
		return PayoutPreview{}, err
	}
	tallies, err := a.Store.TallyVotes(ctx, filter)
	if err != nil {
		return PayoutPreview{}, err
	}
	payout, err := logic.ComputePayout(scope, purchased, tallies)
	if err != nil {
		return PayoutPreview{}, err
	}

	recipients := make([]shared.Recipient, 0, len(payout.Winners))
	for _, w := range payout.Winners {
		recipient := shared.Recipient{
			ID:     strconv.Itoa(w.ContestantID),
			Name:   "Unknown contestant",
			Place:  logic.PlaceLabel(w.Rank),
			Payout: w.AmountUSD.InexactFloat64(),
			Votes:  w.Votes,
		}
		c, err := a.Store.GetContestant(ctx, w.ContestantID)
		switch {
		case err == nil:
			recipient.Name = c.Name
			recipient.Email = c.Email
			recipient.Wallet = c.WalletAddress
		case !errors.Is(err, mongo.ErrNoDocuments):
			return PayoutPreview{}, err
		}
		recipients = append(recipients, recipient)
	}
	return PayoutPreview{Payout: payout, Recipients: recipients}, nil
}

// OpenPayoutRequest computes the payout for a scope and records a pending payout request for the leader
// Preconditions: Receives context, the scope and the current time
// Postconditions: Returns the stored request, ErrInvalidState when nobody has votes in scope, or another error
func (a *API) OpenPayoutRequest(ctx context.Context, scope string, now time.Time) (store.PayoutRequest, error) {
	preview, err := a.PreviewPayout(ctx, scope, now)
	if err != nil {
		return store.PayoutRequest{}, err
	}
	leader, ok := preview.Leader()
	if !ok {
		return store.PayoutRequest{}, newError(ErrInvalidState, "no votes in %s scope, nothing to pay out", scope)
	}
	amountUSD := preview.Winners[0].AmountUSD

	req := store.PayoutRequest{
		Type:      scope,
		Amount:    preview.Winners[0].AmountNGN.InexactFloat64(),
		AmountSol: logic.ToSOL(amountUSD).InexactFloat64(),
		Recipient: leader,
		Status:    shared.PaymentPending,
		CreatedAt: a.now(),
	}
	id, err := a.Store.InsertPayoutRequest(ctx, req)
	if err != nil {
		return store.PayoutRequest{}, err
	}
	if req.ID, err = objectID(id); err != nil {
		return store.PayoutRequest{}, err
	}
	a.Metrics.PayoutOpened(scope)
	a.log().Info("payout request opened", "scope", scope, "recipient", leader.Name, "amountUsd", amountUSD.String())
	return req, nil
}

// ListPayoutRequests returns every payout request, newest first
func (a *API) ListPayoutRequests(ctx context.Context) ([]store.PayoutRequest, error) {
	return a.Store.ListPayoutRequests(ctx)
}

// TriggerFiatPayout records an initiated fiat payout to the leader of a scope and returns its checkout. The provider
// callback completes it; closing the checkout cancels it.
func (a *API) TriggerFiatPayout(ctx context.Context, scope string, now time.Time) (FiatPayout, error) {
	if err := a.fiatAvailable(); err != nil {
		return FiatPayout{}, err
	}
	preview, err := a.PreviewPayout(ctx, scope, now)
	if err != nil {
		return FiatPayout{}, err
	}
	leader, ok := preview.Leader()
	if !ok {
		return FiatPayout{}, newError(ErrInvalidState, "no votes in %s scope, nothing to pay out", scope)
	}

	checkout, err := a.Fiat.Checkout(external.CheckoutRequest{
		Amount:      preview.Winners[0].AmountUSD,
		Currency:    external.DefaultCurrency,
		Email:       leader.Email,
		Name:        leader.Name,
		Description: fmt.Sprintf("%s %s payout to %s", leader.Place, scope, leader.Name),
		Meta:        map[string]string{"payoutType": scope, "contestantId": leader.ID},
	})
	if err != nil {
		return FiatPayout{}, err
	}

	payment := store.Payment{
		Rail:       shared.RailFlutterwave,
		Purpose:    store.PurposePayout,
		PayoutType: scope,
		Amount:     checkout.Amount,
		Currency:   checkout.Currency,
		TxRef:      checkout.TxRef,
		Status:     shared.PaymentInitiated,
		Name:       leader.Name,
		Email:      leader.Email,
		CreatedAt:  a.now(),
	}
	payment.ContestantID, _ = strconv.Atoi(leader.ID)
	id, err := a.Store.InsertPayment(ctx, payment)
	if err != nil {
		return FiatPayout{}, err
	}
	if payment.ID, err = objectID(id); err != nil {
		return FiatPayout{}, err
	}
	a.Metrics.PaymentTransition(payment.Rail, payment.Purpose, payment.Status)
	return FiatPayout{Payment: payment, Checkout: checkout}, nil
}

// TriggerCryptoPayout pays the leader of a scope in SOL through the crypto rail. The payment record moves from
// initiated to processing, then to cancelled if the admin declined the transfer, to completed with the transfer
// signature, to failed if the transfer errors, or to cancelled if ctx is cancelled before the transfer confirms.
// Preconditions: Receives context, the scope, the current time and whether the admin confirmed the transfer
// Postconditions: Returns the final payment record, or an error if it occurs. A declined payout returns the cancelled
// record with ErrConfirmationRequired.
func (a *API) TriggerCryptoPayout(ctx context.Context, scope string, now time.Time, confirmed bool) (store.Payment, error) {
	if a.Crypto == nil {
		return store.Payment{}, fmt.Errorf("%w: no crypto rail configured", ErrRailUnavailable)
	}
	preview, err := a.PreviewPayout(ctx, scope, now)
	if err != nil {
		return store.Payment{}, err
	}
	leader, ok := preview.Leader()
	if !ok {
		return store.Payment{}, newError(ErrInvalidState, "no votes in %s scope, nothing to pay out", scope)
	}
	if leader.Wallet == "" {
		return store.Payment{}, newError(ErrValidation, "%s has no wallet address on file", leader.Name)
	}
	amountSOL := logic.ToSOL(preview.Winners[0].AmountUSD)

	payment := store.Payment{
		Rail:       shared.RailSolana,
		Purpose:    store.PurposePayout,
		PayoutType: scope,
		Amount:     amountSOL.InexactFloat64(),
		Currency:   "SOL",
		TxRef:      external.NewTxRef(),
		Status:     shared.PaymentInitiated,
		Simulated:  true,
		Name:       leader.Name,
		Email:      leader.Email,
		Wallet:     leader.Wallet,
		CreatedAt:  a.now(),
	}
	payment.ContestantID, _ = strconv.Atoi(leader.ID)
	id, err := a.Store.InsertPayment(ctx, payment)
	if err != nil {
		return store.Payment{}, err
	}
	if payment.ID, err = objectID(id); err != nil {
		return store.Payment{}, err
	}
	a.Metrics.PaymentTransition(payment.Rail, payment.Purpose, payment.Status)

	if err := a.movePayment(ctx, &payment, shared.PaymentInitiated, shared.PaymentProcessing, store.PaymentUpdate{}); err != nil {
		return payment, err
	}
	if !confirmed {
		declined := a.now()
		update := store.PaymentUpdate{CancellationReason: CancelReasonDeclined, CancelledAt: &declined}
		if err := a.movePayment(ctx, &payment, shared.PaymentProcessing, shared.PaymentCancelled, update); err != nil {
			return payment, err
		}
		a.log().Info("crypto payout declined", "scope", scope, "recipient", leader.Name)
		return payment, newError(ErrConfirmationRequired, "crypto payouts must be confirmed")
	}

	result, transferErr := a.Crypto.Transfer(ctx, external.TransferRequest{
		Wallet:    leader.Wallet,
		AmountSOL: amountSOL,
		Memo:      fmt.Sprintf("Smallie %s payout", scope),
	})
	// The admin may have gone away; finish the bookkeeping regardless
	bookkeeping := context.WithoutCancel(ctx)
	done := a.now()
	switch {
	case transferErr != nil && ctx.Err() != nil:
		if err := a.movePayment(bookkeeping, &payment, shared.PaymentProcessing, shared.PaymentCancelled,
			store.PaymentUpdate{CancellationReason: CancelReasonAborted, CancelledAt: &done}); err != nil {
			return payment, err
		}
		return payment, newError(ErrInvalidState, "crypto payout cancelled")
	case transferErr != nil:
		if err := a.movePayment(bookkeeping, &payment, shared.PaymentProcessing, shared.PaymentFailed,
			store.PaymentUpdate{ErrorMessage: transferErr.Error(), FailedAt: &done}); err != nil {
			return payment, err
		}
		return payment, fmt.Errorf("crypto transfer failed: %w", transferErr)
	}

	update := store.PaymentUpdate{Signature: result.Signature, Block: result.Block, CompletedAt: &done}
	if err := a.movePayment(bookkeeping, &payment, shared.PaymentProcessing, shared.PaymentCompleted, update); err != nil {
		return payment, err
	}
	a.appendReceipt(bookkeeping, external.Receipt{
		Provider:       shared.RailSolana,
		TxRef:          payment.TxRef,
		TransactionID:  result.Signature,
		Amount:         payment.Amount,
		ContestantID:   payment.ContestantID,
		ContestantName: leader.Name,
		Status:         "successful",
		Timestamp:      done,
	})
	a.log().Info("crypto payout completed", "scope", scope, "recipient", leader.Name, "signature", result.Signature,
		"simulated", result.Simulated)
	return payment, nil
}

// PrizeFund returns the final pool accumulated from every purchased vote so far
func (a *API) PrizeFund(ctx context.Context) (PrizeFund, error) {
	purchased, err := a.Store.SumPurchasedVotes(ctx, store.VoteFilter{})
	if err != nil {
		return PrizeFund{}, err
	}
	revenue, pool, err := logic.PayoutPool(shared.PayoutFinal, purchased)
	if err != nil {
		return PrizeFund{}, err
	}
	return PrizeFund{
		TotalVotes: purchased,
		RevenueUSD: revenue,
		PoolUSD:    pool,
		PoolNGN:    logic.ToNGN(pool),
	}, nil
}

// movePayment transitions a payment and mirrors the change on the in-memory record
func (a *API) movePayment(ctx context.Context, payment *store.Payment, from string, to string, update store.PaymentUpdate) error {
	if err := a.Store.TransitionPayment(ctx, payment.ID.Hex(), []string{from}, to, update); err != nil {
		return translate(err, "payment")
	}
	payment.Status = to
	if update.Signature != "" {
		payment.Signature = update.Signature
		payment.Block = update.Block
	}
	if update.ErrorMessage != "" {
		payment.ErrorMessage = update.ErrorMessage
	}
	if update.CancellationReason != "" {
		payment.CancellationReason = update.CancellationReason
	}
	if update.CompletedAt != nil {
		payment.CompletedAt = update.CompletedAt
	}
	if update.CancelledAt != nil {
		payment.CancelledAt = update.CancelledAt
	}
	if update.FailedAt != nil {
		payment.FailedAt = update.FailedAt
	}
	a.Metrics.PaymentTransition(payment.Rail, payment.Purpose, to)
	return nil
}
