/* external.go
 * Contains the interfaces for the payment rails and the transaction log used by the api package, and the errors they
 * share
 * Authors: Zachary Bower
 */

package external

import (
	"context"
	"errors"
)

// ErrRailUnavailable is returned when a rail is missing the configuration it needs
var ErrRailUnavailable = errors.New("payment rail unavailable")

// ErrMissingWallet is returned when a crypto transfer has no destination
var ErrMissingWallet = errors.New("recipient wallet address is required")

// FiatRail builds hosted checkouts and verifies their outcome with the provider
type FiatRail interface {
	Available() error
	Checkout(req CheckoutRequest) (Checkout, error)
	Verify(ctx context.Context, transactionID string) (Verification, error)
	VerifyWebhook(signature string) bool
}

// CryptoRail sends SOL to a wallet
type CryptoRail interface {
	Transfer(ctx context.Context, req TransferRequest) (TransferResult, error)
}

// ReceiptLog is an append-only log of payment receipts. It is for display only; the payments collection is
// authoritative.
type ReceiptLog interface {
	Append(ctx context.Context, receipt Receipt) error
	List(ctx context.Context) ([]Receipt, error)
}

// Ensure implementations satisfy the interfaces
var (
	_ FiatRail   = (*Flutterwave)(nil)
	_ CryptoRail = (*SimulatedWallet)(nil)
	_ ReceiptLog = (*RedisReceipts)(nil)
	_ ReceiptLog = (*MemoryReceipts)(nil)
)
