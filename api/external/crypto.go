/* crypto.go
 * Contains the simulated Solana wallet. There is no on-chain integration; transfers are fabricated after a fixed
 * delay and every result is flagged as simulated.
 * Authors: Zachary Bower
 */

package external

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"
)

const (
	DefaultTransferDelay = 2 * time.Second
	SimulatedNetwork     = "devnet"

	simulatedBlockBase  = 10_000_000
	simulatedBlockRange = 1_000_000
)

// SimulatedWallet implements CryptoRail without touching a chain
type SimulatedWallet struct {
	Delay time.Duration
	now   func() time.Time
}

// NewSimulatedWallet returns a wallet stand-in that takes delay to "confirm" a transfer
func NewSimulatedWallet(delay time.Duration) *SimulatedWallet {
	return &SimulatedWallet{Delay: delay, now: time.Now}
}

// Transfer waits for the configured delay and returns a fabricated signature and block
// Preconditions: Receives context and a request with a destination wallet
// Postconditions: Returns a simulated result, ErrMissingWallet, or ctx.Err() if cancelled during the delay
func (w *SimulatedWallet) Transfer(ctx context.Context, req TransferRequest) (TransferResult, error) {
	if strings.TrimSpace(req.Wallet) == "" {
		return TransferResult{}, ErrMissingWallet
	}
	if !req.AmountSOL.IsPositive() {
		return TransferResult{}, fmt.Errorf("transfer amount must be positive, got %s", req.AmountSOL)
	}

	if w.Delay > 0 {
		timer := time.NewTimer(w.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return TransferResult{}, ctx.Err()
		case <-timer.C:
		}
	}

	now := w.now().UTC()
	return TransferResult{
		Signature:   fmt.Sprintf("%x", now.UnixMilli()),
		Block:       simulatedBlockBase + rand.Int63n(simulatedBlockRange),
		Network:     SimulatedNetwork,
		Simulated:   true,
		CompletedAt: now,
	}, nil
}
