/* models.go
 * Contains the request and response structs exchanged with the payment rails and the receipts log
 * Authors: Zachary Bower
 */

package external

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is the payer block of a hosted checkout
type Customer struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Name        string `json:"name"`
}

// Customizations controls what the hosted checkout modal shows
type Customizations struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Logo        string `json:"logo"`
}

// Checkout is the descriptor the browser hands to the Flutterwave inline widget
type Checkout struct {
	PublicKey      string            `json:"public_key"`
	TxRef          string            `json:"tx_ref"`
	Amount         float64           `json:"amount"`
	Currency       string            `json:"currency"`
	PaymentOptions string            `json:"payment_options"`
	RedirectURL    string            `json:"redirect_url,omitempty"`
	Customer       Customer          `json:"customer"`
	Customizations Customizations    `json:"customizations"`
	Meta           map[string]string `json:"meta,omitempty"`
}

// CheckoutRequest is what the api package asks the fiat rail to charge
type CheckoutRequest struct {
	Amount      decimal.Decimal
	Currency    string
	Email       string
	Phone       string
	Name        string
	Description string
	Meta        map[string]string
}

// Verification is the provider's view of a transaction
type Verification struct {
	ID       int64   `json:"id"`
	TxRef    string  `json:"tx_ref"`
	FlwRef   string  `json:"flw_ref"`
	Status   string  `json:"status"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Successful reports whether the provider settled the charge
func (v Verification) Successful() bool {
	return v.Status == "successful"
}

type verifyResponse struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Data    Verification `json:"data"`
}

// WebhookEvent is the body Flutterwave posts to the webhook endpoint
type WebhookEvent struct {
	Event string       `json:"event"`
	Data  Verification `json:"data"`
}

// TransferRequest asks the crypto rail to send SOL to a wallet
type TransferRequest struct {
	Wallet    string
	AmountSOL decimal.Decimal
	Memo      string
}

// TransferResult is the outcome of a crypto transfer
type TransferResult struct {
	Signature   string    `json:"signature"`
	Block       int64     `json:"block"`
	Network     string    `json:"network"`
	Simulated   bool      `json:"simulated"`
	CompletedAt time.Time `json:"completedAt"`
}

// Receipt is one entry of the demo transaction log
type Receipt struct {
	Provider       string    `json:"provider"`
	TxRef          string    `json:"tx_ref"`
	TransactionID  string    `json:"transaction_id,omitempty"`
	Amount         float64   `json:"amount"`
	VoteCount      int       `json:"voteCount"`
	ContestantID   int       `json:"contestantId"`
	ContestantName string    `json:"contestantName"`
	Email          string    `json:"email,omitempty"`
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
}
