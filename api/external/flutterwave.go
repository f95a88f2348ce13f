/* flutterwave.go
 * Contains the Flutterwave fiat rail: hosted checkout descriptors for the browser widget, and server side transaction
 * verification with the secret key
 * Authors: Zachary Bower
 */

package external

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	DefaultFlutterwaveURL = "https://api.flutterwave.com/v3"
	DefaultPaymentOptions = "card,mobilemoney,ussd"
	DefaultCurrency       = "USD"

	checkoutTitle = "Smallie Votes"
	checkoutLogo  = "https://cdn.jsdelivr.net/gh/athalye-jay/smallie-assets@main/logo.png"
)

// FlutterwaveConfig holds the keys and endpoint of the Flutterwave account
type FlutterwaveConfig struct {
	PublicKey   string
	SecretKey   string
	WebhookHash string
	BaseURL     string
	RedirectURL string
	// Verify calls allowed per second, burst 1. Zero means 5.
	RequestsPerSecond float64
	HTTPClient        *http.Client
}

// Flutterwave implements FiatRail
type Flutterwave struct {
	cfg     FlutterwaveConfig
	client  *http.Client
	limiter *rate.Limiter
}

// NewFlutterwave returns a Flutterwave rail. A rail with missing keys is still returned; Available reports what is
// missing so callers can fall back.
func NewFlutterwave(cfg FlutterwaveConfig) *Flutterwave {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultFlutterwaveURL
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 5
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Flutterwave{
		cfg:     cfg,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}
}

// Available returns ErrRailUnavailable naming the missing setting, or nil if checkouts can be created
func (f *Flutterwave) Available() error {
	if f == nil || f.cfg.PublicKey == "" {
		return fmt.Errorf("%w: FLUTTERWAVE_PUBLIC_KEY is not set", ErrRailUnavailable)
	}
	return nil
}

// Checkout builds a hosted checkout descriptor with a fresh tx_ref
// Preconditions: Receives the amount and customer to charge
// Postconditions: Returns the descriptor for the browser widget, or ErrRailUnavailable if no public key is configured
func (f *Flutterwave) Checkout(req CheckoutRequest) (Checkout, error) {
	if err := f.Available(); err != nil {
		return Checkout{}, err
	}
	if !req.Amount.IsPositive() {
		return Checkout{}, fmt.Errorf("checkout amount must be positive, got %s", req.Amount)
	}

	currency := req.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	name := req.Name
	if name == "" {
		name, _, _ = strings.Cut(req.Email, "@")
	}

	return Checkout{
		PublicKey:      f.cfg.PublicKey,
		TxRef:          NewTxRef(),
		Amount:         req.Amount.Round(2).InexactFloat64(),
		Currency:       currency,
		PaymentOptions: DefaultPaymentOptions,
		RedirectURL:    f.cfg.RedirectURL,
		Customer: Customer{
			Email:       req.Email,
			PhoneNumber: req.Phone,
			Name:        name,
		},
		Customizations: Customizations{
			Title:       checkoutTitle,
			Description: req.Description,
			Logo:        checkoutLogo,
		},
		Meta: req.Meta,
	}, nil
}

// Verify asks Flutterwave for the state of a transaction. Calls are rate limited and wait for a token or ctx.
// Preconditions: Receives context and the provider transaction id from the checkout callback
// Postconditions: Returns the provider's view of the transaction, or an error if it occurs
func (f *Flutterwave) Verify(ctx context.Context, transactionID string) (Verification, error) {
	if f.cfg.SecretKey == "" {
		return Verification{}, fmt.Errorf("%w: FLUTTERWAVE_SECRET_KEY is not set", ErrRailUnavailable)
	}
	if transactionID == "" {
		return Verification{}, fmt.Errorf("transaction id is required")
	}
	if err := f.limiter.Wait(ctx); err != nil {
		return Verification{}, fmt.Errorf("rate limiter: %w", err)
	}

	endpoint := fmt.Sprintf("%s/transactions/%s/verify", strings.TrimRight(f.cfg.BaseURL, "/"), url.PathEscape(transactionID))
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Verification{}, fmt.Errorf("failed to create request: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+f.cfg.SecretKey)
	request.Header.Set("Accept", "application/json")

	response, err := f.client.Do(request)
	if err != nil {
		return Verification{}, fmt.Errorf("verify request failed: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return Verification{}, fmt.Errorf("failed to read verify response: %w", err)
	}
	if response.StatusCode != http.StatusOK {
		return Verification{}, fmt.Errorf("verify returned status %d: %s", response.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed verifyResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Verification{}, fmt.Errorf("failed to decode verify response: %w", err)
	}
	if parsed.Status != "success" {
		return Verification{}, fmt.Errorf("verify failed: %s", parsed.Message)
	}
	return parsed.Data, nil
}

// VerifyWebhook compares the verif-hash header against the configured secret hash. Without a configured hash every
// webhook is rejected.
func (f *Flutterwave) VerifyWebhook(signature string) bool {
	if f.cfg.WebhookHash == "" || signature == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(signature), []byte(f.cfg.WebhookHash)) == 1
}

// NewTxRef returns a unique reference to hand to a payment provider
func NewTxRef() string {
	return "smallie-" + uuid.NewString()
}
