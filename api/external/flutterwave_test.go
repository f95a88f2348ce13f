/* flutterwave_test.go
 * Contains unit tests for flutterwave.go
 * Authors: Zachary Bower
 */

package external

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// region Checkout tests

func TestCheckout_Success(t *testing.T) {
	fw := NewFlutterwave(FlutterwaveConfig{PublicKey: "FLWPUBK_TEST"})

	checkout, err := fw.Checkout(CheckoutRequest{
		Amount:      decimal.RequireFromString("2.50"),
		Email:       "fan@example.com",
		Description: "5 votes for Ada Obi",
		Meta:        map[string]string{"paymentId": "abc"},
	})
	require.NoError(t, err)
	assert.Equal(t, "FLWPUBK_TEST", checkout.PublicKey)
	assert.True(t, strings.HasPrefix(checkout.TxRef, "smallie-"))
	assert.Equal(t, 2.5, checkout.Amount)
	assert.Equal(t, DefaultCurrency, checkout.Currency)
	assert.Equal(t, DefaultPaymentOptions, checkout.PaymentOptions)
	assert.Equal(t, "fan", checkout.Customer.Name)
	assert.Equal(t, "Smallie Votes", checkout.Customizations.Title)
	assert.Equal(t, "5 votes for Ada Obi", checkout.Customizations.Description)
	assert.Equal(t, "abc", checkout.Meta["paymentId"])
}

func TestCheckout_UniqueTxRef(t *testing.T) {
	fw := NewFlutterwave(FlutterwaveConfig{PublicKey: "FLWPUBK_TEST"})
	req := CheckoutRequest{Amount: decimal.NewFromInt(1), Email: "a@b.co"}

	first, err := fw.Checkout(req)
	require.NoError(t, err)
	second, err := fw.Checkout(req)
	require.NoError(t, err)
	assert.NotEqual(t, first.TxRef, second.TxRef)
}

func TestCheckout_MissingPublicKey(t *testing.T) {
	fw := NewFlutterwave(FlutterwaveConfig{})

	_, err := fw.Checkout(CheckoutRequest{Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, ErrRailUnavailable)
	assert.Contains(t, err.Error(), "FLUTTERWAVE_PUBLIC_KEY")
}

func TestCheckout_NonPositiveAmount(t *testing.T) {
	fw := NewFlutterwave(FlutterwaveConfig{PublicKey: "FLWPUBK_TEST"})

	_, err := fw.Checkout(CheckoutRequest{Amount: decimal.Zero})
	assert.Error(t, err)
}

// endregion

// region Verify tests

func TestVerify_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transactions/12345/verify", r.URL.Path)
		assert.Equal(t, "Bearer FLWSECK_TEST", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","message":"Transaction fetched successfully","data":{"id":12345,"tx_ref":"smallie-1","flw_ref":"FLW-MOCK","status":"successful","amount":2.5,"currency":"USD"}}`))
	}))
	defer server.Close()

	fw := NewFlutterwave(FlutterwaveConfig{SecretKey: "FLWSECK_TEST", BaseURL: server.URL})
	v, err := fw.Verify(context.Background(), "12345")
	require.NoError(t, err)
	assert.True(t, v.Successful())
	assert.Equal(t, "smallie-1", v.TxRef)
	assert.Equal(t, 2.5, v.Amount)
}

func TestVerify_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":"error","message":"No transaction was found for this id"}`))
	}))
	defer server.Close()

	fw := NewFlutterwave(FlutterwaveConfig{SecretKey: "FLWSECK_TEST", BaseURL: server.URL})
	_, err := fw.Verify(context.Background(), "999")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestVerify_MissingSecretKey(t *testing.T) {
	fw := NewFlutterwave(FlutterwaveConfig{PublicKey: "FLWPUBK_TEST"})

	_, err := fw.Verify(context.Background(), "1")
	assert.True(t, errors.Is(err, ErrRailUnavailable))
	assert.Contains(t, err.Error(), "FLUTTERWAVE_SECRET_KEY")
}

func TestVerify_CancelledContext(t *testing.T) {
	fw := NewFlutterwave(FlutterwaveConfig{SecretKey: "FLWSECK_TEST", BaseURL: "http://127.0.0.1:0"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fw.Verify(ctx, "1")
	assert.Error(t, err)
}

// endregion

// region VerifyWebhook tests

func TestVerifyWebhook(t *testing.T) {
	fw := NewFlutterwave(FlutterwaveConfig{WebhookHash: "s3cret"})
	assert.True(t, fw.VerifyWebhook("s3cret"))
	assert.False(t, fw.VerifyWebhook("wrong"))
	assert.False(t, fw.VerifyWebhook(""))

	unset := NewFlutterwave(FlutterwaveConfig{})
	assert.False(t, unset.VerifyWebhook("anything"))
}

// endregion
