/* api_test.go
 * Contains unit tests for api.go and errors.go, and the shared fixtures for the api package tests
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"smallie/api/external"
	"smallie/api/logic"
	"smallie/api/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

// testNow is noon WAT on day 2 of the default competition
var testNow = time.Date(2025, time.April, 16, 11, 0, 0, 0, time.UTC)

// newTestAPI returns an API over an empty MockStore with a fixed clock and no payment rails
func newTestAPI(t *testing.T) (*API, *MockStore) {
	t.Helper()
	mockStore := NewMockStore()
	a := New(mockStore, Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	a.Now = func() time.Time { return testNow }
	return a, mockStore
}

// sampleContestants returns three active contestants and one eliminated contestant
func sampleContestants() []store.Contestant {
	return []store.Contestant{
		{ID: 1, Name: "Ada Obi", Votes: 120, Email: "ada@example.com", WalletAddress: "AdaWa11et"},
		{ID: 2, Name: "Bola Ade", Votes: 80, Eliminated: true},
		{ID: 3, Name: "Chidi Eze", Votes: 95},
		{ID: 4, Name: "Dayo Bello", Votes: 10},
	}
}

// region NewAPI tests

func TestNewAPI_MissingParameters(t *testing.T) {
	tests := []struct {
		name     string
		dbName   string
		mongoURI string
	}{
		{"missing dbName", "", "mongodb://localhost"},
		{"missing mongoURI", "smallie", ""},
		{"all missing", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewAPI(context.Background(), tt.dbName, tt.mongoURI, Options{})
			assert.Error(t, err)
			assert.Nil(t, a)
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	a := New(NewMockStore(), Options{})
	assert.Equal(t, logic.DefaultCompetition, a.Competition)
	assert.NotNil(t, a.Logger)
	assert.NotNil(t, a.Now)
	assert.Nil(t, a.Fiat)
	assert.NoError(t, a.Close(context.Background()))
}

func TestNew_CustomCompetition(t *testing.T) {
	c := logic.NewCompetition(2026, time.May, 1)
	a := New(NewMockStore(), Options{Competition: &c})
	assert.Equal(t, c, a.Competition)
}

// endregion

// region Error tests

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil, "contestant"))

	err := translate(mongo.ErrNoDocuments, "contestant")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "contestant not found", err.Error())

	err = translate(store.ErrStatusChanged, "application")
	assert.ErrorIs(t, err, ErrInvalidState)

	other := errors.New("boom")
	assert.Equal(t, other, translate(other, "task"))
}

func TestRequestError_Wrapped(t *testing.T) {
	err := fmt.Errorf("handler: %w", newError(ErrValidation, "bad %s", "input"))
	assert.ErrorIs(t, err, ErrValidation)

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, "bad input", reqErr.Msg)
}

func TestErrRailUnavailable_IsExternal(t *testing.T) {
	assert.ErrorIs(t, fmt.Errorf("x: %w", external.ErrRailUnavailable), ErrRailUnavailable)
}

// endregion

// region Receipts tests

func TestListReceipts(t *testing.T) {
	a, _ := newTestAPI(t)

	receipts, err := a.ListReceipts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, receipts)

	a.Receipts = external.NewMemoryReceipts()
	a.appendReceipt(context.Background(), external.Receipt{TxRef: "smallie-1"})
	receipts, err = a.ListReceipts(context.Background())
	require.NoError(t, err)
	require.Len(t, receipts, 1)
	assert.Equal(t, "smallie-1", receipts[0].TxRef)
}

// endregion
