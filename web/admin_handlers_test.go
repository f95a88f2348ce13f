/* admin_handlers_test.go
 * Contains unit tests for admin_handlers.go
 * Authors: Zachary Bower
 */

package web

import (
	"context"
	"net/http"
	"testing"

	"smallie/api/api"
	"smallie/api/external"
	"smallie/api/shared"
	"smallie/api/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// region Application tests

func TestAdminApplications(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.loginCookie(t)
	id := ts.store.AddApplication(store.Application{
		Name:   "Ngozi Okafor",
		Email:  "ngozi@example.com",
		Bio:    "I dance and cook jollof",
		Status: shared.ApplicationPending,
	})

	rec := ts.do(t, http.MethodGet, "/api/admin/applications?status=pending", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]store.Application](t, rec), 1)

	rec = ts.do(t, http.MethodGet, "/api/admin/applications/"+id, nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/admin/applications/"+id+"/approve", nil, cookie)
	assert.Equal(t, http.StatusPreconditionRequired, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/admin/applications/"+id+"/approve", map[string]bool{"confirm": true}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	contestant := decode[store.Contestant](t, rec)
	assert.Equal(t, 5, contestant.ID)
	assert.Zero(t, contestant.Votes)

	rec = ts.do(t, http.MethodPost, "/api/admin/applications/"+id+"/reject?confirm=true", nil, cookie)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAdminRejectApplication(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.loginCookie(t)
	id := ts.store.AddApplication(store.Application{Name: "Tunde Ola", Status: shared.ApplicationPending})

	rec := ts.do(t, http.MethodPost, "/api/admin/applications/"+id+"/reject?confirm=true", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, shared.ApplicationRejected, ts.store.Applications[id].Status)
	assert.Len(t, ts.store.Contestants, 4)
}

// endregion

// region Contestant tests

func TestAdminContestantEdits(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.loginCookie(t)

	rec := ts.do(t, http.MethodPut, "/api/admin/contestants/3", map[string]string{"walletAddress": "Chidi1"}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Chidi1", ts.store.Contestants[3].WalletAddress)

	rec = ts.do(t, http.MethodPost, "/api/admin/contestants/3/elimination", map[string]bool{"confirm": true}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ts.store.Contestants[3].Eliminated)

	rec = ts.do(t, http.MethodPut, "/api/admin/contestants/3/votes", map[string]int{"votes": 100}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 100, ts.store.Contestants[3].Votes)

	rec = ts.do(t, http.MethodPut, "/api/admin/contestants/3/votes", map[string]int{}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPut, "/api/admin/contestants/3/votes", map[string]int{"votes": -1}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestAdminLowerContestantVotes tests lowering a total with metrics wired in. The removed votes are exported as a
// "down" adjustment.
func TestAdminLowerContestantVotes(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.loginCookie(t)

	rec := ts.do(t, http.MethodPut, "/api/admin/contestants/3/votes", map[string]int{"votes": 90}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 90, decode[store.Contestant](t, rec).Votes)
	assert.Equal(t, 90, ts.store.Contestants[3].Votes)
	require.Len(t, ts.store.Votes, 1)
	assert.Equal(t, -5, ts.store.Votes[0].Count)

	rec = ts.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `smallie_vote_adjustments_total{direction="down"} 5`)
}

// endregion

// region Task tests

func TestAdminTasks(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.loginCookie(t)

	rec := ts.do(t, http.MethodPost, "/api/admin/tasks",
		api.TaskInput{Day: 1, Title: "Dance", Description: "Dance for a minute"}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	task := decode[store.Task](t, rec)

	rec = ts.do(t, http.MethodPut, "/api/admin/tasks/"+task.ID.Hex(),
		api.TaskInput{Day: 1, Title: "Dance off", Description: "Dance for two minutes"}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Dance off", decode[store.Task](t, rec).Title)

	rec = ts.do(t, http.MethodPost, "/api/admin/tasks", api.TaskInput{Day: 9, Title: "x", Description: "y"}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/admin/tasks", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]store.Task](t, rec), 1)

	rec = ts.do(t, http.MethodDelete, "/api/admin/tasks/"+task.ID.Hex(), nil, cookie)
	assert.Equal(t, http.StatusPreconditionRequired, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/api/admin/tasks/"+task.ID.Hex()+"?confirm=true", nil, cookie)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, ts.store.Tasks)
}

// endregion

// region Payout tests

func TestAdminPayouts(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.loginCookie(t)
	ts.store.Votes = []store.Vote{
		{ContestantID: 1, Count: 60, Timestamp: testNow, Source: shared.VoteSourcePurchase},
		{ContestantID: 3, Count: 40, Timestamp: testNow, Source: shared.VoteSourcePurchase},
	}

	rec := ts.do(t, http.MethodGet, "/api/admin/payouts/final", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	preview := decode[map[string]any](t, rec)
	assert.Equal(t, "45", preview["poolUsd"])

	rec = ts.do(t, http.MethodGet, "/api/admin/payouts/weekly", nil, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/admin/payouts/daily/requests", nil, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = ts.do(t, http.MethodGet, "/api/admin/payout-requests", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]store.PayoutRequest](t, rec), 1)

	rec = ts.do(t, http.MethodPost, "/api/admin/payouts/final/fiat", nil, cookie)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAdminCryptoPayout(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.loginCookie(t)
	receipts := external.NewMemoryReceipts()
	ts.api.Receipts = receipts
	ts.api.Crypto = &api.MockCryptoRail{Result: external.TransferResult{Signature: "sig", Block: 10000001, Simulated: true}}
	ts.store.Votes = []store.Vote{{ContestantID: 1, Count: 10, Timestamp: testNow, Source: shared.VoteSourcePurchase}}

	rec := ts.do(t, http.MethodPost, "/api/admin/payouts/final/crypto", nil, cookie)
	assert.Equal(t, http.StatusPreconditionRequired, rec.Code)
	declined := decode[struct {
		Payment store.Payment `json:"payment"`
	}](t, rec)
	assert.Equal(t, shared.PaymentCancelled, declined.Payment.Status)
	assert.Equal(t, api.CancelReasonDeclined, declined.Payment.CancellationReason)
	require.Len(t, ts.store.Payments, 1)

	rec = ts.do(t, http.MethodPost, "/api/admin/payouts/final/crypto", map[string]bool{"confirm": true}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	payment := decode[store.Payment](t, rec)
	assert.Equal(t, shared.PaymentCompleted, payment.Status)
	assert.Equal(t, "sig", payment.Signature)
	assert.Len(t, ts.store.Payments, 2)

	rec = ts.do(t, http.MethodGet, "/api/admin/receipts", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	logged, err := receipts.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, decode[[]external.Receipt](t, rec), len(logged))
}

// endregion

// region Stats tests

func TestAdminStats(t *testing.T) {
	ts := newTestServer(t)
	ts.store.Votes = []store.Vote{
		{ContestantID: 1, Count: 60, Timestamp: testNow, Source: shared.VoteSourcePurchase},
		{ContestantID: 3, Count: 40, Timestamp: testNow, Source: shared.VoteSourcePurchase},
	}

	rec := ts.do(t, http.MethodGet, "/api/admin/stats", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/admin/stats", nil, ts.loginCookie(t))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	stats := decode[map[string]any](t, rec)
	assert.Equal(t, float64(100), stats["totalVotes"])
	assert.Equal(t, "45", stats["poolUsd"])
	assert.Equal(t, float64(3), stats["activeContestants"])

	days, ok := stats["days"].([]any)
	require.True(t, ok)
	require.Len(t, days, 7)
	today := days[6].(map[string]any)
	assert.Equal(t, "2025-04-16", today["date"])
	assert.Equal(t, "Ada Obi", today["leader"])
	assert.Equal(t, "4.5", today["payoutUsd"])
}

// endregion
