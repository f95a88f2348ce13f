/* test_mocks.go
 * Contains mock structures for testing the API package and its consumers: an in-memory store and fake payment rails
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"sort"
	"sync"

	"smallie/api/external"
	"smallie/api/logic"
	"smallie/api/shared"
	"smallie/api/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MockStore implements store.Interface in memory for testing
type MockStore struct {
	mu sync.Mutex

	// Storage for mock data
	Contestants    map[int]store.Contestant
	Applications   map[string]store.Application
	Votes          []store.Vote
	Tasks          map[string]store.Task
	Payments       map[string]store.Payment
	PayoutRequests []store.PayoutRequest
	Sequence       int

	// Error injection for testing error paths
	ListContestantsError       error
	GetContestantError         error
	InsertContestantError      error
	UpdateContestantError      error
	IncrementVotesError        error
	SetVotesError              error
	InsertApplicationError     error
	TransitionApplicationError error
	InsertVoteError            error
	SumVotesError              error
	TallyVotesError            error
	InsertTaskError            error
	CountTasksError            error
	InsertPaymentError         error
	TransitionPaymentError     error
	InsertPayoutRequestError   error

	Database interface{ Name() string }
}

// mockDatabase implements the minimal Database interface needed for tests
type mockDatabase struct {
	name string
}

func (m *mockDatabase) Name() string {
	return m.name
}

// NewMockStore creates an empty MockStore
func NewMockStore() *MockStore {
	return &MockStore{
		Contestants:  make(map[int]store.Contestant),
		Applications: make(map[string]store.Application),
		Tasks:        make(map[string]store.Task),
		Payments:     make(map[string]store.Payment),
		Database:     &mockDatabase{name: "test_db"},
	}
}

// AddContestants seeds contestants
func (m *MockStore) AddContestants(contestants ...store.Contestant) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range contestants {
		m.Contestants[c.ID] = c
	}
}

// AddApplication seeds an application and returns its id
func (m *MockStore) AddApplication(app store.Application) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if app.ID.IsZero() {
		app.ID = primitive.NewObjectID()
	}
	m.Applications[app.ID.Hex()] = app
	return app.ID.Hex()
}

// AddPayment seeds a payment and returns its id
func (m *MockStore) AddPayment(p store.Payment) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	m.Payments[p.ID.Hex()] = p
	return p.ID.Hex()
}

// region Contestants

func (m *MockStore) ListContestants(ctx context.Context) ([]store.Contestant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListContestantsError != nil {
		return nil, m.ListContestantsError
	}
	out := make([]store.Contestant, 0, len(m.Contestants))
	for _, c := range m.Contestants {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Votes != out[j].Votes {
			return out[i].Votes > out[j].Votes
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MockStore) GetContestant(ctx context.Context, id int) (store.Contestant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetContestantError != nil {
		return store.Contestant{}, m.GetContestantError
	}
	c, ok := m.Contestants[id]
	if !ok {
		return store.Contestant{}, mongo.ErrNoDocuments
	}
	return c, nil
}

func (m *MockStore) CountContestants(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.Contestants)), nil
}

func (m *MockStore) NextContestantID(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Sequence < len(m.Contestants) {
		m.Sequence = len(m.Contestants)
	}
	m.Sequence++
	return m.Sequence, nil
}

func (m *MockStore) InsertContestant(ctx context.Context, c store.Contestant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertContestantError != nil {
		return m.InsertContestantError
	}
	if _, exists := m.Contestants[c.ID]; exists {
		return mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "duplicate key"}}}
	}
	m.Contestants[c.ID] = c
	return nil
}

func (m *MockStore) UpdateContestant(ctx context.Context, id int, update store.ContestantUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateContestantError != nil {
		return m.UpdateContestantError
	}
	c, ok := m.Contestants[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	applyString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	applyString(&c.Name, update.Name)
	applyString(&c.Location, update.Location)
	applyString(&c.Bio, update.Bio)
	applyString(&c.ImageURL, update.ImageURL)
	applyString(&c.StreamURL, update.StreamURL)
	applyString(&c.Email, update.Email)
	applyString(&c.Phone, update.Phone)
	applyString(&c.SocialHandle, update.SocialHandle)
	applyString(&c.WalletAddress, update.WalletAddress)
	if update.Age != nil {
		c.Age = *update.Age
	}
	m.Contestants[id] = c
	return nil
}

func (m *MockStore) SetEliminated(ctx context.Context, id int, eliminated bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Contestants[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	c.Eliminated = eliminated
	m.Contestants[id] = c
	return nil
}

func (m *MockStore) IncrementVotes(ctx context.Context, id int, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.IncrementVotesError != nil {
		return m.IncrementVotesError
	}
	c, ok := m.Contestants[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	c.Votes += delta
	m.Contestants[id] = c
	return nil
}

func (m *MockStore) SetVotes(ctx context.Context, id int, votes int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetVotesError != nil {
		return 0, m.SetVotesError
	}
	c, ok := m.Contestants[id]
	if !ok {
		return 0, mongo.ErrNoDocuments
	}
	previous := c.Votes
	c.Votes = votes
	m.Contestants[id] = c
	return previous, nil
}

// endregion

// region Applications

func (m *MockStore) InsertApplication(ctx context.Context, app store.Application) (string, error) {
	if m.InsertApplicationError != nil {
		return "", m.InsertApplicationError
	}
	return m.AddApplication(app), nil
}

func (m *MockStore) GetApplication(ctx context.Context, id string) (store.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	app, ok := m.Applications[id]
	if !ok {
		return store.Application{}, mongo.ErrNoDocuments
	}
	return app, nil
}

func (m *MockStore) ListApplications(ctx context.Context, status string) ([]store.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []store.Application{}
	for _, app := range m.Applications {
		if status == "" || app.Status == status {
			out = append(out, app)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MockStore) TransitionApplication(ctx context.Context, id string, from string, to string, contestantID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.TransitionApplicationError != nil {
		return m.TransitionApplicationError
	}
	app, ok := m.Applications[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if app.Status != from {
		return store.ErrStatusChanged
	}
	app.Status = to
	if contestantID > 0 {
		app.ContestantID = contestantID
	}
	if to == shared.ApplicationPending {
		app.ContestantID = 0
	}
	m.Applications[id] = app
	return nil
}

// endregion

// region Votes

func (m *MockStore) InsertVote(ctx context.Context, vote store.Vote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertVoteError != nil {
		return m.InsertVoteError
	}
	if vote.Source == "" {
		vote.Source = shared.VoteSourcePurchase
	}
	vote.ID = primitive.NewObjectID()
	m.Votes = append(m.Votes, vote)
	return nil
}

func inWindow(v store.Vote, filter store.VoteFilter) bool {
	if !filter.From.IsZero() && v.Timestamp.Before(filter.From) {
		return false
	}
	if !filter.To.IsZero() && !v.Timestamp.Before(filter.To) {
		return false
	}
	return true
}

func (m *MockStore) SumPurchasedVotes(ctx context.Context, filter store.VoteFilter) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SumVotesError != nil {
		return 0, m.SumVotesError
	}
	total := 0
	for _, v := range m.Votes {
		if inWindow(v, filter) && v.Source != shared.VoteSourceAdjustment {
			total += v.Count
		}
	}
	return total, nil
}

func (m *MockStore) TallyVotes(ctx context.Context, filter store.VoteFilter) ([]shared.Tally, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.TallyVotesError != nil {
		return nil, m.TallyVotesError
	}
	sums := map[int]int{}
	for _, v := range m.Votes {
		if inWindow(v, filter) {
			sums[v.ContestantID] += v.Count
		}
	}
	tallies := make([]shared.Tally, 0, len(sums))
	for id, n := range sums {
		tallies = append(tallies, shared.Tally{ContestantID: id, Votes: n})
	}
	sort.Slice(tallies, func(i, j int) bool {
		if tallies[i].Votes != tallies[j].Votes {
			return tallies[i].Votes > tallies[j].Votes
		}
		return tallies[i].ContestantID < tallies[j].ContestantID
	})
	return tallies, nil
}

// DailyTallies groups votes by WAT calendar date. The offset argument is not interpreted.
func (m *MockStore) DailyTallies(ctx context.Context, filter store.VoteFilter, offset string) ([]shared.DayTally, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.TallyVotesError != nil {
		return nil, m.TallyVotesError
	}
	type key struct {
		date string
		id   int
	}
	sums := map[key]*shared.DayTally{}
	for _, v := range m.Votes {
		if !inWindow(v, filter) {
			continue
		}
		k := key{date: v.Timestamp.In(logic.WAT).Format(logic.DateLayout), id: v.ContestantID}
		t, ok := sums[k]
		if !ok {
			t = &shared.DayTally{Date: k.date, ContestantID: k.id}
			sums[k] = t
		}
		t.Votes += v.Count
		if v.Source != shared.VoteSourceAdjustment {
			t.Purchased += v.Count
		}
	}
	tallies := make([]shared.DayTally, 0, len(sums))
	for _, t := range sums {
		tallies = append(tallies, *t)
	}
	sort.Slice(tallies, func(i, j int) bool {
		if tallies[i].Date != tallies[j].Date {
			return tallies[i].Date < tallies[j].Date
		}
		if tallies[i].Votes != tallies[j].Votes {
			return tallies[i].Votes > tallies[j].Votes
		}
		return tallies[i].ContestantID < tallies[j].ContestantID
	})
	return tallies, nil
}

// endregion

// region Tasks

func (m *MockStore) ListTasks(ctx context.Context) ([]store.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]store.Task, 0, len(m.Tasks))
	for _, t := range m.Tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out, nil
}

func (m *MockStore) GetTask(ctx context.Context, id string) (store.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.Tasks[id]
	if !ok {
		return store.Task{}, mongo.ErrNoDocuments
	}
	return t, nil
}

func (m *MockStore) GetTaskByDay(ctx context.Context, day int) (store.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.Tasks {
		if t.Day == day {
			return t, nil
		}
	}
	return store.Task{}, mongo.ErrNoDocuments
}

func (m *MockStore) CountTasks(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CountTasksError != nil {
		return 0, m.CountTasksError
	}
	return int64(len(m.Tasks)), nil
}

func (m *MockStore) InsertTask(ctx context.Context, task store.Task) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertTaskError != nil {
		return "", m.InsertTaskError
	}
	task.ID = primitive.NewObjectID()
	m.Tasks[task.ID.Hex()] = task
	return task.ID.Hex(), nil
}

func (m *MockStore) UpdateTask(ctx context.Context, id string, task store.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Tasks[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	task.ID = existing.ID
	m.Tasks[id] = task
	return nil
}

func (m *MockStore) DeleteTask(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Tasks[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(m.Tasks, id)
	return nil
}

// endregion

// region Payments

func (m *MockStore) InsertPayment(ctx context.Context, p store.Payment) (string, error) {
	if m.InsertPaymentError != nil {
		return "", m.InsertPaymentError
	}
	return m.AddPayment(p), nil
}

func (m *MockStore) GetPayment(ctx context.Context, id string) (store.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Payments[id]
	if !ok {
		return store.Payment{}, mongo.ErrNoDocuments
	}
	return p, nil
}

func (m *MockStore) GetPaymentByTxRef(ctx context.Context, txRef string) (store.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.Payments {
		if p.TxRef == txRef {
			return p, nil
		}
	}
	return store.Payment{}, mongo.ErrNoDocuments
}

func (m *MockStore) TransitionPayment(ctx context.Context, id string, from []string, to string, update store.PaymentUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.TransitionPaymentError != nil {
		return m.TransitionPaymentError
	}
	p, ok := m.Payments[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	allowed := false
	for _, s := range from {
		if p.Status == s {
			allowed = true
		}
	}
	if !allowed {
		return store.ErrStatusChanged
	}
	p.Status = to
	if update.ProviderRef != "" {
		p.ProviderRef = update.ProviderRef
	}
	if update.Signature != "" {
		p.Signature = update.Signature
		p.Block = update.Block
	}
	if update.ErrorMessage != "" {
		p.ErrorMessage = update.ErrorMessage
	}
	if update.CancellationReason != "" {
		p.CancellationReason = update.CancellationReason
	}
	if update.CompletedAt != nil {
		p.CompletedAt = update.CompletedAt
	}
	if update.CancelledAt != nil {
		p.CancelledAt = update.CancelledAt
	}
	if update.FailedAt != nil {
		p.FailedAt = update.FailedAt
	}
	m.Payments[id] = p
	return nil
}

func (m *MockStore) InsertPayoutRequest(ctx context.Context, req store.PayoutRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertPayoutRequestError != nil {
		return "", m.InsertPayoutRequestError
	}
	req.ID = primitive.NewObjectID()
	m.PayoutRequests = append(m.PayoutRequests, req)
	return req.ID.Hex(), nil
}

func (m *MockStore) ListPayoutRequests(ctx context.Context) ([]store.PayoutRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]store.PayoutRequest, len(m.PayoutRequests))
	for i := range m.PayoutRequests {
		out[len(out)-1-i] = m.PayoutRequests[i]
	}
	return out, nil
}

// endregion

// GetDatabase returns the mock database
func (m *MockStore) GetDatabase() interface{ Name() string } {
	return m.Database
}

// GetClient returns nil for mock
func (m *MockStore) GetClient() interface{ Disconnect(context.Context) error } {
	return nil
}

// Ensure MockStore implements store.Interface
var _ store.Interface = (*MockStore)(nil)

// MockFiatRail is a FiatRail with canned responses
type MockFiatRail struct {
	AvailableError error
	CheckoutError  error
	Verification   external.Verification
	VerifyError    error
	WebhookHash    string
	Checkouts      []external.CheckoutRequest
}

func (f *MockFiatRail) Available() error {
	return f.AvailableError
}

func (f *MockFiatRail) Checkout(req external.CheckoutRequest) (external.Checkout, error) {
	if f.CheckoutError != nil {
		return external.Checkout{}, f.CheckoutError
	}
	f.Checkouts = append(f.Checkouts, req)
	return external.Checkout{
		PublicKey: "FLWPUBK_TEST",
		TxRef:     "smallie-test-" + primitive.NewObjectID().Hex(),
		Amount:    req.Amount.InexactFloat64(),
		Currency:  external.DefaultCurrency,
		Customer:  external.Customer{Email: req.Email, Name: req.Name},
	}, nil
}

func (f *MockFiatRail) Verify(ctx context.Context, transactionID string) (external.Verification, error) {
	return f.Verification, f.VerifyError
}

func (f *MockFiatRail) VerifyWebhook(signature string) bool {
	return f.WebhookHash != "" && signature == f.WebhookHash
}

// MockCryptoRail is a CryptoRail with a canned result
type MockCryptoRail struct {
	Result   external.TransferResult
	Error    error
	Requests []external.TransferRequest
}

func (c *MockCryptoRail) Transfer(ctx context.Context, req external.TransferRequest) (external.TransferResult, error) {
	c.Requests = append(c.Requests, req)
	if c.Error != nil {
		return external.TransferResult{}, c.Error
	}
	return c.Result, nil
}
