/* api.go
 * This file contains the API struct and its constructor. Every operation of the voting platform is a method on API;
 * the web server and the Discord bot only talk to this package. Operations are split by concern across votes.go,
 * applications.go, contestants.go, tasks.go and payouts.go
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"smallie/api/external"
	"smallie/api/logic"
	"smallie/api/metrics"
	"smallie/api/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// API provides methods for interacting with the Smallie data layer and payment rails
type API struct {
	Store       store.Interface
	Fiat        external.FiatRail   // nil disables checkouts; votes are then recorded directly
	Crypto      external.CryptoRail // nil disables crypto payouts
	Receipts    external.ReceiptLog // nil disables the receipts log
	Metrics     *metrics.Metrics
	Competition logic.Competition
	Logger      *slog.Logger
	Now         func() time.Time
}

// Options holds the optional collaborators of an API
type Options struct {
	Fiat        external.FiatRail
	Crypto      external.CryptoRail
	Receipts    external.ReceiptLog
	Metrics     *metrics.Metrics
	Competition *logic.Competition
	Logger      *slog.Logger
}

// NewAPI connects to the database and creates a new API instance
// Preconditions: Receives context, database name, mongo URI and optional collaborators
// Postconditions: Returns the API with indexes ensured, or an error if it occurs
func NewAPI(ctx context.Context, dbName string, mongoURI string, opts Options) (*API, error) {
	if dbName == "" || mongoURI == "" {
		return nil, fmt.Errorf("dbName and mongoURI are required")
	}

	s, err := store.NewStore(ctx, dbName, mongoURI)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	if err := s.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}
	return New(s, opts), nil
}

// New creates an API over an existing store
func New(s store.Interface, opts Options) *API {
	competition := logic.DefaultCompetition
	if opts.Competition != nil {
		competition = *opts.Competition
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &API{
		Store:       s,
		Fiat:        opts.Fiat,
		Crypto:      opts.Crypto,
		Receipts:    opts.Receipts,
		Metrics:     opts.Metrics,
		Competition: competition,
		Logger:      logger,
		Now:         time.Now,
	}
}

// Close disconnects from the database
func (a *API) Close(ctx context.Context) error {
	client := a.Store.GetClient()
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

func (a *API) now() time.Time {
	if a.Now == nil {
		return time.Now().UTC()
	}
	return a.Now().UTC()
}

func (a *API) log() *slog.Logger {
	if a.Logger == nil {
		return slog.Default()
	}
	return a.Logger
}

// fiatAvailable returns nil when checkouts can be created
func (a *API) fiatAvailable() error {
	if a.Fiat == nil {
		return fmt.Errorf("%w: no fiat rail configured", ErrRailUnavailable)
	}
	return a.Fiat.Available()
}

// appendReceipt writes to the receipts log. The log is display only, so failures are logged and dropped.
func (a *API) appendReceipt(ctx context.Context, receipt external.Receipt) {
	if a.Receipts == nil {
		return
	}
	if err := a.Receipts.Append(ctx, receipt); err != nil {
		a.log().Warn("failed to append receipt", "txRef", receipt.TxRef, "error", err)
	}
}

// ListReceipts returns the transaction receipts log, oldest first
func (a *API) ListReceipts(ctx context.Context) ([]external.Receipt, error) {
	if a.Receipts == nil {
		return []external.Receipt{}, nil
	}
	return a.Receipts.List(ctx)
}

// objectID parses a hex id returned by the store
func objectID(hex string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("store returned invalid id %q: %w", hex, err)
	}
	return oid, nil
}
