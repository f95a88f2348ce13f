/* refresh.go
 * Contains the background refresher that periodically recomputes the leaderboard, top contestants and prize fund so
 * public pages can be served from a snapshot instead of hitting the database on every request
 * Authors: Zachary Bower
 */

package refresh

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"smallie/api/api"
	"smallie/api/logic"
	"smallie/api/store"
)

// DefaultInterval is how often the snapshot is recomputed
const DefaultInterval = 5 * time.Minute

// Source is the part of the api the refresher reads from
type Source interface {
	Leaderboard(ctx context.Context) ([]store.Contestant, error)
	PrizeFund(ctx context.Context) (api.PrizeFund, error)
}

// Snapshot is a point in time view of the public standings
type Snapshot struct {
	Leaderboard []store.Contestant `json:"leaderboard"`
	Top         []store.Contestant `json:"top"`
	PrizeFund   api.PrizeFund      `json:"prizeFund"`
	RefreshedAt time.Time          `json:"refreshedAt"`
}

// Refresher keeps the latest Snapshot
type Refresher struct {
	source   Source
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	mu       sync.RWMutex
	snapshot Snapshot
	ready    bool
}

// New creates a Refresher. A non-positive interval uses DefaultInterval and a nil logger uses slog.Default.
func New(source Source, interval time.Duration, logger *slog.Logger) *Refresher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{
		source:   source,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

// Refresh recomputes the snapshot once. On error the previous snapshot is kept.
// Preconditions: Receives context
// Postconditions: Updates the stored snapshot, or returns an error if a read fails
func (r *Refresher) Refresh(ctx context.Context) error {
	board, err := r.source.Leaderboard(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh leaderboard: %w", err)
	}
	fund, err := r.source.PrizeFund(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh prize fund: %w", err)
	}

	snap := Snapshot{
		Leaderboard: board,
		Top:         logic.TopActive(board, logic.TopContestantCount),
		PrizeFund:   fund,
		RefreshedAt: r.now(),
	}
	r.mu.Lock()
	r.snapshot = snap
	r.ready = true
	r.mu.Unlock()
	return nil
}

// Run refreshes immediately and then on every tick until ctx is cancelled
func (r *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.refreshAndLog(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refreshAndLog(ctx)
		}
	}
}

func (r *Refresher) refreshAndLog(ctx context.Context) {
	if err := r.Refresh(ctx); err != nil && ctx.Err() == nil {
		r.logger.Warn("snapshot refresh failed", "error", err)
	}
}

// Snapshot returns the latest snapshot and whether one has been taken yet
func (r *Refresher) Snapshot() (Snapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot, r.ready
}
