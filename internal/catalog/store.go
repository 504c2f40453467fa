package catalog

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cardchronicle/chronicle-server/internal/domain"
)

// Source supplies catalog data. The HTTP client and the local file source
// both implement it.
type Source interface {
	Cards(ctx context.Context) ([]domain.Card, error)
	Sets(ctx context.Context) ([]domain.CardSet, error)
}

// Store holds the current catalog snapshot behind an atomic pointer.
// Reads never block; refreshes build a new snapshot and swap it in.
type Store struct {
	source Source
	logger *slog.Logger

	snapshot atomic.Pointer[Snapshot]

	// refreshMu serializes refreshes. Concurrent manual refreshes and the
	// periodic refresher take turns; there is no swap race to lose.
	refreshMu sync.Mutex

	// lifetime of background work; Shutdown cancels in-flight fetches.
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	refreshedAt atomic.Pointer[time.Time]
}

// NewStore creates a catalog store over the given source. The store
// starts with an empty snapshot; call Refresh or Start to populate it.
func NewStore(source Source, logger *slog.Logger) *Store {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		source: source,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
	s.snapshot.Store(NewSnapshot(nil, nil))
	return s
}

// Snapshot returns the current catalog view.
func (s *Store) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

// RefreshedAt returns the time of the last refresh that changed anything,
// or the zero time if no fetch has succeeded yet.
func (s *Store) RefreshedAt() time.Time {
	if t := s.refreshedAt.Load(); t != nil {
		return *t
	}
	return time.Time{}
}

// Refresh fetches cards and sets and swaps in a new snapshot. The two
// fetches are independent: if one fails, the other side still updates and
// the failed side keeps its previous data. Refresh only returns an error
// when both fetches fail and there is nothing to keep either side alive.
func (s *Store) Refresh(ctx context.Context) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	// Bound each refresh by both the caller's context and the store's
	// lifetime so shutdown cancels in-flight fetches.
	fetchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	prev := s.snapshot.Load()

	cards, cardsErr := s.source.Cards(fetchCtx)
	if cardsErr != nil {
		s.logger.Warn("card fetch failed, keeping previous cards", "error", cardsErr)
		cards = prev.Cards()
	}

	sets, setsErr := s.source.Sets(fetchCtx)
	if setsErr != nil {
		s.logger.Warn("set fetch failed, keeping previous sets", "error", setsErr)
		sets = prev.Sets()
	}

	if cardsErr != nil && setsErr != nil {
		return cardsErr
	}

	s.snapshot.Store(NewSnapshot(cards, sets))
	now := time.Now()
	s.refreshedAt.Store(&now)

	s.logger.Info("catalog refreshed",
		"cards", len(cards),
		"sets", len(sets),
	)
	return nil
}

// Start performs an initial refresh and then refreshes periodically until
// Shutdown. An initial failure is logged, not fatal; the server comes up
// with an empty catalog and the next tick retries.
func (s *Store) Start(interval time.Duration) {
	if err := s.Refresh(s.ctx); err != nil {
		s.logger.Warn("initial catalog refresh failed", "error", err)
	}

	if interval <= 0 {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				if err := s.Refresh(s.ctx); err != nil {
					s.logger.Warn("periodic catalog refresh failed", "error", err)
				}
			}
		}
	}()
}

// Shutdown cancels in-flight fetches and stops the periodic refresher.
func (s *Store) Shutdown() {
	s.cancel()
	s.wg.Wait()
}
