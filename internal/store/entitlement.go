package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/cardchronicle/chronicle-server/internal/domain"
)

// entitlementKey is a singleton record; there is exactly one user.
const entitlementKey = "entitlement:current"

// GetEntitlement returns the stored entitlement, or the free-tier default
// when nothing has been recorded yet.
func (s *Store) GetEntitlement(ctx context.Context) (*domain.Entitlement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var ent domain.Entitlement
	err := s.get([]byte(entitlementKey), &ent)
	if errors.Is(err, badger.ErrKeyNotFound) {
		def := domain.DefaultEntitlement()
		return &def, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get entitlement: %w", err)
	}
	return &ent, nil
}

// RecordLifetimeUnlock marks the lifetime unlock as purchased. Idempotent:
// re-recording keeps the original unlock time.
func (s *Store) RecordLifetimeUnlock(ctx context.Context) (*domain.Entitlement, error) {
	ent, err := s.GetEntitlement(ctx)
	if err != nil {
		return nil, err
	}

	if !ent.LifetimeUnlock {
		ent.LifetimeUnlock = true
		ent.UnlockedAt = time.Now()
		if err := s.set([]byte(entitlementKey), ent); err != nil {
			return nil, fmt.Errorf("record unlock: %w", err)
		}
	}
	return ent, nil
}
