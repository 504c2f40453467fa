package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cardchronicle/chronicle-server/internal/domain"
	"github.com/cardchronicle/chronicle-server/internal/store"
)

// EntitlementStatus reports the purchase state plus current usage against
// the free-tier caps.
type EntitlementStatus struct {
	domain.Entitlement
	EntriesUsed     int `json:"entries_used"`
	CollectionsUsed int `json:"collections_used"`
}

// EntitlementService reports and records the lifetime unlock. Receipt
// validation stays on the client; the server just keeps the flag.
type EntitlementService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewEntitlementService creates a new entitlement service.
func NewEntitlementService(st *store.Store, logger *slog.Logger) *EntitlementService {
	return &EntitlementService{
		store:  st,
		logger: logger,
	}
}

// Status returns the entitlement with current usage counts.
func (s *EntitlementService) Status(ctx context.Context) (*EntitlementStatus, error) {
	ent, err := s.store.GetEntitlement(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.store.CountEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("count entries: %w", err)
	}
	collections, err := s.store.CountCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("count collections: %w", err)
	}

	return &EntitlementStatus{
		Entitlement:     *ent,
		EntriesUsed:     entries,
		CollectionsUsed: collections,
	}, nil
}

// Unlock records the lifetime purchase. Idempotent.
func (s *EntitlementService) Unlock(ctx context.Context) (*EntitlementStatus, error) {
	if _, err := s.store.RecordLifetimeUnlock(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("lifetime unlock recorded")
	return s.Status(ctx)
}
