// Package service provides the business logic layer over the catalog
// snapshot, the relationship store, and the remote share endpoint.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cardchronicle/chronicle-server/internal/catalog"
	"github.com/cardchronicle/chronicle-server/internal/domain"
	"github.com/cardchronicle/chronicle-server/internal/errors"
	"github.com/cardchronicle/chronicle-server/internal/query"
	"github.com/cardchronicle/chronicle-server/internal/store"
)

// CardView is a catalog card with its set name resolved against the set
// list. SetName is empty when the set list has not loaded the set.
type CardView struct {
	domain.Card
	SetName string `json:"set_name"`
}

// CardDetail is a single card with its diary relationships.
type CardDetail struct {
	CardView
	IsFavorite      bool `json:"is_favorite"`
	EntryCount      int  `json:"entry_count"`
	CollectionCount int  `json:"collection_count"`
}

// CardFilter narrows the card list.
type CardFilter struct {
	SetID     string
	Search    string
	DiaryOnly bool
}

// CardService serves catalog reads combined with diary state.
type CardService struct {
	catalog *catalog.Store
	store   *store.Store
	logger  *slog.Logger
}

// NewCardService creates a new card service.
func NewCardService(cat *catalog.Store, st *store.Store, logger *slog.Logger) *CardService {
	return &CardService{
		catalog: cat,
		store:   st,
		logger:  logger,
	}
}

// ListCards returns the cards matching the filter, in catalog order.
func (s *CardService) ListCards(ctx context.Context, filter CardFilter) ([]CardView, error) {
	snap := s.catalog.Snapshot()

	criteria := query.CardCriteria{
		SetID:     filter.SetID,
		Search:    filter.Search,
		DiaryOnly: filter.DiaryOnly,
	}

	// The diary membership set is built once per query, not per card.
	if filter.DiaryOnly {
		entries, err := s.store.ListEntries(ctx)
		if err != nil {
			return nil, fmt.Errorf("list entries: %w", err)
		}
		deref := make([]domain.DiaryEntry, len(entries))
		for i, e := range entries {
			deref[i] = *e
		}
		criteria.DiaryCardIDs = query.DiaryCardIDSet(deref)
	}

	cards := query.FilterCards(snap.Cards(), criteria)

	views := make([]CardView, len(cards))
	for i, c := range cards {
		views[i] = CardView{Card: c, SetName: snap.SetName(c.SetID)}
	}
	return views, nil
}

// GetCard returns a card with its favorite state and relationship counts.
func (s *CardService) GetCard(ctx context.Context, cardID string) (*CardDetail, error) {
	snap := s.catalog.Snapshot()

	card, ok := snap.CardByID(cardID)
	if !ok {
		return nil, errors.NotFound("card not found")
	}

	isFavorite, err := s.store.IsFavorite(ctx, cardID)
	if err != nil {
		return nil, fmt.Errorf("favorite state: %w", err)
	}

	entries, err := s.store.ListEntriesForCard(ctx, cardID)
	if err != nil {
		return nil, fmt.Errorf("entries for card: %w", err)
	}

	collections, err := s.store.ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}

	return &CardDetail{
		CardView:        CardView{Card: card, SetName: snap.SetName(card.SetID)},
		IsFavorite:      isFavorite,
		EntryCount:      len(entries),
		CollectionCount: query.CountMemberships(collections, cardID),
	}, nil
}

// ListSets returns the set list, newest first.
func (s *CardService) ListSets(_ context.Context) []domain.CardSet {
	return s.catalog.Snapshot().Sets()
}

// RefreshCatalog forces a catalog refetch.
func (s *CardService) RefreshCatalog(ctx context.Context) error {
	if err := s.catalog.Refresh(ctx); err != nil {
		return errors.Upstream("catalog refresh failed").WithCause(err)
	}
	return nil
}
