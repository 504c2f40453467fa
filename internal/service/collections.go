package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cardchronicle/chronicle-server/internal/catalog"
	"github.com/cardchronicle/chronicle-server/internal/domain"
	"github.com/cardchronicle/chronicle-server/internal/errors"
	"github.com/cardchronicle/chronicle-server/internal/id"
	"github.com/cardchronicle/chronicle-server/internal/query"
	"github.com/cardchronicle/chronicle-server/internal/sharing"
	"github.com/cardchronicle/chronicle-server/internal/store"
	"github.com/cardchronicle/chronicle-server/internal/validation"
)

// CollectionInput is the payload for creating or editing a collection.
type CollectionInput struct {
	Name  string `json:"name"  validate:"required,max=100"`
	About string `json:"about" validate:"max=500"`
}

// CollectionCardView is a resolved member card for the detail view. Cards
// no longer in the catalog are omitted from the view but remain members.
type CollectionCardView struct {
	CardView
	AddedAt time.Time `json:"added_at,omitzero"`
}

// CollectionDetail is a collection with its member cards resolved and
// sorted.
type CollectionDetail struct {
	*domain.Collection
	Cards    []CollectionCardView `json:"cards"`
	ShareURL string               `json:"share_url,omitempty"`
}

// ShareResult is the outcome of publishing a collection.
type ShareResult struct {
	ShareID  string `json:"share_id"`
	ShareURL string `json:"share_url"`
}

// CollectionService manages collections, their members, and shares.
type CollectionService struct {
	store     *store.Store
	catalog   *catalog.Store
	shares    *sharing.Client
	validator *validation.Validator
	logger    *slog.Logger
}

// NewCollectionService creates a new collection service.
func NewCollectionService(st *store.Store, cat *catalog.Store, shares *sharing.Client, v *validation.Validator, logger *slog.Logger) *CollectionService {
	return &CollectionService{
		store:     st,
		catalog:   cat,
		shares:    shares,
		validator: v,
		logger:    logger,
	}
}

// CreateCollection validates the input, enforces the free-tier cap, and
// persists a new collection.
func (s *CollectionService) CreateCollection(ctx context.Context, input CollectionInput) (*domain.Collection, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	ent, err := s.store.GetEntitlement(ctx)
	if err != nil {
		return nil, fmt.Errorf("get entitlement: %w", err)
	}
	count, err := s.store.CountCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("count collections: %w", err)
	}
	if !ent.AllowsCollection(count) {
		return nil, errors.LimitExceededf("free tier allows %d collections", ent.CollectionLimit)
	}

	collID, err := id.Generate("coll")
	if err != nil {
		return nil, fmt.Errorf("generate collection ID: %w", err)
	}

	coll := &domain.Collection{
		ID:      collID,
		Name:    input.Name,
		About:   input.About,
		Members: []domain.CollectionMember{},
	}

	if err := s.store.CreateCollection(ctx, coll); err != nil {
		return nil, err
	}

	s.logger.Info("collection created",
		"collection_id", coll.ID,
		"name", coll.Name,
	)
	return coll, nil
}

// ListCollections returns all collections, oldest first.
func (s *CollectionService) ListCollections(ctx context.Context) ([]*domain.Collection, error) {
	return s.store.ListCollections(ctx)
}

// GetCollection returns a collection with its member cards resolved
// against the catalog and sorted by the given mode. A member whose card
// is missing from the catalog is skipped, not an error.
func (s *CollectionService) GetCollection(ctx context.Context, collectionID string, mode query.SortMode) (*CollectionDetail, error) {
	coll, err := s.store.GetCollection(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	snap := s.catalog.Snapshot()

	pairs := make([]query.CollectionCard, 0, len(coll.Members))
	for _, m := range coll.Members {
		card, ok := snap.CardByID(m.CardID)
		if !ok {
			continue
		}
		pairs = append(pairs, query.CollectionCard{Card: card, AddedAt: m.AddedAt})
	}

	sorted := query.SortCollectionCards(pairs, mode)

	cards := make([]CollectionCardView, len(sorted))
	for i, p := range sorted {
		cards[i] = CollectionCardView{
			CardView: CardView{Card: p.Card, SetName: snap.SetName(p.Card.SetID)},
			AddedAt:  p.AddedAt,
		}
	}

	detail := &CollectionDetail{Collection: coll, Cards: cards}
	if coll.IsShared() {
		detail.ShareURL = s.shares.PageURL(coll.ShareID)
	}
	return detail, nil
}

// UpdateCollection renames a collection or changes its description.
// Members and the share ID are untouched.
func (s *CollectionService) UpdateCollection(ctx context.Context, collectionID string, input CollectionInput) (*domain.Collection, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	coll, err := s.store.GetCollection(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	coll.Name = input.Name
	coll.About = input.About

	if err := s.store.UpdateCollection(ctx, coll); err != nil {
		return nil, err
	}
	return coll, nil
}

// DeleteCollection removes a collection and its memberships. A published
// share stays up; there is no remote unshare.
func (s *CollectionService) DeleteCollection(ctx context.Context, collectionID string) error {
	if err := s.store.DeleteCollection(ctx, collectionID); err != nil {
		return err
	}

	s.logger.Info("collection deleted", "collection_id", collectionID)
	return nil
}

// AddCard adds a card to a collection. Adding a card twice is a no-op.
// The card ID is not checked against the catalog; dangling members are
// tolerated and resolve once the catalog loads.
func (s *CollectionService) AddCard(ctx context.Context, collectionID, cardID string) (*domain.Collection, error) {
	if cardID == "" {
		return nil, errors.Validation("card_id is required")
	}

	coll, err := s.store.GetCollection(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	if coll.AddCard(cardID, time.Now()) {
		if err := s.store.UpdateCollection(ctx, coll); err != nil {
			return nil, err
		}
	}
	return coll, nil
}

// RemoveCard removes a card from a collection. Removing a card that is
// not a member is a no-op.
func (s *CollectionService) RemoveCard(ctx context.Context, collectionID, cardID string) (*domain.Collection, error) {
	coll, err := s.store.GetCollection(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	if coll.RemoveCard(cardID) {
		if err := s.store.UpdateCollection(ctx, coll); err != nil {
			return nil, err
		}
	}
	return coll, nil
}

// ShareCollection publishes a collection to the share endpoint. The first
// share creates the remote page and persists the returned ID; later
// shares update the same page. An empty collection is rejected before
// any network call. The call is best-effort with no retry; a failure
// leaves the stored share state unchanged.
func (s *CollectionService) ShareCollection(ctx context.Context, collectionID string) (*ShareResult, error) {
	coll, err := s.store.GetCollection(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	shareID, err := s.shares.Share(ctx, sharing.Request{
		CardIDs:         coll.CardIDs(),
		Title:           coll.Name,
		Description:     coll.About,
		ExistingShareID: coll.ShareID,
	})
	if err != nil {
		return nil, err
	}

	if !coll.IsShared() {
		if err := s.store.SetShareID(ctx, coll.ID, shareID); err != nil {
			return nil, fmt.Errorf("persist share ID: %w", err)
		}
	}

	return &ShareResult{
		ShareID:  shareID,
		ShareURL: s.shares.PageURL(shareID),
	}, nil
}
