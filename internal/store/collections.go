package store

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/cardchronicle/chronicle-server/internal/domain"
)

// CreateCollection persists a new collection. The caller assigns the ID.
func (s *Store) CreateCollection(ctx context.Context, coll *domain.Collection) error {
	now := time.Now()
	coll.CreatedAt = now
	coll.UpdatedAt = now

	if err := s.Collections.Create(ctx, coll.ID, coll); err != nil {
		return fmt.Errorf("create collection: %w", err)
	}

	s.emit(ChangeEvent{Resource: ResourceCollection, Action: ActionCreated, ID: coll.ID})
	return nil
}

// GetCollection retrieves a collection by ID.
func (s *Store) GetCollection(ctx context.Context, id string) (*domain.Collection, error) {
	return s.Collections.Get(ctx, id)
}

// GetCollectionByShareID resolves a remote share ID to its collection.
func (s *Store) GetCollectionByShareID(ctx context.Context, shareID string) (*domain.Collection, error) {
	return s.Collections.GetByIndex(ctx, "share", shareID)
}

// ListCollections returns all collections, oldest first.
func (s *Store) ListCollections(ctx context.Context) ([]*domain.Collection, error) {
	collections, err := s.Collections.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}

	slices.SortStableFunc(collections, func(a, b *domain.Collection) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return collections, nil
}

// UpdateCollection replaces a stored collection. The creation timestamp
// is preserved.
func (s *Store) UpdateCollection(ctx context.Context, coll *domain.Collection) error {
	existing, err := s.Collections.Get(ctx, coll.ID)
	if err != nil {
		return err
	}

	coll.CreatedAt = existing.CreatedAt
	coll.UpdatedAt = time.Now()

	if err := s.Collections.Update(ctx, coll.ID, coll); err != nil {
		return fmt.Errorf("update collection: %w", err)
	}

	s.emit(ChangeEvent{Resource: ResourceCollection, Action: ActionUpdated, ID: coll.ID})
	return nil
}

// DeleteCollection removes a collection and its memberships. Members are
// embedded in the collection document, so one delete removes both. Any
// remote share stays published; there is no unshare operation.
func (s *Store) DeleteCollection(ctx context.Context, id string) error {
	if err := s.Collections.Delete(ctx, id); err != nil {
		return err
	}

	s.emit(ChangeEvent{Resource: ResourceCollection, Action: ActionDeleted, ID: id})
	return nil
}

// SetShareID records the remote share ID on a collection.
func (s *Store) SetShareID(ctx context.Context, id, shareID string) error {
	coll, err := s.Collections.Get(ctx, id)
	if err != nil {
		return err
	}

	coll.ShareID = shareID
	return s.UpdateCollection(ctx, coll)
}

// CountCollections returns the number of stored collections.
func (s *Store) CountCollections(ctx context.Context) (int, error) {
	return s.Collections.Count(ctx)
}
