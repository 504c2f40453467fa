package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/cardchronicle/chronicle-server/internal/domain"
	"github.com/cardchronicle/chronicle-server/internal/id"
)

// ToggleFavorite flips the favorite state of a card. Returns true when
// the card is now favorited, false when the toggle removed it.
func (s *Store) ToggleFavorite(ctx context.Context, cardID string) (bool, error) {
	existing, err := s.Favorites.GetByIndex(ctx, "card", cardID)
	switch {
	case err == nil:
		if err := s.Favorites.Delete(ctx, existing.ID); err != nil {
			return false, fmt.Errorf("remove favorite: %w", err)
		}
		s.emit(ChangeEvent{Resource: ResourceFavorite, Action: ActionDeleted, ID: existing.ID, CardID: cardID})
		return false, nil

	case errors.Is(err, ErrNotFound):
		fav := &domain.Favorite{
			ID:        id.NewUUID(),
			CardID:    cardID,
			CreatedAt: time.Now(),
		}
		if err := s.Favorites.Create(ctx, fav.ID, fav); err != nil {
			return false, fmt.Errorf("add favorite: %w", err)
		}
		s.emit(ChangeEvent{Resource: ResourceFavorite, Action: ActionCreated, ID: fav.ID, CardID: cardID})
		return true, nil

	default:
		return false, err
	}
}

// IsFavorite reports whether a card is favorited.
func (s *Store) IsFavorite(ctx context.Context, cardID string) (bool, error) {
	_, err := s.Favorites.GetByIndex(ctx, "card", cardID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListFavorites returns all favorites, newest first.
func (s *Store) ListFavorites(ctx context.Context) ([]*domain.Favorite, error) {
	favorites, err := s.Favorites.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}

	slices.SortStableFunc(favorites, func(a, b *domain.Favorite) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return favorites, nil
}

// FavoriteCardIDs returns the set of favorited card IDs.
func (s *Store) FavoriteCardIDs(ctx context.Context) (map[string]struct{}, error) {
	favorites, err := s.Favorites.All(ctx)
	if err != nil {
		return nil, err
	}

	ids := make(map[string]struct{}, len(favorites))
	for _, f := range favorites {
		ids[f.CardID] = struct{}{}
	}
	return ids, nil
}
