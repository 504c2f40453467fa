package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/cardchronicle/chronicle-server/internal/catalog"
	"github.com/cardchronicle/chronicle-server/internal/store"
)

// FavoriteView is a favorited card resolved against the catalog. Card is
// nil while the catalog has not loaded the card; clients skip rendering
// those.
type FavoriteView struct {
	ID        string    `json:"id"`
	CardID    string    `json:"card_id"`
	CreatedAt time.Time `json:"created_at"`
	Card      *CardView `json:"card,omitempty"`
}

// FavoriteService manages the favorite toggle and list.
type FavoriteService struct {
	store   *store.Store
	catalog *catalog.Store
	logger  *slog.Logger
}

// NewFavoriteService creates a new favorite service.
func NewFavoriteService(st *store.Store, cat *catalog.Store, logger *slog.Logger) *FavoriteService {
	return &FavoriteService{
		store:   st,
		catalog: cat,
		logger:  logger,
	}
}

// Toggle flips a card's favorite state and reports the new state.
func (s *FavoriteService) Toggle(ctx context.Context, cardID string) (bool, error) {
	favorited, err := s.store.ToggleFavorite(ctx, cardID)
	if err != nil {
		return false, err
	}

	s.logger.Info("favorite toggled",
		"card_id", cardID,
		"favorited", favorited,
	)
	return favorited, nil
}

// List returns all favorites, newest first, with catalog cards resolved.
func (s *FavoriteService) List(ctx context.Context) ([]FavoriteView, error) {
	favorites, err := s.store.ListFavorites(ctx)
	if err != nil {
		return nil, err
	}

	snap := s.catalog.Snapshot()

	views := make([]FavoriteView, len(favorites))
	for i, f := range favorites {
		view := FavoriteView{
			ID:        f.ID,
			CardID:    f.CardID,
			CreatedAt: f.CreatedAt,
		}
		if card, ok := snap.CardByID(f.CardID); ok {
			view.Card = &CardView{Card: card, SetName: snap.SetName(card.SetID)}
		}
		views[i] = view
	}
	return views, nil
}
