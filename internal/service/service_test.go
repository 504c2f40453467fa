package service

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cardchronicle/chronicle-server/internal/catalog"
	"github.com/cardchronicle/chronicle-server/internal/domain"
	"github.com/cardchronicle/chronicle-server/internal/sharing"
	"github.com/cardchronicle/chronicle-server/internal/store"
	"github.com/cardchronicle/chronicle-server/internal/validation"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// fixedSource serves a static catalog for tests.
type fixedSource struct {
	cards []domain.Card
	sets  []domain.CardSet
}

func (f *fixedSource) Cards(context.Context) ([]domain.Card, error) { return f.cards, nil }
func (f *fixedSource) Sets(context.Context) ([]domain.CardSet, error) { return f.sets, nil }

func testCatalog(t *testing.T, cards []domain.Card, sets []domain.CardSet) *catalog.Store {
	t.Helper()
	cat := catalog.NewStore(&fixedSource{cards: cards, sets: sets}, testLogger())
	require.NoError(t, cat.Refresh(context.Background()))
	t.Cleanup(cat.Shutdown)
	return cat
}

func defaultTestCatalog(t *testing.T) *catalog.Store {
	return testCatalog(t,
		[]domain.Card{
			{ID: "card-1", Name: "Pikachu", SetID: "base"},
			{ID: "card-2", Name: "Charmander", SetID: "base"},
			{ID: "card-3", Name: "Mew", SetID: "promo"},
		},
		[]domain.CardSet{
			{ID: "base", Name: "Base Set"},
			{ID: "promo", Name: "Promos"},
		},
	)
}

func testStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(t.TempDir(), testLogger(), store.NewNoopEmitter())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Close()) })
	return s
}

// testShareServer runs a share endpoint that always returns the given ID.
func testShareServer(t *testing.T, shareID string) (*sharing.Client, *int) {
	t.Helper()
	calls := new(int)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.Write([]byte(`{"shareId":"` + shareID + `"}`))
	}))
	t.Cleanup(srv.Close)
	return sharing.NewClient(srv.URL, testLogger()), calls
}

func testValidator() *validation.Validator {
	return validation.New()
}
