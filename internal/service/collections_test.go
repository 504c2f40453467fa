package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardchronicle/chronicle-server/internal/domain"
	"github.com/cardchronicle/chronicle-server/internal/errors"
	"github.com/cardchronicle/chronicle-server/internal/query"
	"github.com/cardchronicle/chronicle-server/internal/store"
)

func newCollectionService(t *testing.T, shareID string) (*CollectionService, *store.Store, *int) {
	st := testStore(t)
	shares, calls := testShareServer(t, shareID)
	svc := NewCollectionService(st, defaultTestCatalog(t), shares, testValidator(), testLogger())
	return svc, st, calls
}

func TestCollectionService_CreateAndGet(t *testing.T) {
	svc, _, _ := newCollectionService(t, "X123")
	ctx := context.Background()

	coll, err := svc.CreateCollection(ctx, CollectionInput{Name: "Binder", About: "My favorites"})
	require.NoError(t, err)
	assert.NotEmpty(t, coll.ID)

	_, err = svc.AddCard(ctx, coll.ID, "card-1")
	require.NoError(t, err)
	_, err = svc.AddCard(ctx, coll.ID, "card-2")
	require.NoError(t, err)

	detail, err := svc.GetCollection(ctx, coll.ID, query.SortNameAsc)
	require.NoError(t, err)
	require.Len(t, detail.Cards, 2)
	assert.Equal(t, "Charmander", detail.Cards[0].Name)
	assert.Equal(t, "Pikachu", detail.Cards[1].Name)
	assert.Empty(t, detail.ShareURL, "unshared collection has no URL")
}

func TestCollectionService_CreateValidation(t *testing.T) {
	svc, _, _ := newCollectionService(t, "X123")

	_, err := svc.CreateCollection(context.Background(), CollectionInput{})
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestCollectionService_FreeTierCap(t *testing.T) {
	svc, st, _ := newCollectionService(t, "X123")
	ctx := context.Background()

	for i := 0; i < domain.FreeCollectionLimit; i++ {
		_, err := svc.CreateCollection(ctx, CollectionInput{Name: "Coll"})
		require.NoError(t, err)
	}

	_, err := svc.CreateCollection(ctx, CollectionInput{Name: "One more"})
	assert.ErrorIs(t, err, errors.ErrLimitExceeded)

	_, err = st.RecordLifetimeUnlock(ctx)
	require.NoError(t, err)

	_, err = svc.CreateCollection(ctx, CollectionInput{Name: "Unlocked"})
	assert.NoError(t, err)
}

func TestCollectionService_AddCardIsIdempotent(t *testing.T) {
	svc, _, _ := newCollectionService(t, "X123")
	ctx := context.Background()

	coll, err := svc.CreateCollection(ctx, CollectionInput{Name: "Binder"})
	require.NoError(t, err)

	_, err = svc.AddCard(ctx, coll.ID, "card-1")
	require.NoError(t, err)
	got, err := svc.AddCard(ctx, coll.ID, "card-1")
	require.NoError(t, err)

	assert.Len(t, got.Members, 1)
}

func TestCollectionService_DanglingMemberSkippedInView(t *testing.T) {
	svc, _, _ := newCollectionService(t, "X123")
	ctx := context.Background()

	coll, err := svc.CreateCollection(ctx, CollectionInput{Name: "Binder"})
	require.NoError(t, err)
	_, err = svc.AddCard(ctx, coll.ID, "card-1")
	require.NoError(t, err)
	_, err = svc.AddCard(ctx, coll.ID, "unknown-card")
	require.NoError(t, err, "membership for a card outside the catalog is allowed")

	detail, err := svc.GetCollection(ctx, coll.ID, query.SortDateDesc)
	require.NoError(t, err)
	assert.Len(t, detail.Cards, 1, "unresolvable member hidden from the view")
	assert.Len(t, detail.Members, 2, "but kept as a member")
}

func TestCollectionService_RemoveCard(t *testing.T) {
	svc, _, _ := newCollectionService(t, "X123")
	ctx := context.Background()

	coll, err := svc.CreateCollection(ctx, CollectionInput{Name: "Binder"})
	require.NoError(t, err)
	_, err = svc.AddCard(ctx, coll.ID, "card-1")
	require.NoError(t, err)

	got, err := svc.RemoveCard(ctx, coll.ID, "card-1")
	require.NoError(t, err)
	assert.Empty(t, got.Members)

	// Removing a non-member is a no-op.
	_, err = svc.RemoveCard(ctx, coll.ID, "card-1")
	assert.NoError(t, err)
}

func TestCollectionService_UpdateKeepsMembersAndShare(t *testing.T) {
	svc, _, _ := newCollectionService(t, "X123")
	ctx := context.Background()

	coll, err := svc.CreateCollection(ctx, CollectionInput{Name: "Binder"})
	require.NoError(t, err)
	_, err = svc.AddCard(ctx, coll.ID, "card-1")
	require.NoError(t, err)
	_, err = svc.ShareCollection(ctx, coll.ID)
	require.NoError(t, err)

	updated, err := svc.UpdateCollection(ctx, coll.ID, CollectionInput{Name: "Renamed"})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Name)
	assert.Len(t, updated.Members, 1)
	assert.Equal(t, "X123", updated.ShareID)
}

func TestCollectionService_Share_CreateThenUpdate(t *testing.T) {
	svc, _, calls := newCollectionService(t, "X123")
	ctx := context.Background()

	coll, err := svc.CreateCollection(ctx, CollectionInput{Name: "Binder"})
	require.NoError(t, err)
	_, err = svc.AddCard(ctx, coll.ID, "card-1")
	require.NoError(t, err)

	first, err := svc.ShareCollection(ctx, coll.ID)
	require.NoError(t, err)
	assert.Equal(t, "X123", first.ShareID)
	assert.Contains(t, first.ShareURL, "id=X123")

	// Second share updates the same remote page; the ID never changes.
	second, err := svc.ShareCollection(ctx, coll.ID)
	require.NoError(t, err)
	assert.Equal(t, "X123", second.ShareID)
	assert.Equal(t, 2, *calls)

	got, err := svc.GetCollection(ctx, coll.ID, query.SortDateDesc)
	require.NoError(t, err)
	assert.Equal(t, "X123", got.ShareID)
	assert.NotEmpty(t, got.ShareURL)
}

func TestCollectionService_Share_EmptyCollection(t *testing.T) {
	svc, _, calls := newCollectionService(t, "X123")
	ctx := context.Background()

	coll, err := svc.CreateCollection(ctx, CollectionInput{Name: "Empty"})
	require.NoError(t, err)

	_, err = svc.ShareCollection(ctx, coll.ID)
	assert.ErrorIs(t, err, errors.ErrEmptyCollection)
	assert.Equal(t, 0, *calls, "no network call for an empty collection")

	got, err := svc.GetCollection(ctx, coll.ID, query.SortDateDesc)
	require.NoError(t, err)
	assert.False(t, got.IsShared())
}

func TestCollectionService_DeleteKeepsShareRemote(t *testing.T) {
	svc, _, _ := newCollectionService(t, "X123")
	ctx := context.Background()

	coll, err := svc.CreateCollection(ctx, CollectionInput{Name: "Binder"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCollection(ctx, coll.ID))

	_, err = svc.GetCollection(ctx, coll.ID, query.SortDateDesc)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}
