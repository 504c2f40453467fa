package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardchronicle/chronicle-server/internal/domain"
	"github.com/cardchronicle/chronicle-server/internal/id"
)

func newTestCollection(t *testing.T, name string) *domain.Collection {
	t.Helper()
	collID, err := id.Generate("coll")
	require.NoError(t, err)
	return &domain.Collection{
		ID:    collID,
		Name:  name,
		About: "test collection",
	}
}

func TestStore_CreateAndGetCollection(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	coll := newTestCollection(t, "Binder")
	coll.AddCard("card-1", time.Now())
	require.NoError(t, s.CreateCollection(ctx, coll))

	got, err := s.GetCollection(ctx, coll.ID)
	require.NoError(t, err)
	assert.Equal(t, "Binder", got.Name)
	assert.True(t, got.ContainsCard("card-1"))
}

func TestStore_ListCollectionsOldestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := newTestCollection(t, "First")
	second := newTestCollection(t, "Second")
	require.NoError(t, s.CreateCollection(ctx, first))
	require.NoError(t, s.CreateCollection(ctx, second))

	collections, err := s.ListCollections(ctx)
	require.NoError(t, err)
	require.Len(t, collections, 2)
	assert.False(t, collections[0].CreatedAt.After(collections[1].CreatedAt))
}

func TestStore_UpdateCollectionPreservesCreatedAt(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	coll := newTestCollection(t, "Binder")
	require.NoError(t, s.CreateCollection(ctx, coll))
	created := coll.CreatedAt

	coll.Name = "Renamed"
	require.NoError(t, s.UpdateCollection(ctx, coll))

	got, err := s.GetCollection(ctx, coll.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.True(t, got.CreatedAt.Equal(created))
}

func TestStore_DeleteCollectionRemovesMembers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	coll := newTestCollection(t, "Binder")
	coll.AddCard("card-1", time.Now())
	require.NoError(t, s.CreateCollection(ctx, coll))

	require.NoError(t, s.DeleteCollection(ctx, coll.ID))

	_, err := s.GetCollection(ctx, coll.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_SetShareID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	coll := newTestCollection(t, "Binder")
	require.NoError(t, s.CreateCollection(ctx, coll))

	require.NoError(t, s.SetShareID(ctx, coll.ID, "X123"))

	got, err := s.GetCollection(ctx, coll.ID)
	require.NoError(t, err)
	assert.Equal(t, "X123", got.ShareID)
	assert.True(t, got.IsShared())

	byShare, err := s.GetCollectionByShareID(ctx, "X123")
	require.NoError(t, err)
	assert.Equal(t, coll.ID, byShare.ID)
}

func TestStore_ShareIndexFollowsUpdates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	coll := newTestCollection(t, "Binder")
	require.NoError(t, s.CreateCollection(ctx, coll))
	require.NoError(t, s.SetShareID(ctx, coll.ID, "X123"))
	require.NoError(t, s.SetShareID(ctx, coll.ID, "Y456"))

	_, err := s.GetCollectionByShareID(ctx, "X123")
	assert.ErrorIs(t, err, ErrNotFound, "old share ID unindexed")

	byShare, err := s.GetCollectionByShareID(ctx, "Y456")
	require.NoError(t, err)
	assert.Equal(t, coll.ID, byShare.ID)
}

func TestStore_CollectionEvents(t *testing.T) {
	rec := &recordingEmitter{}
	s := newTestStore(t, rec)
	ctx := context.Background()

	coll := newTestCollection(t, "Binder")
	require.NoError(t, s.CreateCollection(ctx, coll))
	require.NoError(t, s.UpdateCollection(ctx, coll))
	require.NoError(t, s.DeleteCollection(ctx, coll.ID))

	changes := rec.changes()
	require.Len(t, changes, 3)
	assert.Equal(t, ActionCreated, changes[0].Action)
	assert.Equal(t, ActionUpdated, changes[1].Action)
	assert.Equal(t, ActionDeleted, changes[2].Action)
}

func TestStore_CountCollections(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateCollection(ctx, newTestCollection(t, "A")))
	require.NoError(t, s.CreateCollection(ctx, newTestCollection(t, "B")))

	count, err := s.CountCollections(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
