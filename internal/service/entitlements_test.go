package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardchronicle/chronicle-server/internal/domain"
)

func TestEntitlementService_StatusAndUnlock(t *testing.T) {
	st := testStore(t)
	cat := defaultTestCatalog(t)
	diary := NewDiaryService(st, cat, testValidator(), testLogger())
	svc := NewEntitlementService(st, testLogger())
	ctx := context.Background()

	_, err := diary.CreateEntry(ctx, EntryInput{CardID: "card-1", Title: "Entry"})
	require.NoError(t, err)

	status, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.False(t, status.LifetimeUnlock)
	assert.Equal(t, domain.FreeEntryLimit, status.EntryLimit)
	assert.Equal(t, 1, status.EntriesUsed)
	assert.Equal(t, 0, status.CollectionsUsed)

	unlocked, err := svc.Unlock(ctx)
	require.NoError(t, err)
	assert.True(t, unlocked.LifetimeUnlock)
	assert.False(t, unlocked.UnlockedAt.IsZero())

	// Idempotent.
	again, err := svc.Unlock(ctx)
	require.NoError(t, err)
	assert.True(t, again.UnlockedAt.Equal(unlocked.UnlockedAt))
}
