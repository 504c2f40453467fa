package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createCollection(t *testing.T, ts *testServer, name string) string {
	t.Helper()
	status, env := ts.do(t, http.MethodPost, "/api/v1/collections", map[string]any{
		"name": name,
	})
	require.Equal(t, http.StatusCreated, status)
	id, ok := dataField(t, env, "id").(string)
	require.True(t, ok)
	return id
}

func TestCreateCollection(t *testing.T) {
	ts := newTestServer(t)

	t.Run("creates collection", func(t *testing.T) {
		status, env := ts.do(t, http.MethodPost, "/api/v1/collections", map[string]any{
			"name":  "Base Set Binder",
			"about": "Everything from 1999",
		})

		assert.Equal(t, http.StatusCreated, status)
		assert.Equal(t, "Base Set Binder", dataField(t, env, "name"))
		assert.NotEmpty(t, dataField(t, env, "id"))
	})

	t.Run("rejects missing name", func(t *testing.T) {
		status, env := ts.do(t, http.MethodPost, "/api/v1/collections", map[string]any{
			"about": "nameless",
		})

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "VALIDATION", env.Code)
	})
}

func TestCollectionFreeTierLimit(t *testing.T) {
	ts := newTestServer(t)

	createCollection(t, ts, "One")
	createCollection(t, ts, "Two")
	createCollection(t, ts, "Three")

	status, env := ts.do(t, http.MethodPost, "/api/v1/collections", map[string]any{
		"name": "Four",
	})
	assert.Equal(t, http.StatusPaymentRequired, status)
	assert.Equal(t, "LIMIT_EXCEEDED", env.Code)
}

func TestCollectionCards(t *testing.T) {
	ts := newTestServer(t)
	id := createCollection(t, ts, "Favorites")

	t.Run("add card", func(t *testing.T) {
		status, env := ts.do(t, http.MethodPost, "/api/v1/collections/"+id+"/cards", map[string]any{
			"card_id": "card-1",
		})

		assert.Equal(t, http.StatusOK, status)
		members, ok := dataField(t, env, "members").([]any)
		require.True(t, ok)
		assert.Len(t, members, 1)
	})

	t.Run("adding again is a no-op", func(t *testing.T) {
		status, env := ts.do(t, http.MethodPost, "/api/v1/collections/"+id+"/cards", map[string]any{
			"card_id": "card-1",
		})

		assert.Equal(t, http.StatusOK, status)
		members, ok := dataField(t, env, "members").([]any)
		require.True(t, ok)
		assert.Len(t, members, 1)
	})

	t.Run("empty card id is 400", func(t *testing.T) {
		status, _ := ts.do(t, http.MethodPost, "/api/v1/collections/"+id+"/cards", map[string]any{})
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("detail resolves cards against catalog", func(t *testing.T) {
		status, env := ts.do(t, http.MethodGet, "/api/v1/collections/"+id, nil)

		assert.Equal(t, http.StatusOK, status)
		cards, ok := dataField(t, env, "cards").([]any)
		require.True(t, ok)
		require.Len(t, cards, 1)
		card, ok := cards[0].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Pikachu", card["name"])
		assert.Equal(t, "Base Set", card["set_name"])
	})

	t.Run("remove card", func(t *testing.T) {
		status, env := ts.do(t, http.MethodDelete, "/api/v1/collections/"+id+"/cards/card-1", nil)

		assert.Equal(t, http.StatusOK, status)
		members, ok := dataField(t, env, "members").([]any)
		require.True(t, ok)
		assert.Empty(t, members)
	})
}

func TestCollectionLifecycle(t *testing.T) {
	ts := newTestServer(t)
	id := createCollection(t, ts, "Binder")

	t.Run("list", func(t *testing.T) {
		status, env := ts.do(t, http.MethodGet, "/api/v1/collections", nil)

		assert.Equal(t, http.StatusOK, status)
		assert.EqualValues(t, 1, dataField(t, env, "total"))
	})

	t.Run("update", func(t *testing.T) {
		status, env := ts.do(t, http.MethodPut, "/api/v1/collections/"+id, map[string]any{
			"name":  "Binder v2",
			"about": "reorganized",
		})

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Binder v2", dataField(t, env, "name"))
	})

	t.Run("unknown collection is 404", func(t *testing.T) {
		status, env := ts.do(t, http.MethodGet, "/api/v1/collections/coll-missing", nil)

		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "NOT_FOUND", env.Code)
	})

	t.Run("delete", func(t *testing.T) {
		status, _ := ts.do(t, http.MethodDelete, "/api/v1/collections/"+id, nil)
		assert.Equal(t, http.StatusNoContent, status)

		status, _ = ts.do(t, http.MethodGet, "/api/v1/collections/"+id, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestShareCollection(t *testing.T) {
	ts := newTestServer(t)
	id := createCollection(t, ts, "Showcase")

	t.Run("empty collection cannot be shared", func(t *testing.T) {
		status, env := ts.do(t, http.MethodPost, "/api/v1/collections/"+id+"/share", nil)

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "EMPTY_COLLECTION", env.Code)
	})

	t.Run("share returns id and url", func(t *testing.T) {
		status, _ := ts.do(t, http.MethodPost, "/api/v1/collections/"+id+"/cards", map[string]any{
			"card_id": "card-2",
		})
		require.Equal(t, http.StatusOK, status)

		status, env := ts.do(t, http.MethodPost, "/api/v1/collections/"+id+"/share", nil)

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "X123", dataField(t, env, "share_id"))
		shareURL, ok := dataField(t, env, "share_url").(string)
		require.True(t, ok)
		assert.Contains(t, shareURL, "?id=X123")
	})
}
