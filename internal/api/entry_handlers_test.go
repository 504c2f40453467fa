package api

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			img.Set(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 11), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func createEntry(t *testing.T, ts *testServer, cardID, title string) string {
	t.Helper()
	status, env := ts.do(t, http.MethodPost, "/api/v1/entries", map[string]any{
		"card_id": cardID,
		"title":   title,
	})
	require.Equal(t, http.StatusCreated, status)
	id, ok := dataField(t, env, "id").(string)
	require.True(t, ok)
	return id
}

func TestCreateEntry(t *testing.T) {
	ts := newTestServer(t)

	t.Run("creates entry with denormalized card name", func(t *testing.T) {
		status, env := ts.do(t, http.MethodPost, "/api/v1/entries", map[string]any{
			"card_id": "card-1",
			"title":   "First pull",
			"text":    "Found at the flea market",
		})

		assert.Equal(t, http.StatusCreated, status)
		assert.Equal(t, "Pikachu", dataField(t, env, "card_name"))
		assert.NotEmpty(t, dataField(t, env, "id"))
	})

	t.Run("rejects missing title", func(t *testing.T) {
		status, env := ts.do(t, http.MethodPost, "/api/v1/entries", map[string]any{
			"card_id": "card-1",
		})

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "VALIDATION", env.Code)
	})

	t.Run("rejects title over limit", func(t *testing.T) {
		status, env := ts.do(t, http.MethodPost, "/api/v1/entries", map[string]any{
			"card_id": "card-1",
			"title":   "This title is far too long for an entry",
		})

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "VALIDATION", env.Code)
	})

	t.Run("rejects invalid body", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, ts.srv.URL+"/api/v1/entries", bytes.NewBufferString("{not json"))
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestEntryLifecycle(t *testing.T) {
	ts := newTestServer(t)
	id := createEntry(t, ts, "card-2", "Trade")

	t.Run("get", func(t *testing.T) {
		status, env := ts.do(t, http.MethodGet, "/api/v1/entries/"+id, nil)

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Trade", dataField(t, env, "title"))
	})

	t.Run("list", func(t *testing.T) {
		status, env := ts.do(t, http.MethodGet, "/api/v1/entries", nil)

		assert.Equal(t, http.StatusOK, status)
		assert.EqualValues(t, 1, dataField(t, env, "total"))
	})

	t.Run("search filter", func(t *testing.T) {
		status, env := ts.do(t, http.MethodGet, "/api/v1/entries?search=charmander", nil)
		assert.Equal(t, http.StatusOK, status)
		assert.EqualValues(t, 1, dataField(t, env, "total"))

		status, env = ts.do(t, http.MethodGet, "/api/v1/entries?search=zzz", nil)
		assert.Equal(t, http.StatusOK, status)
		assert.EqualValues(t, 0, dataField(t, env, "total"))
	})

	t.Run("bad date filter is 400", func(t *testing.T) {
		status, env := ts.do(t, http.MethodGet, "/api/v1/entries?date=not-a-date", nil)

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "VALIDATION", env.Code)
	})

	t.Run("update replaces content", func(t *testing.T) {
		status, env := ts.do(t, http.MethodPut, "/api/v1/entries/"+id, map[string]any{
			"card_id": "card-2",
			"title":   "Trade (graded)",
		})

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Trade (graded)", dataField(t, env, "title"))
	})

	t.Run("delete", func(t *testing.T) {
		status, _ := ts.do(t, http.MethodDelete, "/api/v1/entries/"+id, nil)
		assert.Equal(t, http.StatusNoContent, status)

		status, env := ts.do(t, http.MethodGet, "/api/v1/entries/"+id, nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "NOT_FOUND", env.Code)
	})
}

func TestEntryFreeTierLimit(t *testing.T) {
	ts := newTestServer(t)

	for i := range 10 {
		createEntry(t, ts, "card-1", "Entry "+string(rune('A'+i)))
	}

	status, env := ts.do(t, http.MethodPost, "/api/v1/entries", map[string]any{
		"card_id": "card-1",
		"title":   "One too many",
	})
	assert.Equal(t, http.StatusPaymentRequired, status)
	assert.Equal(t, "LIMIT_EXCEEDED", env.Code)

	// Lifetime unlock lifts the cap.
	status, _ = ts.do(t, http.MethodPost, "/api/v1/entitlements/unlock", nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = ts.do(t, http.MethodPost, "/api/v1/entries", map[string]any{
		"card_id": "card-1",
		"title":   "Unlocked",
	})
	assert.Equal(t, http.StatusCreated, status)
}

func TestEntryImages(t *testing.T) {
	ts := newTestServer(t)
	id := createEntry(t, ts, "card-1", "With photos")
	pngData := encodeTestPNG(t, 32, 24)

	upload := func(t *testing.T) (int, []byte) {
		t.Helper()
		resp, err := http.Post(ts.srv.URL+"/api/v1/entries/"+id+"/images", "application/octet-stream", bytes.NewReader(pngData))
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, body
	}

	t.Run("upload and fetch", func(t *testing.T) {
		status, body := upload(t)
		require.Equal(t, http.StatusCreated, status, "body: %s", body)

		listStatus, env := ts.do(t, http.MethodGet, "/api/v1/entries/"+id, nil)
		require.Equal(t, http.StatusOK, listStatus)
		imageIDs, ok := dataField(t, env, "image_ids").([]any)
		require.True(t, ok)
		require.Len(t, imageIDs, 1)
		imageID, ok := imageIDs[0].(string)
		require.True(t, ok)

		resp, err := http.Get(ts.srv.URL + "/api/v1/entries/" + id + "/images/" + imageID)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

		blob, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, pngData, blob)
	})

	t.Run("caps at three images", func(t *testing.T) {
		for range 2 {
			status, _ := upload(t)
			require.Equal(t, http.StatusCreated, status)
		}

		status, _ := upload(t)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("rejects garbage image data", func(t *testing.T) {
		other := createEntry(t, ts, "card-3", "Bad photo")
		resp, err := http.Post(ts.srv.URL+"/api/v1/entries/"+other+"/images", "application/octet-stream", bytes.NewBufferString("not an image"))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("image from another entry is 404", func(t *testing.T) {
		_, env := ts.do(t, http.MethodGet, "/api/v1/entries/"+id, nil)
		imageIDs, ok := dataField(t, env, "image_ids").([]any)
		require.True(t, ok)
		imageID, ok := imageIDs[0].(string)
		require.True(t, ok)

		other := createEntry(t, ts, "card-3", "No photos")
		status, _ := ts.do(t, http.MethodGet, "/api/v1/entries/"+other+"/images/"+imageID, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("delete image", func(t *testing.T) {
		_, env := ts.do(t, http.MethodGet, "/api/v1/entries/"+id, nil)
		imageIDs, ok := dataField(t, env, "image_ids").([]any)
		require.True(t, ok)
		imageID, ok := imageIDs[0].(string)
		require.True(t, ok)

		status, _ := ts.do(t, http.MethodDelete, "/api/v1/entries/"+id+"/images/"+imageID, nil)
		assert.Equal(t, http.StatusNoContent, status)

		_, env = ts.do(t, http.MethodGet, "/api/v1/entries/"+id, nil)
		imageIDs, ok = dataField(t, env, "image_ids").([]any)
		require.True(t, ok)
		assert.Len(t, imageIDs, 2)
	})
}
