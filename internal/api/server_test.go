package api

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cardchronicle/chronicle-server/internal/catalog"
	"github.com/cardchronicle/chronicle-server/internal/domain"
	"github.com/cardchronicle/chronicle-server/internal/http/response"
	"github.com/cardchronicle/chronicle-server/internal/service"
	"github.com/cardchronicle/chronicle-server/internal/sharing"
	"github.com/cardchronicle/chronicle-server/internal/sse"
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

func (f *fixedSource) Cards(context.Context) ([]domain.Card, error)   { return f.cards, nil }
func (f *fixedSource) Sets(context.Context) ([]domain.CardSet, error) { return f.sets, nil }

// testServer wires a full API server against a temp store, a static
// catalog, and a stub share endpoint.
type testServer struct {
	srv    *httptest.Server
	store  *store.Store
	events *sse.Manager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := testLogger()

	events := sse.NewManager(logger)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go events.Start(ctx)

	st, err := store.New(t.TempDir(), logger, events)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, st.Close()) })

	cat := catalog.NewStore(&fixedSource{
		cards: []domain.Card{
			{ID: "card-1", Name: "Pikachu", SetID: "base"},
			{ID: "card-2", Name: "Charmander", SetID: "base"},
			{ID: "card-3", Name: "Mew", SetID: "promo"},
		},
		sets: []domain.CardSet{
			{ID: "base", Name: "Base Set"},
			{ID: "promo", Name: "Promos"},
		},
	}, logger)
	require.NoError(t, cat.Refresh(context.Background()))
	t.Cleanup(cat.Shutdown)

	shareSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"shareId":"X123"}`))
	}))
	t.Cleanup(shareSrv.Close)
	shares := sharing.NewClient(shareSrv.URL, logger)

	v := validation.New()

	server := NewServer(
		service.NewCardService(cat, st, logger),
		service.NewDiaryService(st, cat, v, logger),
		service.NewCollectionService(st, cat, shares, v, logger),
		service.NewFavoriteService(st, cat, logger),
		service.NewEntitlementService(st, logger),
		events,
		sse.NewHandler(events, logger),
		logger,
	)

	srv := httptest.NewServer(server)
	t.Cleanup(srv.Close)

	return &testServer{srv: srv, store: st, events: events}
}

// do issues a request and decodes the response envelope.
func (ts *testServer) do(t *testing.T, method, path string, body any) (int, response.Envelope) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, ts.srv.URL+path, reqBody)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env response.Envelope
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), "body: %s", raw)
	}
	return resp.StatusCode, env
}

// dataField digs a field out of the envelope's data object.
func dataField(t *testing.T, env response.Envelope, key string) any {
	t.Helper()
	data, ok := env.Data.(map[string]any)
	require.True(t, ok, "envelope data is not an object: %#v", env.Data)
	return data[key]
}
