package catalog

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/cardchronicle/chronicle-server/internal/domain"
	"github.com/cardchronicle/chronicle-server/internal/errors"
)

// Client fetches the card catalog from the remote endpoints.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
	cardsURL    string
	setsURL     string
}

// NewClient creates a catalog client for the given endpoints.
// Rate limited to one request per second with a small burst; the catalog
// host is a shared free service and refreshes are infrequent anyway.
func NewClient(cardsURL, setsURL string, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		rateLimiter: rate.NewLimiter(rate.Every(time.Second), 3),
		logger:      logger,
		cardsURL:    cardsURL,
		setsURL:     setsURL,
	}
}

// cardDTO mirrors the upstream card document. The upstream "set_name"
// field carries the set ID, not its display name; the name is resolved
// against the set list at render time.
type cardDTO struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	SmallImageURL string `json:"small_image_url"`
	LargeImageURL string `json:"large_image_url"`
	SetID         string `json:"set_name"`
}

type cardsResponse struct {
	Cards []cardDTO `json:"cards"`
}

type setDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Cards fetches the full card list.
func (c *Client) Cards(ctx context.Context) ([]domain.Card, error) {
	var resp cardsResponse
	if err := c.getJSON(ctx, c.cardsURL, &resp); err != nil {
		return nil, err
	}

	cards := make([]domain.Card, 0, len(resp.Cards))
	for _, d := range resp.Cards {
		cards = append(cards, domain.Card{
			ID:            d.ID,
			Name:          d.Name,
			SmallImageURL: d.SmallImageURL,
			LargeImageURL: d.LargeImageURL,
			SetID:         d.SetID,
		})
	}

	c.logger.Debug("fetched card list", "count", len(cards))
	return cards, nil
}

// Sets fetches the set list in upstream order (oldest first).
func (c *Client) Sets(ctx context.Context) ([]domain.CardSet, error) {
	var dtos []setDTO
	if err := c.getJSON(ctx, c.setsURL, &dtos); err != nil {
		return nil, err
	}

	sets := make([]domain.CardSet, 0, len(dtos))
	for _, d := range dtos {
		sets = append(sets, domain.CardSet{ID: d.ID, Name: d.Name})
	}

	c.logger.Debug("fetched set list", "count", len(sets))
	return sets, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Upstream("catalog request failed").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Upstreamf("catalog request: status %d", resp.StatusCode)
	}

	if err := json.UnmarshalRead(resp.Body, out); err != nil {
		return errors.Decode("parse catalog response").WithCause(err)
	}
	return nil
}
