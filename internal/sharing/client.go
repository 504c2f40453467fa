// Package sharing publishes collections to the remote share endpoint.
//
// The endpoint takes the card list and metadata as query parameters and
// returns an opaque share ID. A collection moves from unshared to shared
// exactly once; subsequent shares update the existing remote page and the
// ID never changes. There is no unshare.
package sharing

import (
	"context"
	"encoding/json/v2"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/cardchronicle/chronicle-server/internal/errors"
)

// Client talks to the remote collection share endpoint.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
	endpoint    string
}

// NewClient creates a share client for the given endpoint URL.
func NewClient(endpoint string, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		// Shares are user-initiated and rare; one per second is generous.
		rateLimiter: rate.NewLimiter(rate.Every(time.Second), 2),
		logger:      logger,
		endpoint:    endpoint,
	}
}

// Request carries everything the share endpoint needs.
type Request struct {
	CardIDs     []string
	Title       string
	Description string
	// ExistingShareID switches the call from create to update.
	ExistingShareID string
}

type shareResponse struct {
	ShareID string `json:"shareId"`
}

// Share publishes a collection and returns its share ID. For an update
// the returned ID equals ExistingShareID. An empty card list fails before
// anything is sent. The call is single best-effort: no retry, no backoff;
// the caller surfaces the failure to the user.
func (c *Client) Share(ctx context.Context, req Request) (string, error) {
	if len(req.CardIDs) == 0 {
		return "", errors.EmptyCollection("cannot share an empty collection")
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", err
	}

	params := url.Values{}
	params.Set("ids", strings.Join(req.CardIDs, ","))
	params.Set("title", req.Title)
	params.Set("description", req.Description)
	if req.ExistingShareID != "" {
		params.Set("id", req.ExistingShareID)
		params.Set("action", "update")
	}
	params.Set("format", "json")

	shareURL := c.endpoint + "?" + params.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, shareURL, nil)
	if err != nil {
		return "", errors.Internal("build share request").WithCause(err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", errors.Upstream("share request failed").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Upstreamf("share request: status %d", resp.StatusCode)
	}

	var decoded shareResponse
	if err := json.UnmarshalRead(resp.Body, &decoded); err != nil {
		return "", errors.Decode("parse share response").WithCause(err)
	}
	if decoded.ShareID == "" {
		return "", errors.Decode("share response missing shareId")
	}

	action := "created"
	if req.ExistingShareID != "" {
		action = "updated"
	}
	c.logger.Info("collection share "+action,
		"share_id", decoded.ShareID,
		"cards", len(req.CardIDs),
	)

	return decoded.ShareID, nil
}

// PageURL builds the user-facing share page URL for a share ID. This is
// what goes into the platform share sheet.
func (c *Client) PageURL(shareID string) string {
	return c.endpoint + "?id=" + url.QueryEscape(shareID)
}
