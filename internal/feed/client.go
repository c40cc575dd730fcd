package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/fplduel/fplduel-backend/pkg/errors"
)

const (
	defaultBaseURL             = "https://fantasy.premierleague.com/api"
	defaultTimeout             = 15 * time.Second
	errorBodyReadLimit   int64 = 1024
	bootstrapStaticPath        = "/bootstrap-static/"
)

// Event is one gameweek record as the fantasy feed reports it. Only the
// fields ingestion consumes are decoded; everything else is dropped.
type Event struct {
	ID                  int    `json:"id"`
	Name                string `json:"name"`
	AverageEntryScore   int    `json:"average_entry_score"`
	DataChecked         bool   `json:"data_checked"`
	DeadlineTime        string `json:"deadline_time"`
	DeadlineTimeEpoch   int64  `json:"deadline_time_epoch"`
	Finished            bool   `json:"finished"`
	IsCurrent           bool   `json:"is_current"`
	IsNext              bool   `json:"is_next"`
	IsPrevious          bool   `json:"is_previous"`
	HighestScoringEntry *int   `json:"highest_scoring_entry"`
}

type bootstrap struct {
	Events []Event `json:"events"`
}

// Client fetches the bootstrap-static payload from the fantasy feed.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the feed base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = strings.TrimSuffix(trimmed, "/")
		}
	}
}

// WithTimeout bounds the feed round trip so a stalled fetch cannot starve
// the ingestion job's loop.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient builds a feed client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// FetchEvents retrieves the season's gameweek records.
func (c *Client) FetchEvents(ctx context.Context) ([]Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+bootstrapStaticPath, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeFeedFetch, err, "building feed request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeFeedFetch, err, "fetching bootstrap-static")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, pkgerrors.New(
			pkgerrors.CodeFeedFetch,
			fmt.Sprintf("feed returned status %d", resp.StatusCode),
		).WithDetails(strings.TrimSpace(string(body)))
	}

	var payload bootstrap
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeFeedParse, err, "decoding bootstrap-static")
	}
	return payload.Events, nil
}

// DeadlineAt parses the event's RFC3339 deadline. A malformed timestamp
// yields the zero time, matching how the original ingestion treated it.
func (e Event) DeadlineAt() time.Time {
	parsed, err := time.Parse(time.RFC3339, e.DeadlineTime)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
