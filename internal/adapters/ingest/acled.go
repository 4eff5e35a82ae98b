package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sgmproject/sgm/internal/domain/model"
	"github.com/sgmproject/sgm/pkg/logger"
)

// DefaultACLEDBaseURL is the public ACLED read endpoint.
const DefaultACLEDBaseURL = "https://api.acleddata.com/acled/read"

// ACLEDOption applies a configuration option to the ACLEDClient.
type ACLEDOption func(*ACLEDClient)

// WithACLEDBaseURL overrides the API endpoint (tests point this at a
// local server).
func WithACLEDBaseURL(base string) ACLEDOption {
	return func(c *ACLEDClient) {
		if base != "" {
			c.baseURL = base
		}
	}
}

// WithACLEDHTTPClient overrides the HTTP client.
func WithACLEDHTTPClient(client *http.Client) ACLEDOption {
	return func(c *ACLEDClient) {
		if client != nil {
			c.client = client
		}
	}
}

// ACLEDClient fetches conflict events from the ACLED API. Fetching is
// disabled (ErrMissingKey) when no API key is configured.
type ACLEDClient struct {
	baseURL string
	key     string
	email   string
	client  *http.Client
	log     logger.Logger
}

// NewACLEDClient creates a client authenticated with key and email.
func NewACLEDClient(key, email string, log logger.Logger, opts ...ACLEDOption) *ACLEDClient {
	c := &ACLEDClient{
		baseURL: DefaultACLEDBaseURL,
		key:     key,
		email:   email,
		client:  &http.Client{Timeout: defaultTimeout},
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// acledResponse mirrors the read API envelope. ACLED serializes most
// numeric fields as strings.
type acledResponse struct {
	Data []acledRow `json:"data"`
}

type acledRow struct {
	DataID     string `json:"data_id"`
	EventDate  string `json:"event_date"`
	EventType  string `json:"event_type"`
	Actor1     string `json:"actor1"`
	Actor2     string `json:"actor2"`
	Country    string `json:"country"`
	Location   string `json:"location"`
	Latitude   string `json:"latitude"`
	Longitude  string `json:"longitude"`
	Fatalities string `json:"fatalities"`
	Notes      string `json:"notes"`
}

// FetchEvents pulls up to limit events from the lookback window.
func (c *ACLEDClient) FetchEvents(ctx context.Context, daysBack, limit int) ([]model.RawEvent, error) {
	if c.key == "" {
		return nil, ErrMissingKey
	}

	start, end := dateWindow(daysBack)
	params := url.Values{}
	params.Set("key", c.key)
	params.Set("email", c.email)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("event_date", start+"|"+end)
	params.Set("event_date_where", "BETWEEN")
	params.Set("format", "json")

	body, err := getJSON(ctx, c.client, c.baseURL+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var resp acledResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrUpstream, err)
	}

	events := make([]model.RawEvent, 0, len(resp.Data))
	for i, row := range resp.Data {
		id := row.DataID
		if id == "" {
			id = fmt.Sprintf("acled-%d", i)
		}
		events = append(events, model.RawEvent{
			Source:     model.SourceACLED,
			EventID:    id,
			EventDate:  row.EventDate,
			EventType:  row.EventType,
			Actor1:     row.Actor1,
			Actor2:     row.Actor2,
			Country:    row.Country,
			Location:   row.Location,
			Latitude:   parseFloat(row.Latitude),
			Longitude:  parseFloat(row.Longitude),
			Fatalities: parseInt(row.Fatalities),
			Notes:      row.Notes,
		})
	}

	c.log.Info(ctx, "fetched ACLED events",
		logger.Int("count", len(events)),
		logger.Int("days_back", daysBack),
	)
	return events, nil
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}
