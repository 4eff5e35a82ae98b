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

// DefaultGDELTBaseURL is the public GDELT DOC 2.0 endpoint.
const DefaultGDELTBaseURL = "https://api.gdeltproject.org/api/v2/doc/doc"

// GDELTOption applies a configuration option to the GDELTClient.
type GDELTOption func(*GDELTClient)

// WithGDELTBaseURL overrides the API endpoint (tests point this at a
// local server).
func WithGDELTBaseURL(base string) GDELTOption {
	return func(c *GDELTClient) {
		if base != "" {
			c.baseURL = base
		}
	}
}

// WithGDELTHTTPClient overrides the HTTP client.
func WithGDELTHTTPClient(client *http.Client) GDELTOption {
	return func(c *GDELTClient) {
		if client != nil {
			c.client = client
		}
	}
}

// GDELTClient fetches conflict articles from the GDELT DOC API and
// maps them to RawEvents.
type GDELTClient struct {
	baseURL string
	client  *http.Client
	log     logger.Logger
}

// NewGDELTClient creates a client with the given options.
func NewGDELTClient(log logger.Logger, opts ...GDELTOption) *GDELTClient {
	c := &GDELTClient{
		baseURL: DefaultGDELTBaseURL,
		client:  &http.Client{Timeout: defaultTimeout},
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// gdeltResponse mirrors the DOC API artlist envelope. Only the fields
// the normalizer needs are decoded.
type gdeltResponse struct {
	Articles []gdeltArticle `json:"articles"`
}

type gdeltArticle struct {
	SeenDate string     `json:"seendate"`
	Tone     float64    `json:"tone"`
	Title    string     `json:"title"`
	Geonames []gdeltGeo `json:"geonames"`
}

type gdeltGeo struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Name        string  `json:"name"`
	CountryName string  `json:"countryname"`
}

// FetchEvents pulls up to limit conflict articles from the lookback
// window and maps them to RawEvents. Articles without geodata keep the
// "Unknown" country and rely on downstream normalization.
func (c *GDELTClient) FetchEvents(ctx context.Context, daysBack, limit int) ([]model.RawEvent, error) {
	params := url.Values{}
	params.Set("query", "domain:conflict")
	params.Set("format", "json")
	params.Set("mode", "artlist")
	params.Set("maxrecords", strconv.Itoa(limit))
	params.Set("timespan", fmt.Sprintf("%ddays", daysBack))

	body, err := getJSON(ctx, c.client, c.baseURL+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var resp gdeltResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrUpstream, err)
	}

	events := make([]model.RawEvent, 0, len(resp.Articles))
	for _, article := range resp.Articles {
		ev := model.RawEvent{
			Source:    model.SourceGDELT,
			EventDate: article.SeenDate,
			AvgTone:   article.Tone,
			Country:   "Unknown",
			Notes:     article.Title,
		}
		if len(article.Geonames) > 0 {
			geo := article.Geonames[0]
			ev.Latitude = geo.Lat
			ev.Longitude = geo.Lon
			ev.Location = geo.Name
			if geo.CountryName != "" {
				ev.Country = geo.CountryName
			}
		}
		events = append(events, ev)
	}

	c.log.Info(ctx, "fetched GDELT events",
		logger.Int("count", len(events)),
		logger.Int("days_back", daysBack),
	)
	return events, nil
}
