// Package ingest fetches raw conflict events from the GDELT and ACLED
// APIs. Each client owns its retries and backoff; failures surface as
// an error with no events, which the pipeline treats as a no-op run.
package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Shared HTTP client defaults.
const (
	defaultTimeout     = 30 * time.Second
	defaultMaxAttempts = 3
	defaultBackoff     = 500 * time.Millisecond
	maxResponseBytes   = 16 << 20
)

// getJSON performs a GET with bounded retries and doubling backoff,
// returning the response body. Retries cover transport errors and 5xx
// responses; 4xx responses fail immediately.
func getJSON(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	var lastErr error
	backoff := defaultBackoff
	for attempt := 1; attempt <= defaultMaxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("fetch canceled: %w", ctx.Err())
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		body, retryable, err := doGet(ctx, client, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	return nil, lastErr
}

func doGet(ctx context.Context, client *http.Client, url string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		retryable := resp.StatusCode >= http.StatusInternalServerError
		return nil, retryable, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, true, fmt.Errorf("%w: read body: %w", ErrUpstream, err)
	}
	return body, false, nil
}

// dateWindow returns the [start, end] dates for a lookback window,
// formatted as YYYY-MM-DD.
func dateWindow(daysBack int) (string, string) {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -daysBack)
	const layout = "2006-01-02"
	return start.Format(layout), end.Format(layout)
}
