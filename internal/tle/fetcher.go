package tle

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/star/issview/internal/failure"
)

// ISSNoradID is the catalog number of the ISS (ZARYA).
const ISSNoradID = 25544

// DefaultSourceURL serves the current ISS element set.
const DefaultSourceURL = "https://celestrak.org/NORAD/elements/gp.php?CATNR=25544&FORMAT=tle"

// maxBodyBytes bounds a TLE download; a single element set is ~170 bytes.
const maxBodyBytes = 1 << 20

// Fetcher retrieves raw TLE text from a remote source.
type Fetcher struct {
	sourceURL  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewFetcher creates a Fetcher for sourceURL, or DefaultSourceURL if empty.
func NewFetcher(sourceURL string, timeout time.Duration, logger *slog.Logger) *Fetcher {
	if sourceURL == "" {
		sourceURL = DefaultSourceURL
	}
	return &Fetcher{
		sourceURL: sourceURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.With("component", "tle"),
	}
}

// SourceURL returns the configured source URL.
func (f *Fetcher) SourceURL() string {
	return f.sourceURL
}

// Fetch performs an HTTP GET to retrieve raw TLE data.
func (f *Fetcher) Fetch(ctx context.Context) ([]byte, error) {
	const op = "GET tle"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.sourceURL, nil)
	if err != nil {
		return nil, failure.Validation(op, fmt.Errorf("creating request: %w", err))
	}

	start := time.Now()
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, failure.Network(op, fmt.Errorf("fetching TLE data: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, failure.Network(op, fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, f.sourceURL))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, failure.Network(op, fmt.Errorf("reading response body: %w", err))
	}
	if len(body) > maxBodyBytes {
		return nil, failure.Decode(op, fmt.Errorf("response exceeds %d byte limit", maxBodyBytes))
	}

	f.logger.Debug("fetched TLE data", "bytes", len(body), "duration_ms", time.Since(start).Milliseconds())
	return body, nil
}
