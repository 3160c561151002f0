// Package opennotify is a client for the open-notify ISS API.
package opennotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/paulmach/orb"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/star/issview/internal/failure"
	"github.com/star/issview/internal/metrics"
)

// DefaultBaseURL is the public open-notify service.
const DefaultBaseURL = "http://api.open-notify.org"

// maxBodyBytes caps a single response body. The real payloads are well
// under a kilobyte.
const maxBodyBytes = 1 << 20

const tracerName = "github.com/star/issview/internal/opennotify"

// Client issues GET requests against the open-notify endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client for baseURL. An empty baseURL selects
// DefaultBaseURL; a zero timeout leaves requests bounded only by ctx.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.With("component", "opennotify"),
	}
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Astronauts fetches the people currently in space.
func (c *Client) Astronauts(ctx context.Context) (Astronauts, error) {
	const op = "GET /astros.json"

	var resp astrosResponse
	if err := c.getJSON(ctx, "astros", "/astros.json", nil, &resp); err != nil {
		return Astronauts{}, err
	}

	if resp.Message != "" && resp.Message != "success" {
		return Astronauts{}, failure.Validation(op, fmt.Errorf("api message %q", resp.Message))
	}
	if resp.Number == nil {
		return Astronauts{}, failure.Validation(op, errors.New("missing field \"number\""))
	}
	if resp.People == nil {
		return Astronauts{}, failure.Validation(op, errors.New("missing field \"people\""))
	}

	return Astronauts{Number: *resp.Number, People: *resp.People}, nil
}

// ISSPosition fetches the current ISS ground position.
func (c *Client) ISSPosition(ctx context.Context) (RawPosition, error) {
	const op = "GET /iss-now.json"

	var resp issNowResponse
	if err := c.getJSON(ctx, "iss-now", "/iss-now.json", nil, &resp); err != nil {
		return RawPosition{}, err
	}

	if resp.Message != "" && resp.Message != "success" {
		return RawPosition{}, failure.Validation(op, fmt.Errorf("api message %q", resp.Message))
	}
	if resp.ISSPosition == nil {
		return RawPosition{}, failure.Validation(op, errors.New("missing field \"iss_position\""))
	}
	if resp.ISSPosition.Longitude == nil || resp.ISSPosition.Latitude == nil {
		return RawPosition{}, failure.Validation(op, errors.New("iss_position needs longitude and latitude"))
	}

	return RawPosition{
		Longitude: *resp.ISSPosition.Longitude,
		Latitude:  *resp.ISSPosition.Latitude,
		Timestamp: resp.Timestamp,
	}, nil
}

// Passes fetches the upcoming visible passes over loc, given as
// (longitude, latitude) in degrees. The result is never empty.
func (c *Client) Passes(ctx context.Context, loc orb.Point) ([]Pass, error) {
	const op = "GET /iss-pass.json"

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(loc.Lat(), 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(loc.Lon(), 'f', -1, 64))

	var resp issPassResponse
	if err := c.getJSON(ctx, "iss-pass", "/iss-pass.json", q, &resp); err != nil {
		return nil, err
	}

	if resp.Message != "" && resp.Message != "success" {
		reason := resp.Reason
		if reason == "" {
			reason = resp.Message
		}
		return nil, failure.Validation(op, fmt.Errorf("api refused request: %s", reason))
	}
	if resp.Response == nil {
		return nil, failure.Validation(op, errors.New("missing field \"response\""))
	}
	if len(*resp.Response) == 0 {
		return nil, failure.Validation(op, errors.New("no passes in response"))
	}

	return *resp.Response, nil
}

// getJSON performs one traced, measured GET and decodes the body into v.
func (c *Client) getJSON(ctx context.Context, endpoint, path string, query url.Values, v any) (err error) {
	op := "GET " + path
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, op)
	span.SetAttributes(
		attribute.String("opennotify.endpoint", endpoint),
		attribute.String("http.url", u),
	)

	start := time.Now()
	defer func() {
		duration := time.Since(start)
		outcome := "ok"
		if err != nil {
			outcome = failure.KindOf(err).String()
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			c.logger.Warn("request failed", "endpoint", endpoint, "error", err, "duration_ms", duration.Milliseconds())
		} else {
			c.logger.Debug("request complete", "endpoint", endpoint, "duration_ms", duration.Milliseconds())
		}
		metrics.RecordAPIRequest(endpoint, outcome, duration)
		span.End()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return failure.Validation(op, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return failure.Network(op, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		return failure.Network(op, fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, u))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return failure.Network(op, fmt.Errorf("reading response body: %w", err))
	}
	if len(body) > maxBodyBytes {
		return failure.Decode(op, fmt.Errorf("response exceeds %d byte limit", maxBodyBytes))
	}

	if err := json.Unmarshal(body, v); err != nil {
		return failure.Decode(op, err)
	}
	return nil
}
