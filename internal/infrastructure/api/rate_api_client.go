package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/damon-houk/currency-converter/internal/domain/entity"
	"github.com/damon-houk/currency-converter/internal/infrastructure/cache"
	"github.com/damon-houk/currency-converter/internal/infrastructure/logger"
	"github.com/damon-houk/currency-converter/internal/infrastructure/metrics"
)

// DefaultEndpoint is the rate API queried when none is configured.
// The base currency code is appended to it.
const DefaultEndpoint = "https://api.exchangerate-api.com/v4/latest/"

var (
	// ErrUnexpectedStatus is returned when the endpoint answers with a non-2xx status
	ErrUnexpectedStatus = errors.New("unexpected response status")
	// ErrNoEndpoint is returned when the client has no endpoint to query
	ErrNoEndpoint = errors.New("no rate endpoint configured")
)

// ResponseAdapter extracts the rates object from a decoded response body
type ResponseAdapter func(body map[string]interface{}) map[string]interface{}

// DefaultAdapter reads "conversion_rates", falling back to "rates"
func DefaultAdapter(body map[string]interface{}) map[string]interface{} {
	for _, key := range []string{"conversion_rates", "rates"} {
		if rates, ok := body[key].(map[string]interface{}); ok {
			return rates
		}
	}
	return nil
}

// ClientOption configures a RateAPIClient
type ClientOption func(*RateAPIClient)

// WithAdapter sets the response adapter. A nil adapter keeps the default.
func WithAdapter(adapter ResponseAdapter) ClientOption {
	return func(c *RateAPIClient) {
		if adapter != nil {
			c.adapter = adapter
		}
	}
}

// WithCacheTTL keeps fetched snapshots for ttl. Zero disables caching.
func WithCacheTTL(ttl time.Duration) ClientOption {
	return func(c *RateAPIClient) {
		c.cache.SetExpiration(ttl)
	}
}

// WithClientLogger sets the logger used by the client
func WithClientLogger(log logger.Logger) ClientOption {
	return func(c *RateAPIClient) {
		if log != nil {
			c.logger = log
		}
	}
}

// RateAPIClient fetches rate tables from a JSON endpoint of the form
// GET {endpoint}{base}
type RateAPIClient struct {
	endpoint   string
	httpClient *http.Client
	adapter    ResponseAdapter
	cache      *cache.RateSnapshotCache
	logger     logger.Logger
	now        func() time.Time
}

// NewRateAPIClient creates a new rate API client
func NewRateAPIClient(endpoint string, httpClient *http.Client, opts ...ClientOption) *RateAPIClient {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 10 * time.Second,
		}
	}

	c := &RateAPIClient{
		endpoint:   endpoint,
		httpClient: httpClient,
		adapter:    DefaultAdapter,
		cache:      cache.NewRateSnapshotCache(0),
		logger:     logger.GetDefaultLogger(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchRates retrieves the rates for base. Each call issues exactly one
// request unless a cached snapshot is still fresh. base is path escaped.
func (c *RateAPIClient) FetchRates(ctx context.Context, base string) (*entity.RateSnapshot, error) {
	if c.endpoint == "" {
		return nil, ErrNoEndpoint
	}

	if cached := c.cache.Get(base); cached != nil {
		metrics.ObserveRateFetch(base, metrics.OutcomeCacheHit, c.now())
		c.logger.Debug("Using cached rates", map[string]interface{}{
			"base":       base,
			"fetched_at": cached.FetchedAt.Format(time.RFC3339),
		})
		return cached, nil
	}

	startedAt := c.now()
	reqURL := c.endpoint + url.PathEscape(base)

	c.logger.Debug("Fetching rates", map[string]interface{}{
		"base": base,
		"url":  reqURL,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		metrics.ObserveRateFetch(base, metrics.OutcomeError, startedAt)
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Add("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveRateFetch(base, metrics.OutcomeError, startedAt)
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("Error closing response body", map[string]interface{}{
				"error": closeErr.Error(),
			})
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		metrics.ObserveRateFetch(base, metrics.OutcomeUnexpectedStatus, startedAt)
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		metrics.ObserveRateFetch(base, metrics.OutcomeError, startedAt)
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	snapshot := &entity.RateSnapshot{
		Base:      base,
		Rates:     c.adapter(body),
		FetchedAt: c.now(),
	}
	c.cache.Put(snapshot)
	metrics.ObserveRateFetch(base, metrics.OutcomeOK, startedAt)

	c.logger.Debug("Fetched rates", map[string]interface{}{
		"base":   base,
		"status": resp.StatusCode,
		"count":  len(snapshot.Rates),
	})

	return snapshot, nil
}
