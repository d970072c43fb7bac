// Package service internal/application/service/exchange_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/damon-houk/currency-converter/internal/domain/entity"
	domain "github.com/damon-houk/currency-converter/internal/domain/service"
	"github.com/damon-houk/currency-converter/internal/infrastructure/api"
	"github.com/damon-houk/currency-converter/internal/infrastructure/logger"
	"github.com/damon-houk/currency-converter/internal/infrastructure/metrics"
	"github.com/damon-houk/currency-converter/internal/infrastructure/middleware"
)

// Option configures an Exchange
type Option func(*Exchange)

// WithRates seeds the rate table
func WithRates(rates map[string]float64) Option {
	return func(e *Exchange) {
		e.conversion.SetConversionRates(rates)
	}
}

// WithEndpoint sets the remote endpoint rates are refreshed from.
// The base currency code is appended to it on every request.
func WithEndpoint(endpoint string) Option {
	return func(e *Exchange) {
		e.endpoint = endpoint
	}
}

// WithAdapter sets how the rates object is read from a response body
func WithAdapter(adapter api.ResponseAdapter) Option {
	return func(e *Exchange) {
		e.adapter = adapter
	}
}

// WithSource replaces the HTTP rate source. It takes precedence over
// WithEndpoint.
func WithSource(source domain.RateSource) Option {
	return func(e *Exchange) {
		e.source = source
	}
}

// WithLogger sets the logger
func WithLogger(log logger.Logger) Option {
	return func(e *Exchange) {
		if log != nil {
			e.logger = log
		}
	}
}

// WithHTTPClient sets the HTTP client used to reach the endpoint
func WithHTTPClient(client *http.Client) Option {
	return func(e *Exchange) {
		e.httpClient = client
	}
}

// WithCacheTTL keeps fetched rates for ttl instead of refreshing on every call
func WithCacheTTL(ttl time.Duration) Option {
	return func(e *Exchange) {
		e.cacheTTL = ttl
	}
}

// Exchange is a Conversion whose rates are refreshed from a remote source
// before every conversion.
//
// Like Conversion, an Exchange is not safe for concurrent use.
type Exchange struct {
	conversion *entity.Conversion
	source     domain.RateSource
	endpoint   string
	adapter    api.ResponseAdapter
	httpClient *http.Client
	cacheTTL   time.Duration
	logger     logger.Logger
}

// NewExchange creates an exchange for amount in base
func NewExchange(amount float64, base string, opts ...Option) *Exchange {
	e := &Exchange{
		conversion: entity.NewConversion(amount, base, nil),
		logger:     logger.GetDefaultLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.source == nil && e.endpoint != "" {
		e.source = api.NewRateAPIClient(e.endpoint, e.httpClient,
			api.WithAdapter(e.adapter),
			api.WithCacheTTL(e.cacheTTL),
			api.WithClientLogger(e.logger),
		)
	}

	return e
}

// Conversion exposes the underlying engine for synchronous use
func (e *Exchange) Conversion() *entity.Conversion {
	return e.conversion
}

// HasSource reports whether rates are refreshed remotely
func (e *Exchange) HasSource() bool {
	return e.source != nil
}

// UpdateRates refreshes the rate table from the configured source. Without a
// source it does nothing. A non-2xx answer keeps the current rates and is not
// reported as an error; transport and decode failures are returned.
func (e *Exchange) UpdateRates(ctx context.Context) error {
	if e.source == nil {
		return nil
	}

	requestID := middleware.GetRequestID(ctx)
	base := e.conversion.Currency()

	e.logger.Debug("Refreshing rates", map[string]interface{}{
		"request_id": requestID,
		"base":       base,
	})

	snapshot, err := e.source.FetchRates(ctx, base)
	if err != nil {
		if errors.Is(err, api.ErrUnexpectedStatus) {
			e.logger.Warn("Rate endpoint returned unexpected status, keeping current rates", map[string]interface{}{
				"request_id": requestID,
				"base":       base,
				"error":      err.Error(),
			})
			return nil
		}

		e.logger.Error("Failed to refresh rates", map[string]interface{}{
			"request_id": requestID,
			"base":       base,
			"error":      err.Error(),
		})
		return fmt.Errorf("failed to refresh rates for %s: %w", base, err)
	}

	e.conversion.SetRawConversionRates(snapshot.Rates)

	e.logger.Info("Rates refreshed", map[string]interface{}{
		"request_id": requestID,
		"base":       base,
		"received":   len(snapshot.Rates),
		"known":      len(e.conversion.Currencies()),
	})

	return nil
}

// To converts the stored amount to currency after refreshing rates
func (e *Exchange) To(ctx context.Context, currency string) (float64, error) {
	return e.ToAmount(ctx, currency, e.conversion.Amount())
}

// ToAmount converts amount to currency after refreshing rates
func (e *Exchange) ToAmount(ctx context.Context, currency string, amount float64) (float64, error) {
	if err := e.UpdateRates(ctx); err != nil {
		return 0, err
	}
	metrics.ConversionsTotal.WithLabelValues("to").Inc()
	return e.conversion.ToAmount(currency, amount), nil
}

// From converts the stored amount from currency after refreshing rates
func (e *Exchange) From(ctx context.Context, currency string) (float64, error) {
	return e.FromAmount(ctx, currency, e.conversion.Amount())
}

// FromAmount converts amount from currency after refreshing rates
func (e *Exchange) FromAmount(ctx context.Context, currency string, amount float64) (float64, error) {
	if err := e.UpdateRates(ctx); err != nil {
		return 0, err
	}
	metrics.ConversionsTotal.WithLabelValues("from").Inc()
	return e.conversion.FromAmount(currency, amount), nil
}

// ToMany converts the stored amount to each of currencies after refreshing rates
func (e *Exchange) ToMany(ctx context.Context, currencies []string) (map[string]float64, error) {
	return e.ToManyAmount(ctx, currencies, e.conversion.Amount())
}

// ToManyAmount converts amount to each of currencies after refreshing rates
func (e *Exchange) ToManyAmount(ctx context.Context, currencies []string, amount float64) (map[string]float64, error) {
	if err := e.UpdateRates(ctx); err != nil {
		return nil, err
	}
	metrics.ConversionsTotal.WithLabelValues("to").Add(float64(len(currencies)))
	return e.conversion.ToManyAmount(currencies, amount), nil
}

// FromMany converts the stored amount from each of currencies after refreshing rates
func (e *Exchange) FromMany(ctx context.Context, currencies []string) (map[string]float64, error) {
	return e.FromManyAmount(ctx, currencies, e.conversion.Amount())
}

// FromManyAmount converts amount from each of currencies after refreshing rates
func (e *Exchange) FromManyAmount(ctx context.Context, currencies []string, amount float64) (map[string]float64, error) {
	if err := e.UpdateRates(ctx); err != nil {
		return nil, err
	}
	metrics.ConversionsTotal.WithLabelValues("from").Add(float64(len(currencies)))
	return e.conversion.FromManyAmount(currencies, amount), nil
}
