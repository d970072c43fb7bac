// Package service internal/domain/service/rate_source.go
package service

import (
	"context"

	"github.com/damon-houk/currency-converter/internal/domain/entity"
)

// RateSource defines the interface for fetching a rate table from a remote endpoint
type RateSource interface {
	// FetchRates retrieves the rates relative to the base currency
	FetchRates(ctx context.Context, base string) (*entity.RateSnapshot, error)
}
