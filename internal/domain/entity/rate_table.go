// Package entity internal/domain/entity/rate_table.go
package entity

import (
	"math"
)

// RateTable maps currency codes to rates relative to one implicit base currency
type RateTable struct {
	rates map[string]float64
	order []string
}

// NewRateTable creates a rate table populated with the given rates
func NewRateTable(rates map[string]float64) *RateTable {
	t := &RateTable{
		rates: make(map[string]float64, len(rates)),
	}
	t.Merge(rates)
	return t
}

// Set inserts or overwrites a rate. Non-finite rates are ignored.
func (t *RateTable) Set(code string, rate float64) {
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return
	}

	if _, exists := t.rates[code]; !exists {
		t.order = append(t.order, code)
	}
	t.rates[code] = rate
}

// Get returns the rate for a currency and whether it was found
func (t *RateTable) Get(code string) (float64, bool) {
	rate, ok := t.rates[code]
	return rate, ok
}

// Has reports whether the table holds a rate for the currency
func (t *RateTable) Has(code string) bool {
	_, ok := t.rates[code]
	return ok
}

// All returns a snapshot of every currency to rate pair
func (t *RateTable) All() map[string]float64 {
	snapshot := make(map[string]float64, len(t.rates))
	for code, rate := range t.rates {
		snapshot[code] = rate
	}
	return snapshot
}

// Codes returns the currency codes in insertion order
func (t *RateTable) Codes() []string {
	codes := make([]string, len(t.order))
	copy(codes, t.order)
	return codes
}

// Len returns the number of rates in the table
func (t *RateTable) Len() int {
	return len(t.rates)
}

// Merge sets every entry of rates, skipping non-finite values
func (t *RateTable) Merge(rates map[string]float64) {
	for code, rate := range rates {
		t.Set(code, rate)
	}
}

// MergeRaw merges a decoded JSON object. Values that are not numbers are skipped.
func (t *RateTable) MergeRaw(rates map[string]interface{}) {
	for code, value := range rates {
		rate, ok := toRate(value)
		if !ok {
			continue
		}
		t.Set(code, rate)
	}
}

// toRate accepts the numeric types a JSON decoder or a caller may produce
func toRate(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case interface{ Float64() (float64, error) }:
		// json.Number when the decoder runs with UseNumber
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
