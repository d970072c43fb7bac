package entity

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseRates parses "USD:0.275,EUR:0.2347" style lists, using sep between
// code and rate. An empty string yields an empty map.
func ParseRates(raw, sep string) (map[string]float64, error) {
	rates := make(map[string]float64)
	for _, pair := range SplitList(raw) {
		code, value, ok := strings.Cut(pair, sep)
		code = strings.TrimSpace(code)
		if !ok || code == "" {
			return nil, fmt.Errorf("rate %q must look like CODE%s1.23", pair, sep)
		}
		rate, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || math.IsNaN(rate) || math.IsInf(rate, 0) {
			return nil, fmt.Errorf("rate for %s must be a finite number, got %q", code, value)
		}
		rates[code] = rate
	}
	return rates, nil
}

// SplitList splits a comma separated list, trimming items and dropping empty ones
func SplitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
