package entity

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateTable(t *testing.T) {
	table := NewRateTable(nil)
	assert.Equal(t, 0, table.Len())

	table.Set("USD", 0.275)
	table.Set("EUR", 0.2347)
	table.Set("USD", 0.28)
	table.Set("NAN", math.NaN())
	table.Set("INF", math.Inf(1))

	assert.Equal(t, 2, table.Len())
	assert.Equal(t, []string{"USD", "EUR"}, table.Codes())
	assert.True(t, table.Has("USD"))
	assert.False(t, table.Has("NAN"))
	assert.False(t, table.Has("INF"))

	rate, ok := table.Get("USD")
	assert.True(t, ok)
	assert.Equal(t, 0.28, rate)

	rate, ok = table.Get("JPY")
	assert.False(t, ok)
	assert.Equal(t, 0.0, rate)

	assert.Equal(t, map[string]float64{"USD": 0.28, "EUR": 0.2347}, table.All())
}

func TestRateTable_MergeRaw(t *testing.T) {
	t.Run("Decoded JSON", func(t *testing.T) {
		var raw map[string]interface{}
		err := json.Unmarshal([]byte(`{"USD": 0.275, "EUR": "0.2347", "GBP": null, "CHF": 1}`), &raw)
		require.NoError(t, err)

		table := NewRateTable(nil)
		table.MergeRaw(raw)

		assert.Equal(t, map[string]float64{"USD": 0.275, "CHF": 1}, table.All())
	})

	t.Run("Decoded JSON with UseNumber", func(t *testing.T) {
		var raw map[string]interface{}
		dec := json.NewDecoder(strings.NewReader(`{"USD": 0.275, "SEK": 2}`))
		dec.UseNumber()
		require.NoError(t, dec.Decode(&raw))

		table := NewRateTable(nil)
		table.MergeRaw(raw)

		assert.Equal(t, map[string]float64{"USD": 0.275, "SEK": 2}, table.All())
	})

	t.Run("Go numeric values", func(t *testing.T) {
		table := NewRateTable(nil)
		table.MergeRaw(map[string]interface{}{
			"A": 1,
			"B": int64(2),
			"C": float32(0.5),
			"D": true,
		})

		assert.Equal(t, map[string]float64{"A": 1, "B": 2, "C": 0.5}, table.All())
	})
}

func TestCurrencies(t *testing.T) {
	currencies := NewCurrencies("USD", "EUR", "USD")
	assert.Equal(t, 2, currencies.Len())
	assert.Equal(t, []string{"USD", "EUR"}, currencies.List())

	currencies.Add("GBP", "CHF")
	assert.True(t, currencies.Has("USD", "GBP"))
	assert.False(t, currencies.Has("USD", "JPY"))
	assert.True(t, currencies.Has())

	currencies.Delete("EUR", "JPY")
	assert.Equal(t, []string{"USD", "GBP", "CHF"}, currencies.List())
	assert.False(t, currencies.Has("EUR"))

	currencies.Clear()
	assert.Equal(t, 0, currencies.Len())
	assert.Empty(t, currencies.List())

	// The set is usable after Clear
	currencies.Add("PLN")
	assert.Equal(t, []string{"PLN"}, currencies.List())
}
