package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrencyValue(t *testing.T) {
	f := newTestFormatter()
	value := f.NewCurrencyValue(42345255.356, "USD", Options{})

	assert.Equal(t, 42345255.356, value.Value())
	assert.Equal(t, "USD", value.Currency())
	assert.Equal(t, "", value.Locale())
	assert.Equal(t, "42,345,255.36", value.Formatted())
	assert.Equal(t, "$42,345,255.36", value.WithCurrency())
	assert.Equal(t, "$", value.CurrencySymbol())

	minimum, maximum := value.FractionDigits()
	assert.Equal(t, 2, minimum)
	assert.Equal(t, 2, maximum)

	resolved := value.ResolvedOptions()
	assert.Equal(t, "en-US", resolved.Locale)
	assert.Equal(t, 2, *resolved.MinimumFractionDigits)
	assert.Equal(t, 2, *resolved.MaximumFractionDigits)
}

func TestCurrencyValue_AsCurrency(t *testing.T) {
	f := newTestFormatter()
	value := f.NewCurrencyValue(1234.5, "USD", Options{MaximumFractionDigits: Digits(3)})

	// The value itself is unchanged, only the rendering differs
	assert.Equal(t, "1.234,50"+nbsp+"€", value.AsCurrency("EUR", Options{Locale: "de-DE"}))
	assert.Equal(t, "$1,234.50", value.AsCurrency("USD", Options{}))
	assert.Equal(t, "$1,234.5", value.AsCurrency("USD", Options{MinimumFractionDigits: Digits(0)}))
	assert.Equal(t, 1234.5, value.Value())
}

func TestCurrencyValue_OwnOptions(t *testing.T) {
	f := newTestFormatter()
	value := f.NewCurrencyValue(1234.5, "EUR", Options{Locale: "de-DE", MinimumFractionDigits: Digits(1), MaximumFractionDigits: Digits(1)})

	assert.Equal(t, "de-DE", value.Locale())
	assert.Equal(t, "1.234,5", value.Formatted())
	assert.Equal(t, "1.234,5"+nbsp+"€", value.WithCurrency())
	assert.Equal(t, "€", value.CurrencySymbol())
}
