package entity

import (
	"math"
)

// Conversion converts an amount expressed in a base currency to and from
// the currencies of its rate table.
//
// A Conversion is not safe for concurrent use.
type Conversion struct {
	amount   float64
	currency string
	rates    *RateTable
}

// NewConversion creates a conversion for amount in currency. The conversion
// owns a fresh rate table built from rates, which may be nil.
func NewConversion(amount float64, currency string, rates map[string]float64) *Conversion {
	return &Conversion{
		amount:   amount,
		currency: currency,
		rates:    NewRateTable(rates),
	}
}

// Amount returns the stored amount
func (c *Conversion) Amount() float64 {
	return c.amount
}

// Currency returns the base currency
func (c *Conversion) Currency() string {
	return c.currency
}

// Currencies returns the codes present in the rate table
func (c *Conversion) Currencies() []string {
	return c.rates.Codes()
}

// SetAmount replaces the stored amount. The value is not validated.
func (c *Conversion) SetAmount(amount float64) *Conversion {
	c.amount = amount
	return c
}

// To converts the stored amount to currency
func (c *Conversion) To(currency string) float64 {
	return c.ToAmount(currency, c.amount)
}

// ToAmount converts amount of the base currency to currency. An unknown
// currency converts with a rate of 1, returning amount unchanged.
func (c *Conversion) ToAmount(currency string, amount float64) float64 {
	rate, ok := c.rates.Get(currency)
	if !ok {
		return amount * 1
	}
	return amount * rate
}

// From converts the stored amount from currency to the base currency
func (c *Conversion) From(currency string) float64 {
	return c.FromAmount(currency, c.amount)
}

// FromAmount converts amount of currency to the base currency. An unknown
// currency yields NaN; unlike ToAmount there is no identity fallback.
func (c *Conversion) FromAmount(currency string, amount float64) float64 {
	rate, ok := c.rates.Get(currency)
	if !ok {
		return math.NaN()
	}
	return amount / rate
}

// ToMany converts the stored amount to each of currencies
func (c *Conversion) ToMany(currencies []string) map[string]float64 {
	return c.ToManyAmount(currencies, c.amount)
}

// ToManyAmount converts amount to each of currencies, keyed by currency
func (c *Conversion) ToManyAmount(currencies []string, amount float64) map[string]float64 {
	result := make(map[string]float64, len(currencies))
	for _, currency := range currencies {
		result[currency] = c.ToAmount(currency, amount)
	}
	return result
}

// FromMany converts the stored amount from each of currencies
func (c *Conversion) FromMany(currencies []string) map[string]float64 {
	return c.FromManyAmount(currencies, c.amount)
}

// FromManyAmount converts amount from each of currencies, keyed by currency
func (c *Conversion) FromManyAmount(currencies []string, amount float64) map[string]float64 {
	result := make(map[string]float64, len(currencies))
	for _, currency := range currencies {
		result[currency] = c.FromAmount(currency, amount)
	}
	return result
}

// ConversionRates returns a snapshot of the rate table
func (c *Conversion) ConversionRates() map[string]float64 {
	return c.rates.All()
}

// SetConversionRates merges rates into the table, overwriting existing codes
func (c *Conversion) SetConversionRates(rates map[string]float64) *Conversion {
	c.rates.Merge(rates)
	return c
}

// SetRawConversionRates merges a decoded JSON rates object into the table
func (c *Conversion) SetRawConversionRates(rates map[string]interface{}) *Conversion {
	c.rates.MergeRaw(rates)
	return c
}
