package format

// CurrencyValue is an immutable number paired with a currency code and
// display options
type CurrencyValue struct {
	value     float64
	currency  string
	options   Options
	formatter *Formatter
}

// NewCurrencyValue creates a value formatted with f. Fields left unset in
// opts resolve to the formatter defaults.
func (f *Formatter) NewCurrencyValue(value float64, currency string, opts Options) *CurrencyValue {
	return &CurrencyValue{
		value:     value,
		currency:  currency,
		options:   opts,
		formatter: f,
	}
}

// Value returns the underlying number
func (v *CurrencyValue) Value() float64 {
	return v.value
}

// Currency returns the currency code
func (v *CurrencyValue) Currency() string {
	return v.currency
}

// Locale returns the locale given at construction, empty when defaulted
func (v *CurrencyValue) Locale() string {
	return v.options.Locale
}

// FractionDigits returns the effective minimum and maximum fraction digits
func (v *CurrencyValue) FractionDigits() (minimum, maximum int) {
	r := v.formatter.resolve(v.options)
	return r.min, r.max
}

// ResolvedOptions returns the options with every field filled in
func (v *CurrencyValue) ResolvedOptions() Options {
	r := v.formatter.resolve(v.options)
	return Options{
		Locale:                r.tag.String(),
		MinimumFractionDigits: Digits(r.min),
		MaximumFractionDigits: Digits(r.max),
	}
}

// Formatted renders the value as a plain locale formatted number
func (v *CurrencyValue) Formatted() string {
	return v.formatter.Format(v.value, v.options)
}

// WithCurrency renders the value in its own currency
func (v *CurrencyValue) WithCurrency() string {
	return v.formatter.FormatAsCurrency(v.value, v.currency, v.options)
}

// AsCurrency renders the value in another currency, without converting it.
// Fields set in opts override the value's own options.
func (v *CurrencyValue) AsCurrency(currency string, opts Options) string {
	return v.formatter.FormatAsCurrency(v.value, currency, v.options.merge(opts))
}

// CurrencySymbol returns the symbol found in WithCurrency
func (v *CurrencyValue) CurrencySymbol() string {
	return ExtractCurrencySymbol(v.WithCurrency())
}
