// Package format renders amounts as locale-aware number and currency strings
// and parses such strings back into numbers.
package format

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	// DefaultLocale is used when no locale is configured or detected
	DefaultLocale = "en-US"
	// DefaultMinimumFractionDigits is the default minimum number of fraction digits
	DefaultMinimumFractionDigits = 2
	// DefaultMaximumFractionDigits is the default maximum number of fraction digits
	DefaultMaximumFractionDigits = 2
)

// Defaults are the process-wide formatting settings a Formatter falls back to
type Defaults struct {
	Locale                string
	MinimumFractionDigits int
	MaximumFractionDigits int
}

// DefaultSettings returns en-US with two fraction digits
func DefaultSettings() Defaults {
	return Defaults{
		Locale:                DefaultLocale,
		MinimumFractionDigits: DefaultMinimumFractionDigits,
		MaximumFractionDigits: DefaultMaximumFractionDigits,
	}
}

// Options override the formatter defaults for one call. Zero values mean
// "use the default".
type Options struct {
	Locale                string
	MinimumFractionDigits *int
	MaximumFractionDigits *int
}

// Digits returns a pointer suitable for the fraction digit fields of Options
func Digits(n int) *int {
	return &n
}

// merge returns o with every field set in override replaced
func (o Options) merge(override Options) Options {
	if override.Locale != "" {
		o.Locale = override.Locale
	}
	if override.MinimumFractionDigits != nil {
		o.MinimumFractionDigits = override.MinimumFractionDigits
	}
	if override.MaximumFractionDigits != nil {
		o.MaximumFractionDigits = override.MaximumFractionDigits
	}
	return o
}

// resolved holds the effective settings of one formatting call
type resolved struct {
	tag language.Tag
	min int
	max int
}

// Formatter formats numbers and currency amounts for a locale
type Formatter struct {
	defaults Defaults
	tag      language.Tag
}

// NewFormatter creates a formatter with the given defaults. An unparsable
// locale falls back to DefaultLocale and negative digit counts to two.
func NewFormatter(defaults Defaults) *Formatter {
	tag, err := language.Parse(defaults.Locale)
	if err != nil {
		defaults.Locale = DefaultLocale
		tag = language.MustParse(DefaultLocale)
	}
	if defaults.MinimumFractionDigits < 0 {
		defaults.MinimumFractionDigits = DefaultMinimumFractionDigits
	}
	if defaults.MaximumFractionDigits < 0 {
		defaults.MaximumFractionDigits = DefaultMaximumFractionDigits
	}

	return &Formatter{
		defaults: defaults,
		tag:      tag,
	}
}

// Defaults returns the settings the formatter falls back to
func (f *Formatter) Defaults() Defaults {
	return f.defaults
}

// Format renders value as a locale formatted decimal number. NaN is
// formatted as zero and halfway values round away from zero.
func (f *Formatter) Format(value float64, opts Options) string {
	r := f.resolve(opts)
	p := message.NewPrinter(r.tag)
	return p.Sprint(number.Decimal(roundHalfAway(replaceNaN(value), r.max),
		number.MinFractionDigits(r.min),
		number.MaxFractionDigits(r.max),
	))
}

// FormatAsCurrency renders value in the currency style of the locale when
// code has three characters, and as "{code} {value}" otherwise.
func (f *Formatter) FormatAsCurrency(value float64, code string, opts Options) string {
	if utf8.RuneCountInString(code) != 3 {
		return code + " " + strconv.FormatFloat(value, 'f', -1, 64)
	}

	r := f.resolve(opts)
	p := message.NewPrinter(r.tag)

	value = replaceNaN(value)
	digits := p.Sprint(number.Decimal(roundHalfAway(math.Abs(value), r.max),
		number.MinFractionDigits(r.min),
		number.MaxFractionDigits(r.max),
	))

	sign := ""
	if value < 0 {
		sign = "-"
	}

	symbol := lookupSymbol(p, code, false)
	return sign + placeSymbol(r.tag, symbol, digits)
}

// CurrencySymbol returns the CLDR symbol of code in locale. Codes unknown to
// CLDR are returned upper cased.
func (f *Formatter) CurrencySymbol(code string, narrow bool, locale string) string {
	tag := f.parseLocale(locale)
	return lookupSymbol(message.NewPrinter(tag), code, narrow)
}

// FormatToNumber parses a string produced by Format for locale back into a
// number. The locale separators are derived by formatting reference values.
// NaN is returned when no number can be read.
func (f *Formatter) FormatToNumber(value string, locale string) float64 {
	p := message.NewPrinter(f.parseLocale(locale))

	thousandSeparator := stripNumbers(p.Sprint(number.Decimal(11111)))
	decimalSeparator := stripNumbers(p.Sprint(number.Decimal(1.1)))

	value = strings.ReplaceAll(value, "\u2212", "-")

	if thousandSeparator != "" {
		value = strings.ReplaceAll(value, thousandSeparator, "")
	}
	if decimalSeparator != "" {
		value = strings.Replace(value, decimalSeparator, ".", 1)
	}

	return parseLeadingFloat(value)
}

// resolve merges opts over the formatter defaults
func (f *Formatter) resolve(opts Options) resolved {
	r := resolved{
		tag: f.tag,
		min: f.defaults.MinimumFractionDigits,
		max: f.defaults.MaximumFractionDigits,
	}

	if opts.Locale != "" {
		r.tag = f.parseLocale(opts.Locale)
	}
	if opts.MinimumFractionDigits != nil && *opts.MinimumFractionDigits >= 0 {
		r.min = *opts.MinimumFractionDigits
	}
	if opts.MaximumFractionDigits != nil && *opts.MaximumFractionDigits >= 0 {
		r.max = *opts.MaximumFractionDigits
	}
	if r.max < r.min {
		r.max = r.min
	}

	return r
}

// parseLocale parses a BCP 47 tag, falling back to the default locale
func (f *Formatter) parseLocale(locale string) language.Tag {
	if locale == "" {
		return f.tag
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return f.tag
	}
	return tag
}

var symbolPattern = regexp.MustCompile(`[\p{Nd}.,\s\p{Zs}]`)

// ExtractCurrencySymbol strips digits, separators and spaces from a
// formatted currency string, leaving the symbol.
func ExtractCurrencySymbol(formatted string) string {
	return symbolPattern.ReplaceAllString(formatted, "")
}

var leadingFloat = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

// parseLeadingFloat reads the longest number at the start of s
func parseLeadingFloat(s string) float64 {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	match := leadingFloat.FindString(s)
	if match == "" {
		return math.NaN()
	}

	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// stripNumbers removes every numeric rune from s
func stripNumbers(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsNumber(r) {
			return -1
		}
		return r
	}, s)
}

// roundHalfAway rounds the shortest decimal form of value to places fraction
// digits, ties away from zero
func roundHalfAway(value float64, places int) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return value
	}
	rounded := decimal.NewFromFloat(value).Round(int32(places)).InexactFloat64()
	return math.Copysign(rounded, value)
}

func replaceNaN(value float64) float64 {
	if math.IsNaN(value) {
		return 0
	}
	return value
}

// lookupSymbol resolves the localized symbol of an ISO 4217 code
func lookupSymbol(p *message.Printer, code string, narrow bool) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return strings.ToUpper(code)
	}
	if narrow {
		return p.Sprint(currency.NarrowSymbol(unit))
	}
	return p.Sprint(currency.Symbol(unit))
}
