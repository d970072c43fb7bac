package format

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/language"
)

const nbsp = "\u00a0"

type placement int

const (
	symbolBefore placement = iota
	symbolBeforeSpaced
	symbolAfterSpaced
)

// Languages whose CLDR currency pattern is "#,##0.00 ¤"
var symbolAfter = map[string]bool{
	"bg": true, "cs": true, "da": true, "de": true, "el": true, "es": true,
	"et": true, "fi": true, "fr": true, "hr": true, "hu": true, "it": true,
	"lt": true, "lv": true, "nb": true, "no": true, "pl": true, "pt": true,
	"ro": true, "ru": true, "sk": true, "sl": true, "sr": true, "sv": true,
	"uk": true,
}

// Locales that put the symbol first, separated by a space
var symbolBeforeSpace = map[string]bool{
	"nl": true, "de-AT": true, "de-CH": true, "pt-BR": true,
}

// placementFor picks the symbol position for a locale
func placementFor(tag language.Tag) placement {
	base, _ := tag.Base()
	region, _ := tag.Region()

	if symbolBeforeSpace[base.String()+"-"+region.String()] || symbolBeforeSpace[base.String()] {
		return symbolBeforeSpaced
	}
	if symbolAfter[base.String()] {
		return symbolAfterSpaced
	}
	return symbolBefore
}

// placeSymbol joins the symbol and the formatted digits for a locale.
// Alphabetic symbols written before the digits are separated by a space,
// so "$1.00" but "PLN 1.00".
func placeSymbol(tag language.Tag, symbol, digits string) string {
	switch placementFor(tag) {
	case symbolAfterSpaced:
		return digits + nbsp + symbol
	case symbolBeforeSpaced:
		return symbol + nbsp + digits
	}

	last, _ := utf8.DecodeLastRuneInString(symbol)
	if unicode.IsLetter(last) {
		return symbol + nbsp + digits
	}
	return symbol + digits
}
