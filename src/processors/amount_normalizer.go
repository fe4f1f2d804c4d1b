package processors

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var parenthesizedRe = regexp.MustCompile(`\(([^)]+)\)`)

// NormalizeCurrency turns a display-formatted amount such as "$1,234.56" or
// "($500.00)" into a plain numeric string ("1234.56", "-500.00").
// Applying it twice yields the same result as applying it once.
func NormalizeCurrency(s string) string {
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	return parenthesizedRe.ReplaceAllString(s, "-$1")
}

// ParseNullDecimal parses s into a decimal. Blank or malformed input yields
// an invalid NullDecimal.
func ParseNullDecimal(s string) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// ParseCurrency normalizes s and parses the result.
func ParseCurrency(s string) decimal.NullDecimal {
	return ParseNullDecimal(NormalizeCurrency(s))
}
