package rowmap

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var currencySuffix = regexp.MustCompile(`\s*(KN|KUNA|HRK|EUR|USD)\s*$`)

// ParsePrice parses a price string into a decimal amount.
// Handles various formats: "12.99", "12,99", "1.299,00", "1 299,00 EUR"
func ParsePrice(value string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty price value")
	}

	// Remove currency symbols and space-like thousands separators
	cleaned = strings.Map(func(r rune) rune {
		switch r {
		case '€', '$', '£', '¥', ' ', '\u00A0', '\u202F':
			return -1
		}
		return r
	}, strings.ToUpper(cleaned))
	cleaned = currencySuffix.ReplaceAllString(cleaned, "")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("no numeric value found")
	}

	// Whichever separator comes last is the decimal separator
	lastDot := strings.LastIndex(cleaned, ".")
	lastComma := strings.LastIndex(cleaned, ",")
	switch {
	case lastComma > lastDot:
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	case lastDot > lastComma:
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price format %q: %w", value, err)
	}
	return d, nil
}
