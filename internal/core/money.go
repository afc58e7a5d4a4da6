package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount reads a won amount typed by a user.
//
// Thousands separators, the won sign and surrounding spaces are ignored.
// Negative and malformed values are rejected; zero is returned as is so the
// validator can report it as a missing price.
//
// Examples:
//
//	ParseAmount("4000")   -> 4000
//	ParseAmount("₩4,000") -> 4000
//	ParseAmount("12.5")   -> 12.5
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "₩")
	s = strings.TrimSuffix(s, "원")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatWon renders an amount rounded to whole won with thousands separators.
func FormatWon(d decimal.Decimal) string {
	s := d.Round(0).StringFixed(0)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-₩" + b.String()
	}
	return "₩" + b.String()
}

// FormatPercent renders a percentage with one decimal place, e.g. "57.1%".
func FormatPercent(d decimal.Decimal) string {
	return d.StringFixed(1) + "%"
}
