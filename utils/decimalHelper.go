package utils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseDecimal accepts common user-formatted monetary strings like:
// - "20,000"
// - "USD 1,250.50"
// - "SLSH -20,000"
// - "Sh 20000"
//
// Keep digits, '.', and a leading '-' only.
func ParseDecimal(v string) (decimal.Decimal, error) {
	s := strings.TrimSpace(v)
	if s != "" {
		s = strings.ReplaceAll(s, ",", "")
		for _, prefix := range []string{"USD", "usd", "SLSH", "slsh", "Sh", "sh"} {
			s = strings.ReplaceAll(s, prefix, "")
		}
		s = strings.TrimSpace(s)
	}
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = strings.TrimSpace(strings.TrimPrefix(s, "-"))
	}
	// Strip everything except digits and '.'.
	var b strings.Builder
	b.Grow(len(s) + 1)
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	clean := b.String()
	if clean == "" {
		return decimal.NewFromInt(0), fmt.Errorf("invalid value")
	}
	if neg {
		clean = "-" + clean
	}

	val, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.NewFromInt(0), err
	}
	return val, nil
}

// MoneyRound rounds to the currency's decimal precision. Only used at the
// final output step; intermediate sums stay unrounded.
func MoneyRound(d decimal.Decimal, decimalPlaces int32) decimal.Decimal {
	if decimalPlaces <= 0 {
		decimalPlaces = 2
	}
	return d.Round(decimalPlaces)
}
