package statement

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount reads a bank-formatted number, tolerating currency symbols and
// grouping separators. "$ 1.234,56" with decimalComma is 1234.56.
func parseAmount(s string, decimalComma bool) (decimal.Decimal, error) {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '-', r == '.', r == ',':
			return r
		}

		return -1
	}, s)

	if decimalComma {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	} else {
		clean = strings.ReplaceAll(clean, ",", "")
	}

	return decimal.NewFromString(clean)
}
