package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount for display with the currency symbol,
// grouped thousands, and two fraction digits, e.g. "$1,234.50". Rounding
// happens only here; the calculator keeps exact values.
func FormatMoney(amount decimal.Decimal, symbol string) string {
	fixed := amount.StringFixed(2)

	negative := strings.HasPrefix(fixed, "-")
	if negative {
		fixed = fixed[1:]
	}

	whole, frac, _ := strings.Cut(fixed, ".")
	grouped := groupThousands(whole)

	var b strings.Builder
	if negative {
		b.WriteString("-")
	}
	b.WriteString(symbol)
	b.WriteString(grouped)
	b.WriteString(".")
	b.WriteString(frac)
	return b.String()
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}

	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteString(",")
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
