// Package money renders peso amounts the way the storefront shows them.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCOP formats an amount like "$50.000", using a dot as thousands
// separator and a comma before any non-zero cents.
func FormatCOP(amount decimal.Decimal) string {
	amount = amount.Round(2)
	neg := amount.IsNegative()
	if neg {
		amount = amount.Neg()
	}

	whole := amount.Truncate(0)
	cents := amount.Sub(whole).Shift(2).IntPart()

	var b strings.Builder
	if neg {
		b.WriteString("-")
	}
	b.WriteString("$")
	b.WriteString(groupThousands(whole.String()))
	if cents > 0 {
		b.WriteByte(',')
		if cents < 10 {
			b.WriteByte('0')
		}
		b.WriteString(decimal.NewFromInt(cents).String())
	}
	return b.String()
}

func groupThousands(s string) string {
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + len(s)/3)
	rem := len(s) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(s[:rem])
	for i := rem; i < len(s); i += 3 {
		b.WriteByte('.')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
