package currency

import (
	"fmt"
	"math"
	"strings"
)

// FormatGBP renders an amount as "£1,234" or "£289.50".
func FormatGBP(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	pence := int64(math.Round(amount * 100))
	whole := pence / 100
	frac := pence % 100

	result := "£" + addThousandsSeparator(fmt.Sprintf("%d", whole), ",")
	if frac != 0 {
		result += fmt.Sprintf(".%02d", frac)
	}
	if negative {
		result = "-" + result
	}
	return result
}

func addThousandsSeparator(s string, sep string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
