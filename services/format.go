package services

import (
	"fmt"
	"strings"
)

// FormatBRL formats an amount into Brazilian Real notation: thousands
// separated by dots, decimal comma, always two decimal places
// (e.g. R$1.234.567,89).
func FormatBRL(amount float64) string {
	negative := false
	if amount < 0 {
		negative = true
		amount = -amount
	}

	raw := fmt.Sprintf("%.2f", amount)

	parts := strings.SplitN(raw, ".", 2)
	intPart := parts[0]
	decPart := parts[1]

	result := "R$" + groupThousands(intPart) + "," + decPart
	if negative {
		result = "-" + result
	}
	return result
}

// groupThousands inserts dots every three digits from the right.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	remaining := s[:n-3]
	for len(remaining) > 3 {
		result = remaining[len(remaining)-3:] + "." + result
		remaining = remaining[:len(remaining)-3]
	}
	return remaining + "." + result
}

// FormatQuantity renders a quantity without trailing decimal noise:
// integral values print without a fraction, others with two places.
func FormatQuantity(qty float64) string {
	if qty == float64(int64(qty)) {
		return fmt.Sprintf("%d", int64(qty))
	}
	return strings.ReplaceAll(fmt.Sprintf("%.2f", qty), ".", ",")
}
