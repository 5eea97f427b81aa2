package match

import (
	"strings"
	"unicode"
)

// NormalizeIdent folds an identifier to lower case and drops separators, so
// "OrderID", "order_id", "order-id" and "orderId" all normalise to "orderid".
func NormalizeIdent(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		if isSeparator(r) {
			continue
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == '.'
}
