package dashboard

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// NA is shown in place of any unavailable metric.
const NA = "N/A"

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// formatInt rounds v to a whole number with thousands separators.
func formatInt(v float64) string {
	if !finite(v) {
		return NA
	}
	return addCommas(decimal.NewFromFloat(v).Round(0).StringFixed(0))
}

// formatFixed renders v with places decimals and thousands separators.
func formatFixed(v float64, places int32) string {
	if !finite(v) {
		return NA
	}
	return addCommas(decimal.NewFromFloat(v).StringFixed(places))
}

// formatSigned renders v with an explicit sign.
func formatSigned(v float64, places int32) string {
	if !finite(v) {
		return NA
	}
	s := formatFixed(v, places)
	if v >= 0 && !strings.HasPrefix(s, "-") {
		return "+" + s
	}
	return s
}

func formatPercent(fraction float64) string {
	if !finite(fraction) {
		return NA
	}
	return fmt.Sprintf("%.2f%%", fraction*100)
}

// addCommas inserts thousands separators into a plain decimal string.
func addCommas(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	parts := strings.SplitN(s, ".", 2)
	intPart := parts[0]
	n := len(intPart)

	var b strings.Builder
	b.WriteString(sign)
	for i, c := range intPart {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if len(parts) == 2 {
		b.WriteByte('.')
		b.WriteString(parts[1])
	}
	return b.String()
}
