package render

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParsePrice parses a catalog price written in the fixed locale grammar:
// '.' as thousands separator, ',' as decimal separator ("1.234,56" is
// 1234.56). A leading '$' and surrounding spaces are tolerated. Anything
// unparseable yields zero; a bad price never fails a response.
func ParsePrice(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatMoney renders a value as currency with ',' thousands separators and
// two decimals, e.g. "$1,250.50".
func FormatMoney(d decimal.Decimal) string {
	fixed := d.StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	intPart := fixed[:len(fixed)-3]
	fracPart := fixed[len(fixed)-3:]

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	return sign + "$" + strings.Join(groups, ",") + fracPart
}
