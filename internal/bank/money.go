package bank

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseAmount converts a decimal major-unit string such as "12.34" into
// minor units (1234). At most two fraction digits are accepted; anything
// else is rejected rather than silently rounded.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("amount is empty")
	}

	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}

	whole, frac, dotted := strings.Cut(s, ".")
	if whole == "" || (dotted && frac == "") {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	major, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}

	var cents int64
	switch len(frac) {
	case 0:
	case 1, 2:
		f, err := strconv.ParseInt(frac, 10, 64)
		if err != nil || f < 0 {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
		cents = f
		if len(frac) == 1 {
			cents *= 10
		}
	default:
		return 0, fmt.Errorf("invalid amount %q: more than two fraction digits", s)
	}

	if major > (math.MaxInt64-cents)/100 {
		return 0, fmt.Errorf("amount %q out of range", s)
	}

	minor := major*100 + cents
	if neg {
		minor = -minor
	}
	return minor, nil
}

// FormatAmount renders minor units as a major-unit decimal string ("7.00").
// Integer arithmetic keeps the rendering exact for the full int64 range.
func FormatAmount(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}
