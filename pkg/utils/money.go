package utils

import (
	"strconv"
	"strings"
)

// ParseAmount extracts a numeric value from a free-text cost field such as
// "GHS 1,200,000.50". Thousands separators and any non-numeric prefix or
// suffix are stripped; ok is false when nothing numeric remains.
func ParseAmount(raw string) (float64, bool) {
	s := strings.ReplaceAll(raw, ",", "")
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// SanitizeCost normalizes a submitted cost value to digits and dot only,
// keeping the column loosely typed but summable.
func SanitizeCost(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
