package utils

import (
	"strings"
	"time"
)

// ParseDuration safely parses a duration string like "30s", falling back on error.
func ParseDuration(d string, fallback time.Duration) time.Duration {
	if d == "" {
		return fallback
	}
	duration, err := time.ParseDuration(d)
	if err != nil || duration <= 0 {
		return fallback
	}
	return duration
}

// ParseInt reads a leading integer from s the lenient way spreadsheets export it:
// surrounding whitespace is ignored, an optional sign is accepted and anything
// after the leading digits is discarded ("2020 " -> 2020, "12.5" -> 12).
// ok is false when s has no leading digits.
func ParseInt(s string) (n int, ok bool) {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	digits := 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		// saturate instead of wrapping on absurdly long digit runs
		if n < (1<<62)/10 {
			n = n*10 + int(s[digits]-'0')
		}
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}
