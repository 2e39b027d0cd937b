package util

import (
	"strconv"
	"time"
)

// ParseRefDate parses a StatCan REF_DATE. The table publishes monthly
// periods as "2006-01"; some vintages carry full dates as "2006-01-02".
// Returns (t, true) if either form parsed.
func ParseRefDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse("2006-01", s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// ValidRefDate reports whether s is a parseable REF_DATE.
func ValidRefDate(s string) bool {
	_, ok := ParseRefDate(s)
	return ok
}

// ParseIntDefault parses string to int or returns default if empty/invalid.
func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}
