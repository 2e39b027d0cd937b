package util

import (
	"strconv"
	"strings"
)

// PairKey builds the canonical "geo|product" key used for Kafka message
// keys and cache entries.
func PairKey(geo, product string) string {
	return geo + "|" + product
}

// ParseFloat64Ptr parses a numeric string to *float64; an empty or
// unparseable string yields nil (a missing observation value).
func ParseFloat64Ptr(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
