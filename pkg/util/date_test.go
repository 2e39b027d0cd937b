package util

import (
	"testing"
	"time"
)

func TestParseRefDateMonthly(t *testing.T) {
	got, ok := ParseRefDate("2024-03")
	if !ok {
		t.Fatalf("expected ok")
	}
	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseRefDateFull(t *testing.T) {
	got, ok := ParseRefDate("2024-03-15")
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Day() != 15 {
		t.Fatalf("unexpected day %d", got.Day())
	}
}

func TestParseRefDateInvalid(t *testing.T) {
	for _, s := range []string{"", "2024", "03-2024", "garbage"} {
		if _, ok := ParseRefDate(s); ok {
			t.Errorf("expected failure for %q", s)
		}
	}
}

func TestParseIntDefault(t *testing.T) {
	if got := ParseIntDefault("", 7); got != 7 {
		t.Fatalf("expected default, got %d", got)
	}
	if got := ParseIntDefault("42", 7); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	if got := ParseIntDefault("x", 7); got != 7 {
		t.Fatalf("expected default for invalid, got %d", got)
	}
}

func TestParseFloat64Ptr(t *testing.T) {
	if v := ParseFloat64Ptr("4.53"); v == nil || *v != 4.53 {
		t.Fatalf("unexpected %v", v)
	}
	if v := ParseFloat64Ptr(" 4.53 "); v == nil || *v != 4.53 {
		t.Fatalf("expected trimmed parse, got %v", v)
	}
	if v := ParseFloat64Ptr(""); v != nil {
		t.Fatalf("expected nil for empty, got %v", *v)
	}
	if v := ParseFloat64Ptr("n/a"); v != nil {
		t.Fatalf("expected nil for invalid, got %v", *v)
	}
}

func TestPairKey(t *testing.T) {
	if got := PairKey("Canada", "Eggs, dozen"); got != "Canada|Eggs, dozen" {
		t.Fatalf("unexpected key %q", got)
	}
}
