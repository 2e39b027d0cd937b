package analysis

import (
	"errors"
	"testing"
	"time"

	"PriceTrack/internal/domain/models"
)

func f(v float64) *float64 { return &v }

func series(geo, product string, dates []string, values []*float64) models.Series {
	s := make(models.Series, len(dates))
	for i := range dates {
		s[i] = models.Observation{
			RefDate: dates[i],
			Geo:     geo,
			Product: product,
			Value:   values[i],
		}
	}
	return s
}

func TestChangeEmpty(t *testing.T) {
	_, err := Change(nil, time.Now())
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestChangeSinglePoint(t *testing.T) {
	s := series("Canada", "Eggs", []string{"2024-01"}, []*float64{f(4.50)})
	_, err := Change(s, time.Now())
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestChangeExact(t *testing.T) {
	s := series("Canada", "Eggs",
		[]string{"2024-01", "2024-02"},
		[]*float64{f(100), f(110)},
	)
	now := time.Now()
	c, err := Change(s, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Change != 10 {
		t.Errorf("change = %v, want 10", c.Change)
	}
	if c.ChangePercent != 10.0 {
		t.Errorf("changePercent = %v, want 10.0", c.ChangePercent)
	}
	if c.CurrentPrice != 110 || c.PreviousPrice != 100 {
		t.Errorf("prices = %v/%v, want 110/100", c.CurrentPrice, c.PreviousPrice)
	}
	if c.CurrentDate != "2024-02" || c.PreviousDate != "2024-01" {
		t.Errorf("dates = %s/%s", c.CurrentDate, c.PreviousDate)
	}
	if !c.LastUpdated.Equal(now) {
		t.Errorf("lastUpdated = %v, want %v", c.LastUpdated, now)
	}
}

func TestChangeNegative(t *testing.T) {
	s := series("Ontario", "Milk",
		[]string{"2024-01", "2024-02"},
		[]*float64{f(4.00), f(3.50)},
	)
	c, err := Change(s, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Change != -0.5 {
		t.Errorf("change = %v, want -0.5", c.Change)
	}
	if c.ChangePercent != -12.5 {
		t.Errorf("changePercent = %v, want -12.5", c.ChangePercent)
	}
}

func TestChangeMissingCurrentValue(t *testing.T) {
	s := series("Canada", "Eggs",
		[]string{"2024-01", "2024-02"},
		[]*float64{f(100), nil},
	)
	_, err := Change(s, time.Now())
	if !errors.Is(err, ErrInvalidPriceData) {
		t.Fatalf("expected ErrInvalidPriceData, got %v", err)
	}
}

func TestChangeMissingPreviousValue(t *testing.T) {
	s := series("Canada", "Eggs",
		[]string{"2024-01", "2024-02"},
		[]*float64{nil, f(110)},
	)
	_, err := Change(s, time.Now())
	if !errors.Is(err, ErrInvalidPriceData) {
		t.Fatalf("expected ErrInvalidPriceData, got %v", err)
	}
}

func TestChangeZeroPrevious(t *testing.T) {
	s := series("Canada", "Eggs",
		[]string{"2024-01", "2024-02"},
		[]*float64{f(0), f(110)},
	)
	_, err := Change(s, time.Now())
	if !errors.Is(err, ErrInvalidPriceData) {
		t.Fatalf("expected ErrInvalidPriceData, got %v", err)
	}
}

func TestChangeUsesLastTwoArrayEntries(t *testing.T) {
	// A gap between 2024-02 and 2024-06 must not matter: the engine
	// compares array neighbors, not calendar neighbors.
	s := series("Canada", "Eggs",
		[]string{"2024-01", "2024-02", "2024-06"},
		[]*float64{f(90), f(100), f(120)},
	)
	c, err := Change(s, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.PreviousDate != "2024-02" || c.CurrentDate != "2024-06" {
		t.Errorf("dates = %s/%s, want 2024-02/2024-06", c.PreviousDate, c.CurrentDate)
	}
	if c.Change != 20 {
		t.Errorf("change = %v, want 20", c.Change)
	}
}

func TestChangeDeterministic(t *testing.T) {
	s := series("Canada", "Eggs",
		[]string{"2024-01", "2024-02", "2024-03"},
		[]*float64{f(1.11), f(2.22), f(3.33)},
	)
	now := time.Now()
	a, err := Change(s, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Change(s, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *a != *b {
		t.Fatalf("results differ: %+v vs %+v", a, b)
	}
}
