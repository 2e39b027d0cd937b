package analysis

import (
	"fmt"
	"testing"
	"time"

	"PriceTrack/internal/domain/models"
)

// valueSeries builds a series with one observation per month starting at
// 2024-01. A nil entry is an observation with a missing value.
func valueSeries(values []*float64) models.Series {
	s := make(models.Series, len(values))
	for i := range values {
		s[i] = models.Observation{
			RefDate: fmt.Sprintf("2024-%02d", i+1),
			Geo:     "Canada",
			Product: "Eggs",
			Value:   values[i],
		}
	}
	return s
}

func TestStreakEmptyAndSingle(t *testing.T) {
	if st := Streak(nil, time.Now()); st != nil {
		t.Fatalf("empty series: expected nil, got %+v", st)
	}
	if st := Streak(valueSeries([]*float64{f(1)}), time.Now()); st != nil {
		t.Fatalf("single point: expected nil, got %+v", st)
	}
}

func TestStreakFullIncrease(t *testing.T) {
	st := Streak(valueSeries([]*float64{f(1), f(2), f(3), f(4)}), time.Now())
	if st == nil {
		t.Fatal("expected streak")
	}
	if st.StreakType != models.StreakIncrease {
		t.Errorf("type = %s, want increase", st.StreakType)
	}
	if st.StreakLength != 4 {
		t.Errorf("length = %d, want 4", st.StreakLength)
	}
	if len(st.Data) != 4 {
		t.Errorf("data points = %d, want 4", len(st.Data))
	}
	if st.Data[0].RefDate != "2024-01" || st.Data[3].RefDate != "2024-04" {
		t.Errorf("data span = %s..%s", st.Data[0].RefDate, st.Data[3].RefDate)
	}
}

func TestStreakHaltsAtSignReversal(t *testing.T) {
	// [1,2,3,2]: the trailing pair is a decrease; the scan halts at the
	// preceding increase, leaving a 2-point decrease run.
	st := Streak(valueSeries([]*float64{f(1), f(2), f(3), f(2)}), time.Now())
	if st == nil {
		t.Fatal("expected streak")
	}
	if st.StreakType != models.StreakDecrease {
		t.Errorf("type = %s, want decrease", st.StreakType)
	}
	if st.StreakLength != 2 {
		t.Errorf("length = %d, want 2", st.StreakLength)
	}
	if len(st.Data) != 2 {
		t.Fatalf("data points = %d, want 2", len(st.Data))
	}
	if st.Data[0].RefDate != "2024-03" || st.Data[1].RefDate != "2024-04" {
		t.Errorf("data span = %s..%s, want 2024-03..2024-04", st.Data[0].RefDate, st.Data[1].RefDate)
	}
}

func TestStreakHaltsAtFlatPair(t *testing.T) {
	// [5,5,6]: 6 vs 5 is an increase, 5 vs 5 is flat and stops the scan.
	st := Streak(valueSeries([]*float64{f(5), f(5), f(6)}), time.Now())
	if st == nil {
		t.Fatal("expected streak")
	}
	if st.StreakType != models.StreakIncrease {
		t.Errorf("type = %s, want increase", st.StreakType)
	}
	if st.StreakLength != 2 {
		t.Errorf("length = %d, want 2", st.StreakLength)
	}
}

func TestStreakFlatLastPair(t *testing.T) {
	st := Streak(valueSeries([]*float64{f(1), f(2), f(2)}), time.Now())
	if st != nil {
		t.Fatalf("flat trailing pair: expected nil, got %+v", st)
	}
}

func TestStreakMissingValueHalts(t *testing.T) {
	// The nil value terminates the scan; it is not skipped over, so only
	// the two trailing observations form the run.
	st := Streak(valueSeries([]*float64{f(1), f(2), nil, f(3), f(4)}), time.Now())
	if st == nil {
		t.Fatal("expected streak")
	}
	if st.StreakLength != 2 {
		t.Errorf("length = %d, want 2", st.StreakLength)
	}
	if st.Data[0].RefDate != "2024-04" {
		t.Errorf("run start = %s, want 2024-04", st.Data[0].RefDate)
	}
}

func TestStreakMissingLastValue(t *testing.T) {
	st := Streak(valueSeries([]*float64{f(1), f(2), nil}), time.Now())
	if st != nil {
		t.Fatalf("missing trailing value: expected nil, got %+v", st)
	}
}

func TestStreakFullDecrease(t *testing.T) {
	st := Streak(valueSeries([]*float64{f(9), f(7), f(5), f(3), f(1)}), time.Now())
	if st == nil {
		t.Fatal("expected streak")
	}
	if st.StreakType != models.StreakDecrease {
		t.Errorf("type = %s, want decrease", st.StreakType)
	}
	if st.StreakLength != 5 {
		t.Errorf("length = %d, want 5", st.StreakLength)
	}
}

func TestStreakCarriesPairIdentity(t *testing.T) {
	st := Streak(valueSeries([]*float64{f(1), f(2)}), time.Now())
	if st == nil {
		t.Fatal("expected streak")
	}
	if st.Geo != "Canada" || st.Product != "Eggs" {
		t.Errorf("pair = (%s, %s), want (Canada, Eggs)", st.Geo, st.Product)
	}
}

func TestStreakDataIncludesMissingValuesNever(t *testing.T) {
	// All points in the covered run carry present values: the run cannot
	// cross a missing value by construction.
	st := Streak(valueSeries([]*float64{nil, f(2), f(3), f(4)}), time.Now())
	if st == nil {
		t.Fatal("expected streak")
	}
	if st.StreakLength != 3 {
		t.Fatalf("length = %d, want 3", st.StreakLength)
	}
	for i, p := range st.Data {
		if p.Value == nil {
			t.Errorf("data[%d] has nil value", i)
		}
	}
}

func TestStreakDeterministic(t *testing.T) {
	s := valueSeries([]*float64{f(1), f(3), f(2), f(4), f(5), f(6)})
	now := time.Now()
	a := Streak(s, now)
	b := Streak(s, now)
	if a == nil || b == nil {
		t.Fatal("expected streaks")
	}
	if a.StreakLength != b.StreakLength || a.StreakType != b.StreakType || len(a.Data) != len(b.Data) {
		t.Fatalf("results differ: %+v vs %+v", a, b)
	}
	for i := range a.Data {
		if a.Data[i].RefDate != b.Data[i].RefDate || *a.Data[i].Value != *b.Data[i].Value {
			t.Fatalf("data[%d] differs", i)
		}
	}
}
