package usecase

import (
	"context"
	"testing"
	"time"

	"PriceTrack/internal/domain/models"
	domrepo "PriceTrack/internal/domain/repository"
	applogger "PriceTrack/pkg/logger"
	"PriceTrack/pkg/util"
)

func f(v float64) *float64 { return &v }

func obs(geo, product, refDate string, v *float64) models.Observation {
	return models.Observation{RefDate: refDate, Geo: geo, Product: product, Value: v}
}

type fakeObservationStore struct {
	series map[string]models.Series
}

func (s *fakeObservationStore) DistinctGeographies(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, ser := range s.series {
		for _, o := range ser {
			if !seen[o.Geo] {
				seen[o.Geo] = true
				out = append(out, o.Geo)
			}
		}
	}
	return out, nil
}

func (s *fakeObservationStore) DistinctProducts(ctx context.Context, geo string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, ser := range s.series {
		for _, o := range ser {
			if o.Geo == geo && !seen[o.Product] {
				seen[o.Product] = true
				out = append(out, o.Product)
			}
		}
	}
	return out, nil
}

func (s *fakeObservationStore) SeriesFor(ctx context.Context, geo, product string) (models.Series, error) {
	return s.series[util.PairKey(geo, product)], nil
}

func (s *fakeObservationStore) BulkUpsert(ctx context.Context, obs []models.Observation) (domrepo.UpsertStats, error) {
	return domrepo.UpsertStats{Read: len(obs), Upserted: len(obs)}, nil
}

func (s *fakeObservationStore) EnsureIndexes(ctx context.Context) error { return nil }
func (s *fakeObservationStore) Health(ctx context.Context) error       { return nil }

type fakeDerivedStore struct {
	changes map[string]*models.PriceChange
	streaks map[string]*models.PriceStreak
	deletes []string
}

func newFakeDerivedStore() *fakeDerivedStore {
	return &fakeDerivedStore{
		changes: map[string]*models.PriceChange{},
		streaks: map[string]*models.PriceStreak{},
	}
}

func (s *fakeDerivedStore) UpsertChange(ctx context.Context, c *models.PriceChange) error {
	s.changes[util.PairKey(c.Geo, c.Product)] = c
	return nil
}

func (s *fakeDerivedStore) UpsertStreak(ctx context.Context, st *models.PriceStreak) error {
	s.streaks[util.PairKey(st.Geo, st.Product)] = st
	return nil
}

func (s *fakeDerivedStore) DeleteStreak(ctx context.Context, geo, product string) error {
	key := util.PairKey(geo, product)
	delete(s.streaks, key)
	s.deletes = append(s.deletes, key)
	return nil
}

func (s *fakeDerivedStore) ChangesFor(ctx context.Context, geo, product string, limit int) ([]models.PriceChange, error) {
	return nil, nil
}

func (s *fakeDerivedStore) StreaksFor(ctx context.Context, geo, product, streakType string, limit int) ([]models.PriceStreak, error) {
	return nil, nil
}

type fakeMetrics struct {
	skippedReasons []string
	failed         int
}

func (m *fakeMetrics) RecordPairProcessed(geo string) {}
func (m *fakeMetrics) RecordPairSkipped(reason string) {
	m.skippedReasons = append(m.skippedReasons, reason)
}
func (m *fakeMetrics) RecordPairFailed(geo string)                           { m.failed++ }
func (m *fakeMetrics) RecordRecordsUpserted(n int)                           {}
func (m *fakeMetrics) RecordChangePercent(geo, product string, pct float64)  {}
func (m *fakeMetrics) RecordLatency(op string, seconds float64)              {}

type fakePublisher struct {
	changes     int
	streaks     int
	retractions int
}

func (p *fakePublisher) PublishChange(ctx context.Context, c *models.PriceChange) error {
	p.changes++
	return nil
}

func (p *fakePublisher) PublishStreak(ctx context.Context, s *models.PriceStreak) error {
	p.streaks++
	return nil
}

func (p *fakePublisher) PublishStreakRetraction(ctx context.Context, geo, product string) error {
	p.retractions++
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func newTestRecalculator(t *testing.T, store *fakeObservationStore) (*Recalculator, *fakeDerivedStore, *fakeMetrics, *fakePublisher) {
	t.Helper()
	derived := newFakeDerivedStore()
	metrics := &fakeMetrics{}
	pub := &fakePublisher{}
	r := NewRecalculator(store, derived, pub, metrics, nil, testLogger(t))
	r.now = func() time.Time { return time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC) }
	return r, derived, metrics, pub
}

func TestRunDerivesChangeAndStreak(t *testing.T) {
	store := &fakeObservationStore{series: map[string]models.Series{
		util.PairKey("Canada", "Apples"): {
			obs("Canada", "Apples", "2024-01", f(1)),
			obs("Canada", "Apples", "2024-02", f(2)),
			obs("Canada", "Apples", "2024-03", f(3)),
		},
	}}
	r, derived, _, pub := newTestRecalculator(t, store)

	sum, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if sum.PairsProcessed != 1 || sum.ChangesUpserted != 1 || sum.StreaksUpserted != 1 {
		t.Errorf("summary = %+v", sum)
	}

	key := util.PairKey("Canada", "Apples")
	change := derived.changes[key]
	if change == nil {
		t.Fatal("change not stored")
	}
	if change.CurrentPrice != 3 || change.PreviousPrice != 2 || change.ChangePercent != 50 {
		t.Errorf("change = %+v", change)
	}

	streak := derived.streaks[key]
	if streak == nil {
		t.Fatal("streak not stored")
	}
	if streak.StreakLength != 3 || streak.StreakType != models.StreakIncrease {
		t.Errorf("streak = %+v", streak)
	}

	if pub.changes != 1 || pub.streaks != 1 || pub.retractions != 0 {
		t.Errorf("published %d changes, %d streaks, %d retractions", pub.changes, pub.streaks, pub.retractions)
	}
}

func TestRunRetractsDeadStreak(t *testing.T) {
	key := util.PairKey("Canada", "Bread")
	store := &fakeObservationStore{series: map[string]models.Series{
		key: {
			obs("Canada", "Bread", "2024-01", f(2)),
			obs("Canada", "Bread", "2024-02", f(3)),
			obs("Canada", "Bread", "2024-03", f(3)),
		},
	}}
	r, derived, _, pub := newTestRecalculator(t, store)
	derived.streaks[key] = &models.PriceStreak{Geo: "Canada", Product: "Bread"}

	sum, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if _, ok := derived.streaks[key]; ok {
		t.Error("stale streak should have been deleted")
	}
	if sum.StreaksRetracted != 1 || pub.retractions != 1 {
		t.Errorf("retracted = %d, published retractions = %d", sum.StreaksRetracted, pub.retractions)
	}
	// the flat tail blocks the streak but not the change; 3 -> 3 is a
	// valid zero change
	if sum.ChangesUpserted != 1 {
		t.Errorf("changes upserted = %d, want 1", sum.ChangesUpserted)
	}
}

func TestRunSkipsShortSeries(t *testing.T) {
	key := util.PairKey("Canada", "Eggs")
	store := &fakeObservationStore{series: map[string]models.Series{
		key: {obs("Canada", "Eggs", "2024-01", f(5))},
	}}
	r, derived, metrics, _ := newTestRecalculator(t, store)
	derived.streaks[key] = &models.PriceStreak{Geo: "Canada", Product: "Eggs"}

	sum, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if sum.PairsSkipped != 1 {
		t.Errorf("skipped = %d, want 1", sum.PairsSkipped)
	}
	if len(metrics.skippedReasons) != 1 || metrics.skippedReasons[0] != "insufficient_data" {
		t.Errorf("skip reasons = %v", metrics.skippedReasons)
	}
	// a one-point series cannot hold a streak either
	if _, ok := derived.streaks[key]; ok {
		t.Error("streak for short series should have been retracted")
	}
}

func TestRunSkipsMissingLatestValue(t *testing.T) {
	store := &fakeObservationStore{series: map[string]models.Series{
		util.PairKey("Canada", "Milk"): {
			obs("Canada", "Milk", "2024-01", f(4)),
			obs("Canada", "Milk", "2024-02", nil),
		},
	}}
	r, derived, metrics, _ := newTestRecalculator(t, store)

	sum, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if sum.PairsSkipped != 1 || sum.ChangesUpserted != 0 {
		t.Errorf("summary = %+v", sum)
	}
	if len(metrics.skippedReasons) != 1 || metrics.skippedReasons[0] != "invalid_price_data" {
		t.Errorf("skip reasons = %v", metrics.skippedReasons)
	}
	if len(derived.changes) != 0 {
		t.Error("no change should be stored for a missing latest value")
	}
}

func TestRunStreakIndependentOfChangeFailure(t *testing.T) {
	// a zero previous price blocks the change, but the trailing 0 -> 1
	// rise still carries a streak
	key := util.PairKey("Canada", "Butter")
	store := &fakeObservationStore{series: map[string]models.Series{
		key: {
			obs("Canada", "Butter", "2024-01", f(1)),
			obs("Canada", "Butter", "2024-02", f(2)),
			obs("Canada", "Butter", "2024-03", f(0)),
			obs("Canada", "Butter", "2024-04", f(1)),
		},
	}}
	r, derived, _, _ := newTestRecalculator(t, store)

	sum, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if sum.ChangesUpserted != 0 {
		t.Errorf("changes upserted = %d, want 0 (zero previous price)", sum.ChangesUpserted)
	}
	streak := derived.streaks[key]
	if streak == nil {
		t.Fatal("streak should still be derived when the change is skipped")
	}
	if streak.StreakType != models.StreakIncrease || streak.StreakLength != 2 {
		t.Errorf("streak = %+v, want length-2 increase", streak)
	}
}
