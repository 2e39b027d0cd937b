package repository

import (
	"context"

	"PriceTrack/internal/domain/models"
)

// UpsertStats summarizes a bulk write into the observation store.
type UpsertStats struct {
	Read     int
	Upserted int
	Skipped  int
}

// ObservationStore is the query and bulk-load boundary over the raw
// price observations collection.
type ObservationStore interface {
	DistinctGeographies(ctx context.Context) ([]string, error)
	DistinctProducts(ctx context.Context, geo string) ([]string, error)
	// SeriesFor returns the full series for a pair, sorted ascending by
	// REF_DATE. Zero or one rows are returned as-is; the caller decides
	// whether that is enough to derive anything.
	SeriesFor(ctx context.Context, geo, product string) (models.Series, error)
	BulkUpsert(ctx context.Context, obs []models.Observation) (UpsertStats, error)
	EnsureIndexes(ctx context.Context) error
	Health(ctx context.Context) error
}

// DerivedStore persists the derived price_changes and price_streaks
// documents. All writes replace by (geo, product); DeleteStreak is a
// no-op when the document is already absent.
type DerivedStore interface {
	UpsertChange(ctx context.Context, c *models.PriceChange) error
	UpsertStreak(ctx context.Context, s *models.PriceStreak) error
	DeleteStreak(ctx context.Context, geo, product string) error

	ChangesFor(ctx context.Context, geo, product string, limit int) ([]models.PriceChange, error)
	StreaksFor(ctx context.Context, geo, product, streakType string, limit int) ([]models.PriceStreak, error)
}

// Publisher emits derived events for downstream consumers.
type Publisher interface {
	PublishChange(ctx context.Context, c *models.PriceChange) error
	PublishStreak(ctx context.Context, s *models.PriceStreak) error
	PublishStreakRetraction(ctx context.Context, geo, product string) error
	Close() error
}

// Metrics records pipeline counters and latencies.
type Metrics interface {
	RecordPairProcessed(geo string)
	RecordPairSkipped(reason string)
	RecordPairFailed(geo string)
	RecordRecordsUpserted(n int)
	RecordChangePercent(geo, product string, pct float64)
	RecordLatency(op string, seconds float64)
}
