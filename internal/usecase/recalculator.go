package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"PriceTrack/internal/analysis"
	domrepo "PriceTrack/internal/domain/repository"
	"PriceTrack/pkg/cache"
	applogger "PriceTrack/pkg/logger"
)

// Summary reports what one full recalculation did.
type Summary struct {
	Geographies      int           `json:"geographies"`
	PairsProcessed   int           `json:"pairsProcessed"`
	PairsSkipped     int           `json:"pairsSkipped"`
	PairsFailed      int           `json:"pairsFailed"`
	ChangesUpserted  int           `json:"changesUpserted"`
	StreaksUpserted  int           `json:"streaksUpserted"`
	StreaksRetracted int           `json:"streaksRetracted"`
	Duration         time.Duration `json:"duration"`
}

// Recalculator walks every (geography, product) pair in the observation
// store and rebuilds its derived change and streak documents. Pair
// failures are isolated: one bad series never aborts the sweep. Only
// the distinct enumeration queries are fatal, since without them the
// sweep has no work list.
type Recalculator struct {
	obs     domrepo.ObservationStore
	derived domrepo.DerivedStore
	pub     domrepo.Publisher
	metrics domrepo.Metrics
	cache   cache.Service
	l       *applogger.Logger
	now     func() time.Time
}

// NewRecalculator wires the sweep. pub and cacheSvc may be nil when
// eventing or caching is disabled.
func NewRecalculator(
	obs domrepo.ObservationStore,
	derived domrepo.DerivedStore,
	pub domrepo.Publisher,
	metrics domrepo.Metrics,
	cacheSvc cache.Service,
	l *applogger.Logger,
) *Recalculator {
	return &Recalculator{
		obs:     obs,
		derived: derived,
		pub:     pub,
		metrics: metrics,
		cache:   cacheSvc,
		l:       l,
		now:     time.Now,
	}
}

// Run performs one full sweep.
func (r *Recalculator) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	var sum Summary

	geos, err := r.obs.DistinctGeographies(ctx)
	if err != nil {
		return sum, fmt.Errorf("list geographies: %w", err)
	}
	sum.Geographies = len(geos)

	for _, geo := range geos {
		products, err := r.obs.DistinctProducts(ctx, geo)
		if err != nil {
			return sum, fmt.Errorf("list products for %s: %w", geo, err)
		}

		for _, product := range products {
			if err := ctx.Err(); err != nil {
				return sum, err
			}
			r.processPair(ctx, geo, product, &sum)
		}
	}

	sum.Duration = time.Since(start)
	r.metrics.RecordLatency("recalculate", sum.Duration.Seconds())

	if r.cache != nil {
		// derived reads are stale now; drop every cached API response
		if err := r.cache.DeleteByPattern(ctx, "api:*"); err != nil {
			r.l.Warn("cache invalidation failed", applogger.Error(err))
		}
	}

	r.l.Info("recalculation finished",
		applogger.Int("geographies", sum.Geographies),
		applogger.Int("processed", sum.PairsProcessed),
		applogger.Int("skipped", sum.PairsSkipped),
		applogger.Int("failed", sum.PairsFailed),
		applogger.Int("streaks_retracted", sum.StreaksRetracted),
		applogger.Duration("duration_ms", sum.Duration),
	)
	return sum, nil
}

func (r *Recalculator) processPair(ctx context.Context, geo, product string, sum *Summary) {
	series, err := r.obs.SeriesFor(ctx, geo, product)
	if err != nil {
		r.failPair(geo, product, "load series", err, sum)
		return
	}

	now := r.now()

	change, err := analysis.Change(series, now)
	switch {
	case err == nil:
		if err := r.derived.UpsertChange(ctx, change); err != nil {
			r.failPair(geo, product, "upsert change", err, sum)
			return
		}
		sum.ChangesUpserted++
		r.metrics.RecordChangePercent(geo, product, change.ChangePercent)
		if r.pub != nil {
			if err := r.pub.PublishChange(ctx, change); err != nil {
				r.l.Warn("publish change failed",
					applogger.String("geo", geo),
					applogger.String("product", product),
					applogger.Error(err),
				)
			}
		}
	case errors.Is(err, analysis.ErrInsufficientData):
		sum.PairsSkipped++
		r.metrics.RecordPairSkipped("insufficient_data")
	case errors.Is(err, analysis.ErrInvalidPriceData):
		sum.PairsSkipped++
		r.metrics.RecordPairSkipped("invalid_price_data")
	default:
		r.failPair(geo, product, "derive change", err, sum)
		return
	}

	// the streak is derived regardless of how the change turned out;
	// a pair can hold a streak even when its latest value is missing
	streak := analysis.Streak(series, now)
	if streak == nil {
		if err := r.derived.DeleteStreak(ctx, geo, product); err != nil {
			r.failPair(geo, product, "retract streak", err, sum)
			return
		}
		sum.StreaksRetracted++
		if r.pub != nil {
			if err := r.pub.PublishStreakRetraction(ctx, geo, product); err != nil {
				r.l.Warn("publish streak retraction failed",
					applogger.String("geo", geo),
					applogger.String("product", product),
					applogger.Error(err),
				)
			}
		}
	} else {
		if err := r.derived.UpsertStreak(ctx, streak); err != nil {
			r.failPair(geo, product, "upsert streak", err, sum)
			return
		}
		sum.StreaksUpserted++
		if r.pub != nil {
			if err := r.pub.PublishStreak(ctx, streak); err != nil {
				r.l.Warn("publish streak failed",
					applogger.String("geo", geo),
					applogger.String("product", product),
					applogger.Error(err),
				)
			}
		}
	}

	sum.PairsProcessed++
	r.metrics.RecordPairProcessed(geo)
}

func (r *Recalculator) failPair(geo, product, op string, err error, sum *Summary) {
	sum.PairsFailed++
	r.metrics.RecordPairFailed(geo)
	r.l.Error("pair failed",
		applogger.String("geo", geo),
		applogger.String("product", product),
		applogger.String("op", op),
		applogger.Error(err),
	)
}
