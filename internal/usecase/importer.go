package usecase

import (
	"context"
	"fmt"
	"os"
	"time"

	"PriceTrack/internal/domain/models"
	domrepo "PriceTrack/internal/domain/repository"
	"PriceTrack/internal/service/statcan"
	applogger "PriceTrack/pkg/logger"
)

// Importer pulls the full StatCan table and loads it into the
// observation store. Each run re-reads the entire table; the keyed
// upsert makes the load idempotent.
type Importer struct {
	source  *statcan.Client
	obs     domrepo.ObservationStore
	metrics domrepo.Metrics
	l       *applogger.Logger

	downloadDir string
	batchSize   int
}

// NewImporter wires the table loader.
func NewImporter(
	source *statcan.Client,
	obs domrepo.ObservationStore,
	metrics domrepo.Metrics,
	l *applogger.Logger,
	downloadDir string,
	batchSize int,
) *Importer {
	return &Importer{
		source:      source,
		obs:         obs,
		metrics:     metrics,
		l:           l,
		downloadDir: downloadDir,
		batchSize:   batchSize,
	}
}

// Run fetches, parses and upserts one full table snapshot.
func (i *Importer) Run(ctx context.Context) (domrepo.UpsertStats, error) {
	start := time.Now()
	var stats domrepo.UpsertStats

	if err := i.obs.EnsureIndexes(ctx); err != nil {
		return stats, fmt.Errorf("ensure indexes: %w", err)
	}

	dir, err := os.MkdirTemp(i.downloadDir, "statcan-*")
	if err != nil {
		return stats, fmt.Errorf("create download dir: %w", err)
	}
	defer os.RemoveAll(dir)

	csvPath, err := i.source.FetchTable(ctx, dir)
	if err != nil {
		return stats, fmt.Errorf("fetch table: %w", err)
	}

	f, err := os.Open(csvPath)
	if err != nil {
		return stats, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	read, err := statcan.ParseObservations(f, i.batchSize, func(batch []models.Observation) error {
		batchStats, err := i.obs.BulkUpsert(ctx, batch)
		if err != nil {
			return err
		}
		stats.Upserted += batchStats.Upserted
		stats.Skipped += batchStats.Skipped
		return nil
	})
	stats.Read = read
	if err != nil {
		return stats, fmt.Errorf("load table: %w", err)
	}

	i.metrics.RecordRecordsUpserted(stats.Upserted)
	i.metrics.RecordLatency("import", time.Since(start).Seconds())

	i.l.Info("table import finished",
		applogger.Int("read", stats.Read),
		applogger.Int("upserted", stats.Upserted),
		applogger.Int("skipped", stats.Skipped),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return stats, nil
}
