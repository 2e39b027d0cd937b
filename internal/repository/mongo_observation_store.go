package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"PriceTrack/internal/domain/models"
	domrepo "PriceTrack/internal/domain/repository"
	applogger "PriceTrack/pkg/logger"
	pkgmongo "PriceTrack/pkg/mongo"
	"PriceTrack/pkg/util"
)

// maxDocumentBytes is MongoDB's BSON document limit. Records exceeding
// it are skipped and logged rather than failing the whole batch.
const maxDocumentBytes = 16 * 1024 * 1024

// bulkChunkSize is how many replace models go into one BulkWrite.
const bulkChunkSize = 1000

// MongoObservationStore implements ObservationStore over the raw
// StatCan table collection.
type MongoObservationStore struct {
	coll *mongo.Collection
	l    *applogger.Logger
}

// NewMongoObservationStore creates the store for the given table collection.
func NewMongoObservationStore(client *pkgmongo.Client, collection string) *MongoObservationStore {
	return &MongoObservationStore{coll: client.Collection(collection)}
}

// SetLogger injects a structured logger.
func (s *MongoObservationStore) SetLogger(l *applogger.Logger) { s.l = l }

// EnsureIndexes creates the unique (REF_DATE, GEO, Products) index that
// enforces one observation per key.
func (s *MongoObservationStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "REF_DATE", Value: 1},
			{Key: "GEO", Value: 1},
			{Key: "Products", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create observation index: %w", err)
	}
	return nil
}

func (s *MongoObservationStore) DistinctGeographies(ctx context.Context) ([]string, error) {
	raw, err := s.coll.Distinct(ctx, "GEO", bson.D{})
	if err != nil {
		return nil, fmt.Errorf("distinct geographies: %w", err)
	}
	return toStrings(raw), nil
}

func (s *MongoObservationStore) DistinctProducts(ctx context.Context, geo string) ([]string, error) {
	raw, err := s.coll.Distinct(ctx, "Products", bson.D{{Key: "GEO", Value: geo}})
	if err != nil {
		return nil, fmt.Errorf("distinct products for %s: %w", geo, err)
	}
	return toStrings(raw), nil
}

func (s *MongoObservationStore) SeriesFor(ctx context.Context, geo, product string) (models.Series, error) {
	start := time.Now()

	cursor, err := s.coll.Find(ctx,
		bson.D{
			{Key: "GEO", Value: geo},
			{Key: "Products", Value: product},
		},
		options.Find().SetSort(bson.D{{Key: "REF_DATE", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("find series: %w", err)
	}

	var series models.Series
	if err := cursor.All(ctx, &series); err != nil {
		return nil, fmt.Errorf("decode series: %w", err)
	}

	if s.l != nil {
		s.l.Debug("mongo series loaded",
			applogger.String("geo", geo),
			applogger.String("product", product),
			applogger.Int("rows", len(series)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return series, nil
}

// BulkUpsert replaces-or-inserts observations by their unique key in
// chunks. Oversized records are skipped, never fatal.
func (s *MongoObservationStore) BulkUpsert(ctx context.Context, obs []models.Observation) (domrepo.UpsertStats, error) {
	stats := domrepo.UpsertStats{Read: len(obs)}
	if len(obs) == 0 {
		return stats, nil
	}

	for start := 0; start < len(obs); start += bulkChunkSize {
		end := start + bulkChunkSize
		if end > len(obs) {
			end = len(obs)
		}

		writes := make([]mongo.WriteModel, 0, end-start)
		for _, o := range obs[start:end] {
			// a record without its full unique key cannot be upserted by key
			if o.Geo == "" || o.Product == "" || !util.ValidRefDate(o.RefDate) {
				stats.Skipped++
				if s.l != nil {
					s.l.Warn("skipping record with incomplete key",
						applogger.String("ref_date", o.RefDate),
						applogger.String("geo", o.Geo),
						applogger.String("product", o.Product),
					)
				}
				continue
			}
			raw, err := bson.Marshal(o)
			if err != nil {
				stats.Skipped++
				if s.l != nil {
					s.l.Warn("skipping unencodable record",
						applogger.String("geo", o.Geo),
						applogger.String("product", o.Product),
						applogger.Error(err),
					)
				}
				continue
			}
			if len(raw) > maxDocumentBytes {
				stats.Skipped++
				if s.l != nil {
					s.l.Warn("skipping oversized record",
						applogger.String("geo", o.Geo),
						applogger.String("product", o.Product),
						applogger.Int("bytes", len(raw)),
					)
				}
				continue
			}

			writes = append(writes, mongo.NewReplaceOneModel().
				SetFilter(bson.D{
					{Key: "REF_DATE", Value: o.RefDate},
					{Key: "GEO", Value: o.Geo},
					{Key: "Products", Value: o.Product},
				}).
				SetReplacement(o).
				SetUpsert(true))
		}
		if len(writes) == 0 {
			continue
		}

		res, err := s.coll.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
		if err != nil {
			return stats, fmt.Errorf("bulk upsert: %w", err)
		}
		stats.Upserted += int(res.UpsertedCount + res.ModifiedCount)
	}

	return stats, nil
}

func (s *MongoObservationStore) Health(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}

func toStrings(raw []interface{}) []string {
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if str, ok := v.(string); ok {
			out = append(out, str)
		}
	}
	return out
}

var _ domrepo.ObservationStore = (*MongoObservationStore)(nil)
