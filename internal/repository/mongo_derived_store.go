package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"PriceTrack/internal/domain/models"
	domrepo "PriceTrack/internal/domain/repository"
	pkgmongo "PriceTrack/pkg/mongo"
)

// MongoDerivedStore implements DerivedStore over the price_changes and
// price_streaks collections.
type MongoDerivedStore struct {
	changes *mongo.Collection
	streaks *mongo.Collection
}

// NewMongoDerivedStore creates the derived-result sink.
func NewMongoDerivedStore(client *pkgmongo.Client, changesColl, streaksColl string) *MongoDerivedStore {
	return &MongoDerivedStore{
		changes: client.Collection(changesColl),
		streaks: client.Collection(streaksColl),
	}
}

func pairFilter(geo, product string) bson.D {
	return bson.D{
		{Key: "geo", Value: geo},
		{Key: "product", Value: product},
	}
}

func (s *MongoDerivedStore) UpsertChange(ctx context.Context, c *models.PriceChange) error {
	_, err := s.changes.ReplaceOne(ctx,
		pairFilter(c.Geo, c.Product), c,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert change: %w", err)
	}
	return nil
}

func (s *MongoDerivedStore) UpsertStreak(ctx context.Context, st *models.PriceStreak) error {
	_, err := s.streaks.ReplaceOne(ctx,
		pairFilter(st.Geo, st.Product), st,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert streak: %w", err)
	}
	return nil
}

// DeleteStreak removes a pair's streak document. Deleting an absent
// document is not an error; retraction is idempotent.
func (s *MongoDerivedStore) DeleteStreak(ctx context.Context, geo, product string) error {
	_, err := s.streaks.DeleteOne(ctx, pairFilter(geo, product))
	if err != nil {
		return fmt.Errorf("delete streak: %w", err)
	}
	return nil
}

func (s *MongoDerivedStore) ChangesFor(ctx context.Context, geo, product string, limit int) ([]models.PriceChange, error) {
	filter := bson.D{{Key: "geo", Value: geo}}
	if product != "" {
		filter = append(filter, bson.E{Key: "product", Value: product})
	}

	opts := options.Find().SetSort(bson.D{{Key: "product", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := s.changes.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find changes: %w", err)
	}

	var out []models.PriceChange
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode changes: %w", err)
	}
	return out, nil
}

func (s *MongoDerivedStore) StreaksFor(ctx context.Context, geo, product, streakType string, limit int) ([]models.PriceStreak, error) {
	filter := bson.D{{Key: "geo", Value: geo}}
	if product != "" {
		filter = append(filter, bson.E{Key: "product", Value: product})
	}
	if streakType != "" {
		filter = append(filter, bson.E{Key: "streakType", Value: streakType})
	}

	opts := options.Find().SetSort(bson.D{{Key: "streakLength", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := s.streaks.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find streaks: %w", err)
	}

	var out []models.PriceStreak
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode streaks: %w", err)
	}
	return out, nil
}

var _ domrepo.DerivedStore = (*MongoDerivedStore)(nil)
