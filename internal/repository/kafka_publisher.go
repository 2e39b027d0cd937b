package repository

import (
	"context"
	"time"

	"PriceTrack/internal/domain/models"
	domrepo "PriceTrack/internal/domain/repository"
	pkgkafka "PriceTrack/pkg/kafka"
	"PriceTrack/pkg/util"
)

// KafkaPublisher emits derived events keyed by "geo|product" so one
// pair's events stay ordered within a partition.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates a Kafka-backed derived-event publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) PublishChange(ctx context.Context, c *models.PriceChange) error {
	return p.producer.Publish(ctx, p.topic,
		[]byte(util.PairKey(c.Geo, c.Product)),
		models.DerivedEvent{
			Type:    models.EventChangeUpserted,
			Geo:     c.Geo,
			Product: c.Product,
			Change:  c,
			At:      time.Now(),
		})
}

func (p *KafkaPublisher) PublishStreak(ctx context.Context, s *models.PriceStreak) error {
	return p.producer.Publish(ctx, p.topic,
		[]byte(util.PairKey(s.Geo, s.Product)),
		models.DerivedEvent{
			Type:    models.EventStreakUpserted,
			Geo:     s.Geo,
			Product: s.Product,
			Streak:  s,
			At:      time.Now(),
		})
}

func (p *KafkaPublisher) PublishStreakRetraction(ctx context.Context, geo, product string) error {
	return p.producer.Publish(ctx, p.topic,
		[]byte(util.PairKey(geo, product)),
		models.DerivedEvent{
			Type:    models.EventStreakRetracted,
			Geo:     geo,
			Product: product,
			At:      time.Now(),
		})
}

// PublishMessage satisfies the logger collector's publisher contract so
// aggregated error logs can ride the same producer.
func (p *KafkaPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

var _ domrepo.Publisher = (*KafkaPublisher)(nil)
