package di

import (
	"fmt"

	"PriceTrack/internal/domain/repository"
	"PriceTrack/internal/handler/api"
	internalrepo "PriceTrack/internal/repository"
	"PriceTrack/internal/service/statcan"
	"PriceTrack/internal/usecase"
	"PriceTrack/pkg/cache"
	"PriceTrack/pkg/config"
	xhttp "PriceTrack/pkg/http"
	pkgkafka "PriceTrack/pkg/kafka"
	applogger "PriceTrack/pkg/logger"
	"PriceTrack/pkg/metrics"
	pkgmongo "PriceTrack/pkg/mongo"
	"PriceTrack/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := cfg.Log.Level
	if level == "" {
		level = "info"
	}
	l, err := applogger.New(&applogger.Config{
		Level:  level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideMongoClient creates a MongoDB client.
func ProvideMongoClient(cfg *config.Config) (*pkgmongo.Client, error) {
	client, err := pkgmongo.NewClient(
		pkgmongo.WithURI(cfg.Mongo.URI),
		pkgmongo.WithDatabase(cfg.Mongo.Database),
		pkgmongo.WithTimeouts(cfg.Mongo.ConnectTimeout, cfg.Mongo.QueryTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("mongo client: %w", err)
	}
	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer, or nil when eventing
// is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideCache creates the configured cache backend.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if cfg.Cache.Backend == "redis" {
		c, err := cache.NewRedisCache(
			cache.WithRedisHost(cfg.Cache.Redis.Host),
			cache.WithRedisPort(cfg.Cache.Redis.Port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
			cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return c, nil
	}
	return cache.NewMemoryCache(), nil
}

// ProvideObservationStore creates the raw table store.
func ProvideObservationStore(client *pkgmongo.Client, cfg *config.Config, l *applogger.Logger) repository.ObservationStore {
	store := internalrepo.NewMongoObservationStore(client, "table_"+cfg.StatCan.TableID)
	store.SetLogger(l)
	return store
}

// ProvideDerivedStore creates the derived-result sink.
func ProvideDerivedStore(client *pkgmongo.Client) repository.DerivedStore {
	return internalrepo.NewMongoDerivedStore(client, "price_changes", "price_streaks")
}

// ProvidePublisher creates the derived-event publisher, or nil when
// the producer is disabled.
func ProvidePublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
}

// ProvideStatCanClient creates the WDS table source.
func ProvideStatCanClient(cfg *config.Config, l *applogger.Logger) *statcan.Client {
	c := statcan.New(cfg.StatCan.BaseURL, cfg.StatCan.TableID, cfg.StatCan.Lang, cfg.StatCan.Timeout)
	c.SetLogger(l)
	return c
}

// ProvideImporter creates the table loader use case.
func ProvideImporter(
	source *statcan.Client,
	obs repository.ObservationStore,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.Importer {
	return usecase.NewImporter(source, obs, m, l, cfg.StatCan.DownloadDir, cfg.StatCan.BatchSize)
}

// ProvideRecalculator creates the derived-data sweep use case.
func ProvideRecalculator(
	obs repository.ObservationStore,
	derived repository.DerivedStore,
	pub repository.Publisher,
	m repository.Metrics,
	cacheSvc cache.Service,
	l *applogger.Logger,
) *usecase.Recalculator {
	return usecase.NewRecalculator(obs, derived, pub, m, cacheSvc, l)
}

// ProvideHTTPHandler creates the read API handler.
func ProvideHTTPHandler(
	obs repository.ObservationStore,
	derived repository.DerivedStore,
	cacheSvc cache.Service,
	cfg *config.Config,
	l *applogger.Logger,
) xhttp.Handler {
	return api.NewPriceHandler(obs, derived, cacheSvc, cfg.Cache.TTL, l)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	importer *usecase.Importer,
	recalc *usecase.Recalculator,
	handler xhttp.Handler,
	mongoClient *pkgmongo.Client,
	pub repository.Publisher,
	cacheSvc cache.Service,
	l *applogger.Logger,
) *server.App {
	return server.New(cfg, importer, recalc, handler, mongoClient, pub, cacheSvc, l)
}
