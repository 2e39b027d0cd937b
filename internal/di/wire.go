//go:build wireinject
// +build wireinject

package di

import (
	"PriceTrack/pkg/config"
	"PriceTrack/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideMongoClient,
		ProvideKafkaProducer,
		ProvideCache,

		// Repositories
		ProvideObservationStore,
		ProvideDerivedStore,
		ProvidePublisher,
		ProvideStatCanClient,

		// Use cases
		ProvideImporter,
		ProvideRecalculator,

		// HTTP
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
