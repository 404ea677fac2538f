//go:build wireinject
// +build wireinject

package di

import (
	"github.com/Avina20/ForexVision/pkg/config"
	"github.com/Avina20/ForexVision/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Metrics
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories
		ProvideTickStorage,
		ProvideTickPublisher,
		ProvideDecisionSink,
		ProvideFeedStream,
		ProvideRateStore,

		// Analysis core
		ProvideClassifier,
		ProvidePredictorStore,

		// Use cases
		ProvideRateProcessor,
		ProvideRateCollector,
		ProvideKafkaRatesHandler,
		ProvideEvaluator,
		ProvideHistoryUseCase,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
