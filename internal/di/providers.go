package di

import (
	"context"
	"fmt"
	"time"

	"github.com/Avina20/ForexVision/internal/domain/repository"
	domsvc "github.com/Avina20/ForexVision/internal/domain/service"
	mid "github.com/Avina20/ForexVision/internal/middleware"
	internalrepo "github.com/Avina20/ForexVision/internal/repository"
	"github.com/Avina20/ForexVision/internal/service/feed"
	"github.com/Avina20/ForexVision/internal/services/classify"
	"github.com/Avina20/ForexVision/internal/services/correlation"
	"github.com/Avina20/ForexVision/internal/services/features"
	"github.com/Avina20/ForexVision/internal/services/predict"
	"github.com/Avina20/ForexVision/internal/services/strategy"
	"github.com/Avina20/ForexVision/internal/usecase"
	pkgch "github.com/Avina20/ForexVision/pkg/clickhouse"
	"github.com/Avina20/ForexVision/pkg/config"
	pkgkafka "github.com/Avina20/ForexVision/pkg/kafka"
	"github.com/Avina20/ForexVision/pkg/metrics"
	"github.com/Avina20/ForexVision/pkg/server"
)

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS forexvision",
		"CREATE TABLE IF NOT EXISTS forexvision.fx_ticks_raw (ts DateTime, pair String, rate Float64, source String, event_id String) ENGINE=MergeTree ORDER BY (pair, ts)",
		"CREATE TABLE IF NOT EXISTS forexvision.fx_rates_1h (bucket DateTime, pair String, rate Float64) ENGINE=ReplacingMergeTree ORDER BY (pair, bucket)",
		"CREATE MATERIALIZED VIEW IF NOT EXISTS forexvision.fx_rates_1h_mv TO forexvision.fx_rates_1h AS SELECT toStartOfHour(ts) AS bucket, pair, anyLast(rate) AS rate FROM forexvision.fx_ticks_raw GROUP BY bucket, pair",
		"CREATE TABLE IF NOT EXISTS forexvision.fx_rates_4h (bucket DateTime, pair String, rate Float64) ENGINE=ReplacingMergeTree ORDER BY (pair, bucket)",
		"CREATE MATERIALIZED VIEW IF NOT EXISTS forexvision.fx_rates_4h_mv TO forexvision.fx_rates_4h AS SELECT toStartOfInterval(ts, INTERVAL 4 HOUR) AS bucket, pair, anyLast(rate) AS rate FROM forexvision.fx_ticks_raw GROUP BY bucket, pair",
		"CREATE TABLE IF NOT EXISTS forexvision.fx_rates_1d (bucket DateTime, pair String, rate Float64) ENGINE=ReplacingMergeTree ORDER BY (pair, bucket)",
		"CREATE MATERIALIZED VIEW IF NOT EXISTS forexvision.fx_rates_1d_mv TO forexvision.fx_rates_1d AS SELECT toStartOfDay(ts) AS bucket, pair, anyLast(rate) AS rate FROM forexvision.fx_ticks_raw GROUP BY bucket, pair",
		"CREATE TABLE IF NOT EXISTS forexvision.trade_decisions (run_ts DateTime, pair String, label String, action String, forecast Float64, threshold Float64, band_ratio Float64, fractal_dim Float64, corr_mean Float64, corr_max Float64) ENGINE=MergeTree ORDER BY (pair, run_ts)",
		"CREATE TABLE IF NOT EXISTS forexvision.evaluation_errors (run_ts DateTime, pair String, error String) ENGINE=MergeTree ORDER BY (pair, run_ts)",
	}); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
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

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideTickStorage creates ClickHouse storage repository.
func ProvideTickStorage(chClient *pkgch.Client, cfg *config.Config) repository.TickStorage {
	return internalrepo.NewClickHouseTickStorage(chClient.DB(), cfg.ClickHouse.Database+".fx_ticks_raw")
}

// ProvideTickPublisher creates Kafka tick publisher repository.
func ProvideTickPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.TickPublisher {
	return internalrepo.NewKafkaTickPublisher(producer, cfg.Kafka.TicksTopic)
}

// ProvideDecisionSink creates the Kafka decision sink.
func ProvideDecisionSink(producer *pkgkafka.Producer, cfg *config.Config) repository.DecisionSink {
	return internalrepo.NewKafkaDecisionPublisher(producer, cfg.Kafka.DecisionsTopic)
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideKafkaRatesHandler registers the handler for the ticks topic.
func ProvideKafkaRatesHandler(store repository.TickStorage, metrics repository.Metrics, cfg *config.Config) *usecase.KafkaRatesHandler {
	return usecase.NewKafkaRatesHandler(cfg.Kafka.TicksTopic, store, metrics)
}

// ProvideFeedStream creates the FX feed WebSocket stream.
func ProvideFeedStream(cfg *config.Config) repository.RateStream {
	return feed.New(
		cfg.Feed.APIKey,
		cfg.Feed.WebSocketURL,
		cfg.Feed.Pairs,
		cfg.Feed.ReconnectDelay,
		cfg.Feed.PingInterval,
	)
}

// ProvideRateProcessor creates the rate processor use case.
func ProvideRateProcessor(
	pub repository.TickPublisher,
	store repository.TickStorage,
	metrics repository.Metrics,
	cfg *config.Config,
) *usecase.RateProcessor {
	return usecase.NewRateProcessor(
		pub,
		store,
		metrics,
		cfg.Backend.Type,
		cfg.Backend.BatchSize,
		cfg.Backend.BatchTimeout,
	)
}

// ProvideRateCollector creates the rate collector use case.
func ProvideRateCollector(
	stream repository.RateStream,
	processor *usecase.RateProcessor,
	metrics repository.Metrics,
) *usecase.RateCollector {
	// Build middleware pipeline between WebSocket and the backend
	pipe := mid.NewIngestPipeline(processor, metrics,
		mid.WithMaxRPS(50),
		mid.WithBufferSize(2000),
	)
	return usecase.NewRateCollector(stream, processor, metrics, pipe)
}

// ProvideRateStore creates the ClickHouse rate store.
func ProvideRateStore(chClient *pkgch.Client) *internalrepo.CHRateStore {
	return internalrepo.NewCHRateStore(chClient)
}

// ProvideClassifier builds the configured forecastability classifier.
func ProvideClassifier(cfg *config.Config) domsvc.ForecastabilityClassifier {
	a := cfg.Analysis
	threshold := classify.NewThresholdClassifier(
		a.Classifier.FDForecastable,
		a.Classifier.FDNonForecastable,
		a.Classifier.BandForecastable,
		a.Classifier.BandUnstable,
	)
	if a.Classifier.Type == "centroid" {
		return classify.NewCentroidClassifier(threshold)
	}
	return threshold
}

// ProvidePredictorStore builds the per-pair predictor store.
func ProvidePredictorStore(cfg *config.Config) *predict.Store {
	a := cfg.Analysis
	var factory predict.Factory
	if a.Predictor.Type == "remote" {
		factory = func(pair string) domsvc.PricePredictor {
			return predict.NewRemotePredictor(pair, a.Predictor.ServiceURL, a.Predictor.Timeout)
		}
	} else {
		factory = func(pair string) domsvc.PricePredictor {
			return predict.NewLinearPredictor(pair, a.Predictor.Lags, a.Predictor.LearningRate, a.Predictor.Epochs)
		}
	}
	return predict.NewStore(factory)
}

// ProvideEvaluator wires the full evaluation cycle.
func ProvideEvaluator(
	store *internalrepo.CHRateStore,
	classifier domsvc.ForecastabilityClassifier,
	predictors *predict.Store,
	sink repository.DecisionSink,
	metrics repository.Metrics,
	cfg *config.Config,
) *usecase.Evaluator {
	a := cfg.Analysis
	extractor := features.NewExtractor(
		a.Window,
		a.Band.EmaPeriod,
		a.Band.AtrPeriod,
		a.Band.Multiplier,
		a.FractalKmax,
		repository.DefaultTimeframe(),
	)
	eval := usecase.NewEvaluator(
		store,
		correlation.NewBuilder(a.MinCorrSamples),
		extractor,
		classifier,
		predictors,
		strategy.NewEngine(a.Strategy.ThresholdForecastable, a.Strategy.ThresholdPartial, a.Strategy.TrendFactor),
		strategy.NewTracker(a.Strategy.TrendLookback),
		metrics,
		cfg.Feed.Pairs,
		repository.DefaultTimeframe(),
		a.MinCorrSamples,
	)
	eval.SetSink(sink)
	eval.SetAudit(store)
	return eval
}

// ProvideHistoryUseCase creates the history use case.
func ProvideHistoryUseCase(store *internalrepo.CHRateStore) *usecase.HistoryUseCase {
	return usecase.NewHistoryUseCase(store)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	collector *usecase.RateCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaRatesHandler,
	chClient *pkgch.Client,
	eval *usecase.Evaluator,
	hist *usecase.HistoryUseCase,
) *server.App {
	app := server.New(cfg, collector, consumer, kh, chClient, eval, hist)
	if collector != nil {
		app.RateProc = collector.Processor()
	}
	return app
}
