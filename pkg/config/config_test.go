package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Avina20/ForexVision/internal/domain/models"
)

func validConfig() *Config {
	c := &Config{}
	c.Environment = "test"
	c.Backend.Type = "clickhouse"
	c.Feed.Pairs = []string{"EURUSD", "GBPUSD"}
	c.Analysis = DefaultAnalysis()
	return c
}

func TestValidateOK(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateFailures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"missing environment", func(c *Config) { c.Environment = "" }, "environment"},
		{"bad backend", func(c *Config) { c.Backend.Type = "postgres" }, "backend.type"},
		{"no pairs", func(c *Config) { c.Feed.Pairs = nil }, "feed.pairs"},
		{"zero window", func(c *Config) { c.Analysis.Window = 0 }, "analysis.window"},
		{"min corr too low", func(c *Config) { c.Analysis.MinCorrSamples = 1 }, "analysis.min_corr_samples"},
		{"zero band period", func(c *Config) { c.Analysis.Band.EmaPeriod = 0 }, "analysis.band"},
		{"zero multiplier", func(c *Config) { c.Analysis.Band.Multiplier = 0 }, "analysis.band.multiplier"},
		{"kmax too small", func(c *Config) { c.Analysis.FractalKmax = 1 }, "analysis.fractal_kmax"},
		{"bad classifier type", func(c *Config) { c.Analysis.Classifier.Type = "svm" }, "analysis.classifier.type"},
		{"inverted fd cutoffs", func(c *Config) { c.Analysis.Classifier.FDForecastable = 1.6 }, "analysis.classifier"},
		{"inverted band cutoffs", func(c *Config) { c.Analysis.Classifier.BandForecastable = 0.9 }, "analysis.classifier"},
		{"bad predictor type", func(c *Config) { c.Analysis.Predictor.Type = "lstm" }, "analysis.predictor.type"},
		{"remote without url", func(c *Config) {
			c.Analysis.Predictor.Type = "remote"
			c.Analysis.Predictor.ServiceURL = ""
		}, "analysis.predictor.service_url"},
		{"negative threshold", func(c *Config) { c.Analysis.Strategy.ThresholdForecastable = -0.1 }, "analysis.strategy"},
		{"partial below forecastable", func(c *Config) { c.Analysis.Strategy.ThresholdPartial = 0.001 }, "analysis.strategy.threshold_partial"},
		{"trend factor too large", func(c *Config) { c.Analysis.Strategy.TrendFactor = 1.0 }, "analysis.strategy.trend_factor"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := validConfig()
			tc.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			var ice *models.InvalidConfigurationError
			require.ErrorAs(t, err, &ice)
			assert.Equal(t, tc.field, ice.Field)
		})
	}
}

const testYAML = `
environment: test
server:
  port: 8080
  read_timeout: 5s
  write_timeout: 10s
  shutdown_timeout: 5s
backend:
  type: clickhouse
feed:
  websocket_url: wss://example.test/ws
  pairs:
    - EURUSD
    - GBPUSD
analysis:
  window: 128
  min_corr_samples: 20
  band:
    ema_period: 20
    atr_period: 10
    multiplier: 2
  fractal_kmax: 8
  classifier:
    type: threshold
    fd_forecastable: 1.3
    fd_non_forecastable: 1.5
    band_forecastable: 0.3
    band_unstable: 0.7
  predictor:
    type: linear
    lags: 5
    learning_rate: 0.01
    epochs: 400
  strategy:
    threshold_forecastable: 0.01
    threshold_partial: 0.02
    trend_lookback: 3
    trend_factor: 0.25
  cache_ttl: 30s
  eval_interval: 1h
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testYAML), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	c, err := Load(writeTestConfig(t))
	require.NoError(t, err)

	assert.Equal(t, "test", c.Environment)
	assert.Equal(t, "clickhouse", c.Backend.Type)
	assert.Equal(t, []string{"EURUSD", "GBPUSD"}, c.Feed.Pairs)
	assert.Equal(t, 128, c.Analysis.Window)
	assert.Equal(t, time.Hour, c.Analysis.EvalInterval)
	assert.Equal(t, 0.25, c.Analysis.Strategy.TrendFactor)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("FEED_API_KEY", "key-from-env")
	t.Setenv("PAIRS", "USDJPY,USDCHF")
	t.Setenv("BACKEND", "kafka")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")

	c, err := LoadWithEnv(writeTestConfig(t))
	require.NoError(t, err)

	assert.Equal(t, "key-from-env", c.Feed.APIKey)
	assert.Equal(t, []string{"USDJPY", "USDCHF"}, c.Feed.Pairs)
	assert.Equal(t, "kafka", c.Backend.Type)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, c.Kafka.Brokers)
}

func TestDefaultAnalysisIsValid(t *testing.T) {
	a := DefaultAnalysis()
	require.NoError(t, a.Validate())
	assert.Equal(t, 256, a.Window)
	assert.Equal(t, "threshold", a.Classifier.Type)
	assert.Equal(t, "linear", a.Predictor.Type)
}
