package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Avina20/ForexVision/internal/domain/models"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Backend struct {
		Type         string        `yaml:"type"` // kafka or clickhouse
		BatchSize    int           `yaml:"batch_size"`
		BatchTimeout time.Duration `yaml:"batch_timeout"`
	} `yaml:"backend"`
	Kafka struct {
		Brokers        []string `yaml:"brokers"`
		TicksTopic     string   `yaml:"ticks_topic"`
		DecisionsTopic string   `yaml:"decisions_topic"`
		RequiredAcks   int      `yaml:"required_acks"`
		Compression    string   `yaml:"compression"`
		Producer       struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			GroupID    string        `yaml:"group_id"`
			Workers    int           `yaml:"workers"`
			BufferSize int           `yaml:"buffer_size"`
			RetryMax   int           `yaml:"retry_max"`
			BackoffMin time.Duration `yaml:"backoff_min"`
			BackoffMax time.Duration `yaml:"backoff_max"`
			DLQTopic   string        `yaml:"dlq_topic"`
			MinBytes   int           `yaml:"min_bytes"`
			MaxBytes   int           `yaml:"max_bytes"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Feed struct {
		APIKey         string        `yaml:"api_key"`
		WebSocketURL   string        `yaml:"websocket_url"`
		Pairs          []string      `yaml:"pairs"`
		ReconnectDelay time.Duration `yaml:"reconnect_delay"`
		PingInterval   time.Duration `yaml:"ping_interval"`
	} `yaml:"feed"`
	Analysis AnalysisConfig `yaml:"analysis"`
}

// AnalysisConfig is the configuration surface of the classification and
// strategy core. Every threshold the pipeline uses lives here.
type AnalysisConfig struct {
	Window         int `yaml:"window"`           // feature extraction window length
	MinCorrSamples int `yaml:"min_corr_samples"` // minimum aligned samples for correlation

	Band struct {
		EmaPeriod  int     `yaml:"ema_period"`
		AtrPeriod  int     `yaml:"atr_period"`
		Multiplier float64 `yaml:"multiplier"`
	} `yaml:"band"`

	FractalKmax int `yaml:"fractal_kmax"`

	Classifier struct {
		Type              string  `yaml:"type"` // threshold or centroid
		FDForecastable    float64 `yaml:"fd_forecastable"`
		FDNonForecastable float64 `yaml:"fd_non_forecastable"`
		BandForecastable  float64 `yaml:"band_forecastable"`
		BandUnstable      float64 `yaml:"band_unstable"`
	} `yaml:"classifier"`

	Predictor struct {
		Type         string        `yaml:"type"` // linear or remote
		Lags         int           `yaml:"lags"`
		LearningRate float64       `yaml:"learning_rate"`
		Epochs       int           `yaml:"epochs"`
		ServiceURL   string        `yaml:"service_url"`
		Timeout      time.Duration `yaml:"timeout"`
	} `yaml:"predictor"`

	Strategy struct {
		ThresholdForecastable float64 `yaml:"threshold_forecastable"`
		ThresholdPartial      float64 `yaml:"threshold_partial"`
		TrendLookback         int     `yaml:"trend_lookback"`
		TrendFactor           float64 `yaml:"trend_factor"`
	} `yaml:"strategy"`

	CacheTTL     time.Duration `yaml:"cache_ttl"`
	EvalInterval time.Duration `yaml:"eval_interval"` // periodic cycle; 0 disables
	Redis        struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("FEED_API_KEY"); v != "" {
		c.Feed.APIKey = v
	}
	if v := os.Getenv("PAIRS"); v != "" {
		c.Feed.Pairs = strings.Split(v, ",")
	}
	if v := os.Getenv("BACKEND"); v != "" {
		c.Backend.Type = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}

	return c, nil
}

// Validate checks the configuration and fails fast on invalid parameters.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return &models.InvalidConfigurationError{Field: "environment", Reason: "required"}
	}
	if c.Backend.Type != "kafka" && c.Backend.Type != "clickhouse" {
		return &models.InvalidConfigurationError{
			Field:  "backend.type",
			Reason: fmt.Sprintf("must be 'kafka' or 'clickhouse', got '%s'", c.Backend.Type),
		}
	}
	if len(c.Feed.Pairs) == 0 {
		return &models.InvalidConfigurationError{Field: "feed.pairs", Reason: "cannot be empty"}
	}
	return c.Analysis.Validate()
}

// Validate checks the analysis block ranges.
func (a *AnalysisConfig) Validate() error {
	if a.Window <= 0 {
		return &models.InvalidConfigurationError{Field: "analysis.window", Reason: "must be positive"}
	}
	if a.MinCorrSamples <= 1 {
		return &models.InvalidConfigurationError{Field: "analysis.min_corr_samples", Reason: "must be greater than 1"}
	}
	if a.Band.EmaPeriod <= 0 || a.Band.AtrPeriod <= 0 {
		return &models.InvalidConfigurationError{Field: "analysis.band", Reason: "periods must be positive"}
	}
	if a.Band.Multiplier <= 0 {
		return &models.InvalidConfigurationError{Field: "analysis.band.multiplier", Reason: "must be positive"}
	}
	if a.FractalKmax < 2 {
		return &models.InvalidConfigurationError{Field: "analysis.fractal_kmax", Reason: "must be at least 2"}
	}
	switch a.Classifier.Type {
	case "threshold", "centroid":
	default:
		return &models.InvalidConfigurationError{
			Field:  "analysis.classifier.type",
			Reason: fmt.Sprintf("must be 'threshold' or 'centroid', got '%s'", a.Classifier.Type),
		}
	}
	if a.Classifier.FDForecastable >= a.Classifier.FDNonForecastable {
		return &models.InvalidConfigurationError{
			Field:  "analysis.classifier",
			Reason: "fd_forecastable must be below fd_non_forecastable",
		}
	}
	if a.Classifier.BandForecastable >= a.Classifier.BandUnstable {
		return &models.InvalidConfigurationError{
			Field:  "analysis.classifier",
			Reason: "band_forecastable must be below band_unstable",
		}
	}
	switch a.Predictor.Type {
	case "linear", "remote":
	default:
		return &models.InvalidConfigurationError{
			Field:  "analysis.predictor.type",
			Reason: fmt.Sprintf("must be 'linear' or 'remote', got '%s'", a.Predictor.Type),
		}
	}
	if a.Predictor.Type == "remote" && a.Predictor.ServiceURL == "" {
		return &models.InvalidConfigurationError{Field: "analysis.predictor.service_url", Reason: "required for remote predictor"}
	}
	if a.Strategy.ThresholdForecastable < 0 || a.Strategy.ThresholdPartial < 0 {
		return &models.InvalidConfigurationError{Field: "analysis.strategy", Reason: "thresholds must be non-negative"}
	}
	if a.Strategy.ThresholdPartial < a.Strategy.ThresholdForecastable {
		return &models.InvalidConfigurationError{
			Field:  "analysis.strategy.threshold_partial",
			Reason: "partial threshold must be at least the forecastable threshold",
		}
	}
	if a.Strategy.TrendLookback < 0 {
		return &models.InvalidConfigurationError{Field: "analysis.strategy.trend_lookback", Reason: "must be non-negative"}
	}
	if a.Strategy.TrendFactor < 0 || a.Strategy.TrendFactor >= 1 {
		return &models.InvalidConfigurationError{Field: "analysis.strategy.trend_factor", Reason: "must be in [0,1)"}
	}
	return nil
}

// DefaultAnalysis returns the documented default analysis parameters.
func DefaultAnalysis() AnalysisConfig {
	a := AnalysisConfig{
		Window:         256,
		MinCorrSamples: 30,
		FractalKmax:    8,
		CacheTTL:       30 * time.Second,
		EvalInterval:   time.Hour,
	}
	a.Band.EmaPeriod = 20
	a.Band.AtrPeriod = 10
	a.Band.Multiplier = 2
	a.Classifier.Type = "threshold"
	a.Classifier.FDForecastable = 1.3
	a.Classifier.FDNonForecastable = 1.5
	a.Classifier.BandForecastable = 0.3
	a.Classifier.BandUnstable = 0.7
	a.Predictor.Type = "linear"
	a.Predictor.Lags = 5
	a.Predictor.LearningRate = 0.01
	a.Predictor.Epochs = 400
	a.Predictor.Timeout = 3 * time.Second
	a.Strategy.ThresholdForecastable = 0.01
	a.Strategy.ThresholdPartial = 0.02
	a.Strategy.TrendLookback = 3
	a.Strategy.TrendFactor = 0.25
	return a
}
