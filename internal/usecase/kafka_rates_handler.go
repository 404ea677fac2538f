package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Avina20/ForexVision/internal/domain/models"
	domrepo "github.com/Avina20/ForexVision/internal/domain/repository"
	pkgkafka "github.com/Avina20/ForexVision/pkg/kafka"
)

// KafkaRatesHandler consumes rate tick messages and writes them to storage.
type KafkaRatesHandler struct {
	topic   string
	storage domrepo.TickStorage
	metrics domrepo.Metrics
}

func NewKafkaRatesHandler(topic string, storage domrepo.TickStorage, metrics domrepo.Metrics) *KafkaRatesHandler {
	return &KafkaRatesHandler{topic: topic, storage: storage, metrics: metrics}
}

func (h *KafkaRatesHandler) Topic() string { return h.topic }

// incoming message schema: {pair, t, r}
func (h *KafkaRatesHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		Pair string  `json:"pair"`
		T    int64   `json:"t"`
		R    float64 `json:"r"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if m.T > 1e11 { // ms
		m.T = m.T / 1000
	}
	// E2E latency from event time to now (approx)
	h.metrics.RecordLatency("ingest_e2e_seconds", time.Since(time.Unix(m.T, 0)).Seconds())

	start := time.Now()
	err := h.storage.Store(ctx, &models.RateTick{
		Pair:      m.Pair,
		Timestamp: m.T,
		Rate:      m.R,
	})
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordMessageSent("clickhouse", m.Pair)
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaRatesHandler)(nil)
