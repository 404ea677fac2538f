package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Avina20/ForexVision/internal/domain/models"
)

type fakeTickStorage struct {
	stored []*models.RateTick
	err    error
}

func (f *fakeTickStorage) Init(context.Context) error { return nil }

func (f *fakeTickStorage) Store(_ context.Context, t *models.RateTick) error {
	if f.err != nil {
		return f.err
	}
	f.stored = append(f.stored, t)
	return nil
}

func (f *fakeTickStorage) StoreBatch(ctx context.Context, ticks []*models.RateTick) error {
	for _, t := range ticks {
		if err := f.Store(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeTickStorage) Query(context.Context, string, time.Time, time.Time, int) ([]*models.RateTick, error) {
	return nil, nil
}

func (f *fakeTickStorage) Health(context.Context) error { return nil }
func (f *fakeTickStorage) Close() error                 { return nil }

func TestKafkaRatesHandlerStoresTick(t *testing.T) {
	storage := &fakeTickStorage{}
	h := NewKafkaRatesHandler("fx.ticks", storage, noopMetrics{})

	assert.Equal(t, "fx.ticks", h.Topic())

	err := h.Handle(context.Background(), []byte(`{"pair":"EURUSD","t":1748779200,"r":1.1352}`))
	require.NoError(t, err)

	require.Len(t, storage.stored, 1)
	assert.Equal(t, "EURUSD", storage.stored[0].Pair)
	assert.Equal(t, int64(1748779200), storage.stored[0].Timestamp)
	assert.Equal(t, 1.1352, storage.stored[0].Rate)
}

func TestKafkaRatesHandlerMillisecondTimestamps(t *testing.T) {
	storage := &fakeTickStorage{}
	h := NewKafkaRatesHandler("fx.ticks", storage, noopMetrics{})

	err := h.Handle(context.Background(), []byte(`{"pair":"EURUSD","t":1748779200000,"r":1.1352}`))
	require.NoError(t, err)

	require.Len(t, storage.stored, 1)
	assert.Equal(t, int64(1748779200), storage.stored[0].Timestamp, "millisecond timestamps normalized to seconds")
}

func TestKafkaRatesHandlerBadPayload(t *testing.T) {
	storage := &fakeTickStorage{}
	h := NewKafkaRatesHandler("fx.ticks", storage, noopMetrics{})

	assert.Error(t, h.Handle(context.Background(), []byte(`{not json`)))
	assert.Empty(t, storage.stored)
}

func TestKafkaRatesHandlerStorageError(t *testing.T) {
	storage := &fakeTickStorage{err: errors.New("insert failed")}
	h := NewKafkaRatesHandler("fx.ticks", storage, noopMetrics{})

	err := h.Handle(context.Background(), []byte(`{"pair":"EURUSD","t":1748779200,"r":1.1352}`))
	assert.Error(t, err)
}
