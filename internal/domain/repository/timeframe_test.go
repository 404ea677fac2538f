package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTimeframe(t *testing.T) {
	assert.Equal(t, TF1h, NormalizeTimeframe(""))
	assert.Equal(t, TF1h, NormalizeTimeframe("1h"))
	assert.Equal(t, TF4h, NormalizeTimeframe("4h"))
	assert.Equal(t, TF1d, NormalizeTimeframe("1d"))
	assert.Equal(t, TF1h, NormalizeTimeframe("5m"), "unsupported values fall back to the default")
}

func TestIsValidTimeframe(t *testing.T) {
	assert.True(t, IsValidTimeframe(TF1h))
	assert.True(t, IsValidTimeframe(TF4h))
	assert.True(t, IsValidTimeframe(TF1d))
	assert.False(t, IsValidTimeframe(Timeframe("15m")))
}
