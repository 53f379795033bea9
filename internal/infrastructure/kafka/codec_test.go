package kafka

import (
	"testing"
	"time"

	"github.com/DRSN-tech/recommender-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeEvent_Decodes(t *testing.T) {
	event := domain.NewRecommendationEvent("6f1c2a8e-1b7e-4d59-9c3f-2f0b7b7d1a11", "cozy reading chair", 5, 1, "ok", true)
	event.OccurredAt = time.Date(2026, 10, 15, 9, 30, 0, 123, time.UTC)

	data, err := EncodeEvent(event)
	require.NoError(t, err)

	got, err := DecodeEvent(data)
	require.NoError(t, err)
	assert.Equal(t, event, got)
}

func TestEncodeEvent_Deterministic(t *testing.T) {
	event := domain.NewRecommendationEvent("id", "sofa", 5, 0, "unavailable", false)

	a, err := EncodeEvent(event)
	require.NoError(t, err)
	b, err := EncodeEvent(event)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestDecodeEvent_Garbage(t *testing.T) {
	_, err := DecodeEvent([]byte{0xff, 0x01})

	assert.Error(t, err)
}
