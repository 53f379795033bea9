package redis

import (
	"context"
	"testing"
	"time"

	"github.com/DRSN-tech/recommender-backend/internal/cfg"
	"github.com/DRSN-tech/recommender-backend/internal/domain"
	"github.com/DRSN-tech/recommender-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/recommender-backend/pkg/clients"
	"github.com/DRSN-tech/recommender-backend/pkg/e"
	"github.com/DRSN-tech/recommender-backend/pkg/logger"
	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*CacheRepo, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	redisCfg := &cfg.RedisCfg{
		Enabled:      true,
		Addr:         mr.Addr(),
		DialTimeout:  time.Second,
		Timeout:      time.Second,
		RecommendTTL: 5 * time.Minute,
	}

	client := clients.NewRedisClient(redisCfg)
	t.Cleanup(func() { _ = client.Client.Close() })

	return NewCacheRepo(client, converter.NewRecommendationConverterImpl(), redisCfg, logger.Discard()), mr
}

func oakChair() domain.Recommendation {
	price := decimal.RequireFromString("199.99")
	return *domain.NewRecommendation(domain.Product{
		Title:      "Oak Chair",
		RawPrice:   199.99,
		Price:      &price,
		ImageRef:   "url",
		Categories: "Living Room",
		Material:   "Wood",
		Color:      "Brown",
	}, "Behold the 'Oak Chair' in glorious Brown Wood.", 0.92)
}

func TestCacheRepo_Miss(t *testing.T) {
	cache, _ := newTestCache(t)

	_, err := cache.Get(context.Background(), "sofa", 5)

	assert.ErrorIs(t, err, e.ErrCacheMiss)
}

func TestCacheRepo_SetThenGet(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "cozy reading chair", 5, []domain.Recommendation{oakChair()}))

	got, err := cache.Get(ctx, "cozy reading chair", 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Oak Chair", got[0].Product.Title)
	assert.Equal(t, "199.99", got[0].Product.Price.String())
	assert.Equal(t, "Brown", got[0].Product.Color)
	assert.Equal(t, "Behold the 'Oak Chair' in glorious Brown Wood.", got[0].Description)

	_, err = cache.Get(ctx, "cozy reading chair", 10)
	assert.ErrorIs(t, err, e.ErrCacheMiss)
}

func TestCacheRepo_KeepsMissingPrice(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()
	item := oakChair()
	item.Product.Price = nil
	item.Product.RawPrice = nil

	require.NoError(t, cache.Set(ctx, "stool", 5, []domain.Recommendation{item}))

	got, err := cache.Get(ctx, "stool", 5)
	require.NoError(t, err)
	assert.Nil(t, got[0].Product.Price)
	assert.Nil(t, got[0].Product.RawPrice)
}

func TestCacheRepo_KeepsRawPrice(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	for _, raw := range []any{"Call for price", "$1,299.00", "199.99", -5.0} {
		item := oakChair()
		item.Product.RawPrice = raw
		item.Product.Price = domain.ParsePrice(raw)

		require.NoError(t, cache.Set(ctx, "bench", 5, []domain.Recommendation{item}))

		got, err := cache.Get(ctx, "bench", 5)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, raw, got[0].Product.RawPrice, "input %v", raw)
	}
}

func TestCacheRepo_Expires(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "sofa", 5, []domain.Recommendation{oakChair()}))
	key := cache.recommendKey("sofa", 5)
	assert.Equal(t, 5*time.Minute, mr.TTL(key))

	mr.FastForward(6 * time.Minute)

	_, err := cache.Get(ctx, "sofa", 5)
	assert.ErrorIs(t, err, e.ErrCacheMiss)
}

func TestCacheRepo_CorruptValueIsDropped(t *testing.T) {
	cache, mr := newTestCache(t)
	key := cache.recommendKey("sofa", 5)
	require.NoError(t, mr.Set(key, "{not json"))

	_, err := cache.Get(context.Background(), "sofa", 5)

	assert.ErrorIs(t, err, e.ErrCacheMiss)
	assert.False(t, mr.Exists(key))
}

func TestCacheRepo_Unreachable(t *testing.T) {
	redisCfg := &cfg.RedisCfg{
		Addr:         "127.0.0.1:1",
		MaxRetries:   -1,
		DialTimeout:  100 * time.Millisecond,
		Timeout:      100 * time.Millisecond,
		RecommendTTL: time.Minute,
	}
	client := clients.NewRedisClient(redisCfg)
	defer client.Close()
	cache := NewCacheRepo(client, converter.NewRecommendationConverterImpl(), redisCfg, logger.Discard())

	_, err := cache.Get(context.Background(), "sofa", 5)

	require.Error(t, err)
	assert.NotErrorIs(t, err, e.ErrCacheMiss)
}

func TestRecommendKey(t *testing.T) {
	cache, _ := newTestCache(t)

	a := cache.recommendKey("sofa", 5)
	assert.Equal(t, a, cache.recommendKey("sofa", 5))
	assert.NotEqual(t, a, cache.recommendKey("Sofa", 5))
	assert.Regexp(t, `^recommend:[0-9a-f]{64}:5$`, a)
}
