package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DRSN-tech/recommender-backend/internal/cfg"
	"github.com/DRSN-tech/recommender-backend/internal/domain"
	"github.com/DRSN-tech/recommender-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/recommender-backend/pkg/clients"
	"github.com/DRSN-tech/recommender-backend/pkg/e"
	"github.com/DRSN-tech/recommender-backend/pkg/logger"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

// CacheRepo кэширует готовые рекомендации по паре (prompt, top_k).
type CacheRepo struct {
	client *clients.RedisClient
	conv   converter.RecommendationConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, conv converter.RecommendationConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// Get возвращает e.ErrCacheMiss, если ключа нет или значение не читается.
func (c *CacheRepo) Get(ctx context.Context, prompt string, topK int) ([]domain.Recommendation, error) {
	key := c.recommendKey(prompt, topK)

	data, err := c.client.Client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return nil, e.ErrCacheMiss
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var models []converter.RecommendationRedisModel
	if err := json.Unmarshal(data, &models); err != nil {
		c.logger.Warnf("Redis unmarshal failed, dropping key %s: %v", key, err)
		if err := c.client.Client.Del(ctx, key).Err(); err != nil {
			c.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
		}
		return nil, e.ErrCacheMiss
	}

	return c.conv.ToArrDomain(models), nil
}

// Set сохраняет рекомендации с TTL из конфигурации.
func (c *CacheRepo) Set(ctx context.Context, prompt string, topK int, items []domain.Recommendation) error {
	data, err := json.Marshal(c.conv.ToArrRedisModel(items))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := c.client.Client.Set(ctx, c.recommendKey(prompt, topK), data, c.cfg.RecommendTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// recommendKey хэширует prompt, чтобы длина ключа не зависела от текста запроса
func (c *CacheRepo) recommendKey(prompt string, topK int) string {
	sum := sha256.Sum256([]byte(prompt))
	return fmt.Sprintf("recommend:%s:%d", hex.EncodeToString(sum[:]), topK)
}
