package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/recommender-backend/internal/domain"
)

// VectorIndexAdmin управляет индексами векторной БД.
type VectorIndexAdmin interface {
	IndexExists(ctx context.Context, name string) (bool, error)
	CreateIndex(ctx context.Context, spec domain.IndexSpec) error
	OpenIndex(ctx context.Context, name string) (ProductIndex, error)
	Close() error
}

// ProductIndex выполняет поиск ближайших векторов с метаданными.
type ProductIndex interface {
	Query(ctx context.Context, vector []float32, topK int) ([]domain.Match, error)
	Close() error
}

type RecommendationCache interface {
	Get(ctx context.Context, prompt string, topK int) ([]domain.Recommendation, error)
	Set(ctx context.Context, prompt string, topK int, items []domain.Recommendation) error
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
	ReturnToPending(ctx context.Context, id int64) error
	RequeueStuck(ctx context.Context, olderThan time.Duration) (int64, error)
}

// ImageRepository выдаёт временные ссылки на объекты в хранилище изображений.
type ImageRepository interface {
	PresignGet(ctx context.Context, key string) (string, error)
}
