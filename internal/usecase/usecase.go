package usecase

import (
	"context"

	"github.com/DRSN-tech/recommender-backend/internal/domain"
)

type RecommendationUC interface {
	Recommend(ctx context.Context, req *RecommendReq) *RecommendRes
}

type AnalyticsUC interface {
	GetSnapshot(ctx context.Context) *domain.AnalyticsSnapshot
}

// RetrievalServices отдаёт процессные хэндлы модели эмбеддингов и векторного индекса.
// Любой из них может быть nil, если инициализация не удалась.
type RetrievalServices interface {
	Embedder() Embedder
	Index() ProductIndex
	Dimension() int
}
