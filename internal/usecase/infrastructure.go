package usecase

import (
	"context"

	"github.com/DRSN-tech/recommender-backend/internal/domain"
)

// Embedder превращает текст в вектор фиксированной длины.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Close() error
}

// DescriptionGenerator генерирует описание товара по его полям.
type DescriptionGenerator interface {
	Generate(ctx context.Context, product domain.Product) (string, error)
}

// ImageURLResolver превращает ссылку на изображение из метаданных в URL для клиента.
type ImageURLResolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

// EventPublisher доставляет события о выданных рекомендациях.
type EventPublisher interface {
	Publish(ctx context.Context, event *domain.RecommendationEvent) error
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}
