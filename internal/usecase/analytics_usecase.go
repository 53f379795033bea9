package usecase

import (
	"context"

	"github.com/DRSN-tech/recommender-backend/internal/domain"
)

// AnalyticsUseCase отдаёт снимок аналитики каталога.
// TODO: считать агрегаты по метаданным индекса вместо зафиксированного снимка.
type AnalyticsUseCase struct{}

func NewAnalyticsUC() *AnalyticsUseCase {
	return &AnalyticsUseCase{}
}

func (a *AnalyticsUseCase) GetSnapshot(_ context.Context) *domain.AnalyticsSnapshot {
	return domain.StaticAnalyticsSnapshot()
}
