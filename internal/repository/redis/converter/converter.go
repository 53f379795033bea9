package converter

import (
	"encoding/json"

	"github.com/DRSN-tech/recommender-backend/internal/domain"
)

type RecommendationConverter interface {
	ToRedisModel(entity *domain.Recommendation) *RecommendationRedisModel
	ToDomain(model *RecommendationRedisModel) *domain.Recommendation
	ToArrRedisModel(entities []domain.Recommendation) []RecommendationRedisModel
	ToArrDomain(models []RecommendationRedisModel) []domain.Recommendation
}

type RecommendationConverterImpl struct{}

func NewRecommendationConverterImpl() *RecommendationConverterImpl {
	return &RecommendationConverterImpl{}
}

func (c *RecommendationConverterImpl) ToRedisModel(entity *domain.Recommendation) *RecommendationRedisModel {
	if entity == nil {
		return nil
	}

	return &RecommendationRedisModel{
		Title:       entity.Product.Title,
		Price:       ConvertPrice(entity.Product.RawPrice),
		ImageRef:    entity.Product.ImageRef,
		Categories:  entity.Product.Categories,
		Material:    entity.Product.Material,
		Color:       entity.Product.Color,
		Description: entity.Description,
		Score:       entity.Score,
	}
}

func (c *RecommendationConverterImpl) ToDomain(model *RecommendationRedisModel) *domain.Recommendation {
	if model == nil {
		return nil
	}

	rawPrice := ParsePrice(model.Price)
	product := domain.Product{
		Title:      model.Title,
		RawPrice:   rawPrice,
		Price:      domain.ParsePrice(rawPrice),
		ImageRef:   model.ImageRef,
		Categories: model.Categories,
		Material:   model.Material,
		Color:      model.Color,
	}

	return domain.NewRecommendation(product, model.Description, model.Score)
}

func (c *RecommendationConverterImpl) ToArrRedisModel(entities []domain.Recommendation) []RecommendationRedisModel {
	if entities == nil {
		return nil
	}

	models := make([]RecommendationRedisModel, len(entities))
	for i := range entities {
		models[i] = *c.ToRedisModel(&entities[i])
	}

	return models
}

func (c *RecommendationConverterImpl) ToArrDomain(models []RecommendationRedisModel) []domain.Recommendation {
	if models == nil {
		return nil
	}

	entities := make([]domain.Recommendation, len(models))
	for i := range models {
		entities[i] = *c.ToDomain(&models[i])
	}

	return entities
}

// ConvertPrice сохраняет цену из метаданных как есть, в JSON.
func ConvertPrice(raw any) json.RawMessage {
	if raw == nil {
		return nil
	}

	b, err := json.Marshal(raw)
	if err != nil {
		return nil
	}

	return b
}

// ParsePrice восстанавливает исходное значение цены. Числа читаются как float64,
// так же как их отдаёт protobuf Struct из векторной БД.
func ParsePrice(b json.RawMessage) any {
	if len(b) == 0 {
		return nil
	}

	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}

	return raw
}
