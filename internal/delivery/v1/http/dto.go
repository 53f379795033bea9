package http

import (
	"encoding/json"

	"github.com/DRSN-tech/recommender-backend/internal/domain"
)

// RecommendRequest — тело POST /api/recommend.
type RecommendRequest struct {
	Prompt string `json:"prompt" validate:"required" example:"cozy reading chair"`
	TopK   *int   `json:"top_k,omitempty" validate:"omitempty,min=1,max=50" example:"5"`
}

// RecommendationResponse — одна рекомендация в ответе API.
// Price отдаётся ровно таким, каким лежит в метаданных индекса: числом, строкой или чем угодно ещё.
type RecommendationResponse struct {
	Title               string `json:"title" example:"Oak Chair"`
	Price               any    `json:"price,omitempty" swaggertype:"number" example:"199.99"`
	ImageURL            string `json:"image_url,omitempty" example:"https://example.com/oak-chair.jpg"`
	Categories          string `json:"categories,omitempty" example:"Living Room"`
	Material            string `json:"material,omitempty" example:"Wood"`
	Color               string `json:"color,omitempty" example:"Brown"`
	CreativeDescription string `json:"creative_description"`
}

type HealthResponse struct {
	Status string `json:"status" example:"AI Recommender Backend is operational."`
}

type CategoryCountResponse struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type BrandCountResponse struct {
	Brand string `json:"brand"`
	Count int    `json:"count"`
}

type AnalyticsResponse struct {
	TotalProducts      int                     `json:"total_products"`
	TopCategories      []CategoryCountResponse `json:"top_categories"`
	AvgPriceByMaterial map[string]float64      `json:"avg_price_by_material"`
	BrandDistribution  []BrandCountResponse    `json:"brand_distribution"`
}

const (
	HealthStatus = "AI Recommender Backend is operational."

	FallbackTitle       = "Fallback Sofa"
	FallbackPrice       = "999.99"
	FallbackImageURL    = "https://placehold.co/400x300/CCCCCC/000000?text=AI+Offline"
	FallbackDescription = "Our systems are temporarily offline, but we still recommend comfort."
)

// FallbackRecommendation — запись-заглушка, которую API отдаёт вместо пустого списка.
func FallbackRecommendation() RecommendationResponse {
	return RecommendationResponse{
		Title:               FallbackTitle,
		Price:               json.Number(FallbackPrice),
		ImageURL:            FallbackImageURL,
		CreativeDescription: FallbackDescription,
	}
}

func toRecommendationResponse(rec domain.Recommendation) RecommendationResponse {
	return RecommendationResponse{
		Title:               rec.Product.Title,
		Price:               rec.Product.RawPrice,
		ImageURL:            rec.Product.ImageRef,
		Categories:          rec.Product.Categories,
		Material:            rec.Product.Material,
		Color:               rec.Product.Color,
		CreativeDescription: rec.Description,
	}
}

func toArrRecommendationResponse(recs []domain.Recommendation) []RecommendationResponse {
	out := make([]RecommendationResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toRecommendationResponse(rec))
	}

	return out
}

func toAnalyticsResponse(s *domain.AnalyticsSnapshot) AnalyticsResponse {
	categories := make([]CategoryCountResponse, 0, len(s.TopCategories))
	for _, c := range s.TopCategories {
		categories = append(categories, CategoryCountResponse{Name: c.Name, Count: c.Count})
	}

	brands := make([]BrandCountResponse, 0, len(s.BrandDistribution))
	for _, b := range s.BrandDistribution {
		brands = append(brands, BrandCountResponse{Brand: b.Brand, Count: b.Count})
	}

	return AnalyticsResponse{
		TotalProducts:      s.TotalProducts,
		TopCategories:      categories,
		AvgPriceByMaterial: s.AvgPriceByMaterial,
		BrandDistribution:  brands,
	}
}
