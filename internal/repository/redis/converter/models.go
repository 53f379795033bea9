package converter

import "encoding/json"

// RecommendationRedisModel — рекомендация в том виде, в котором она лежит в кэше.
type RecommendationRedisModel struct {
	Title       string          `json:"title"`
	Price       json.RawMessage `json:"price,omitempty"`
	ImageRef    string          `json:"image_ref,omitempty"`
	Categories  string          `json:"categories,omitempty"`
	Material    string          `json:"material,omitempty"`
	Color       string          `json:"color,omitempty"`
	Description string          `json:"description"`
	Score       float32         `json:"score"`
}
