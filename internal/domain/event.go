package domain

import "time"

const RecommendationServedEvent = "recommendation.served"

// RecommendationEvent фиксирует факт обработки запроса рекомендаций.
type RecommendationEvent struct {
	EventID     string
	EventType   string
	Prompt      string
	TopK        int
	ResultCount int
	Status      string
	Cached      bool
	OccurredAt  time.Time
}

func NewRecommendationEvent(eventID string, prompt string, topK int, resultCount int, status string, cached bool) *RecommendationEvent {
	return &RecommendationEvent{
		EventID:     eventID,
		EventType:   RecommendationServedEvent,
		Prompt:      prompt,
		TopK:        topK,
		ResultCount: resultCount,
		Status:      status,
		Cached:      cached,
		OccurredAt:  time.Now().UTC(),
	}
}
