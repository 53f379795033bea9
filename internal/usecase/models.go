package usecase

import (
	"time"

	"github.com/DRSN-tech/recommender-backend/internal/domain"
)

// RECOMMENDATION USECASE

// RecommendReq — запрос рекомендаций по свободному тексту.
type RecommendReq struct {
	Prompt string
	TopK   int // 0 — значение по умолчанию
}

// RecommendStatus объясняет, почему результат такой, какой есть.
type RecommendStatus string

const (
	StatusOK              RecommendStatus = "ok"
	StatusNoMatches       RecommendStatus = "no_matches"
	StatusUnavailable     RecommendStatus = "unavailable"
	StatusUpstreamFailure RecommendStatus = "upstream_failure"
)

// RecommendRes — результат поиска. При сбое Items пуст, а Reason содержит причину.
type RecommendRes struct {
	Items  []domain.Recommendation
	Status RecommendStatus
	Reason error
	Cached bool
}

func (r *RecommendRes) Empty() bool {
	return len(r.Items) == 0
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

// OutboxEvent — событие, ожидающее отправки в Kafka.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   string
	EventKey    string
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// INFRASTRUCTURE

type WriteRawMessageReq struct {
	Key     string
	Payload []byte
}

// MAPPERS

func NewRecommendReq(prompt string, topK int) *RecommendReq {
	return &RecommendReq{
		Prompt: prompt,
		TopK:   topK,
	}
}

func NewRecommendRes(items []domain.Recommendation, status RecommendStatus, reason error) *RecommendRes {
	return &RecommendRes{
		Items:  items,
		Status: status,
		Reason: reason,
	}
}

func NewOutboxEvent(eventID string, eventType string, key string, payload []byte) *OutboxEvent {
	return &OutboxEvent{
		EventID:   eventID,
		EventType: eventType,
		EventKey:  key,
		Payload:   payload,
		Status:    Pending,
		CreatedAt: time.Now().UTC(),
	}
}

func NewWriteRawMessageReq(key string, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		Key:     key,
		Payload: payload,
	}
}
