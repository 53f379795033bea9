package kafka

import (
	"fmt"
	"time"

	"github.com/DRSN-tech/recommender-backend/internal/domain"
	"github.com/DRSN-tech/recommender-backend/pkg/e"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// EncodeEvent сериализует событие в google.protobuf.Struct (wire-формат protobuf).
func EncodeEvent(event *domain.RecommendationEvent) ([]byte, error) {
	const op = "kafka.EncodeEvent"

	s, err := structpb.NewStruct(map[string]any{
		"event_id":     event.EventID,
		"event_type":   event.EventType,
		"prompt":       event.Prompt,
		"top_k":        event.TopK,
		"result_count": event.ResultCount,
		"status":       event.Status,
		"cached":       event.Cached,
		"occurred_at":  event.OccurredAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	data, err := proto.MarshalOptions{Deterministic: true}.Marshal(s)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return data, nil
}

// DecodeEvent — обратное преобразование для потребителей топика.
func DecodeEvent(data []byte) (*domain.RecommendationEvent, error) {
	const op = "kafka.DecodeEvent"

	var s structpb.Struct
	if err := proto.Unmarshal(data, &s); err != nil {
		return nil, e.Wrap(op, err)
	}

	fields := s.GetFields()
	occurredAt, err := time.Parse(time.RFC3339Nano, fields["occurred_at"].GetStringValue())
	if err != nil {
		return nil, e.Wrap(op, fmt.Errorf("occurred_at: %w", err))
	}

	return &domain.RecommendationEvent{
		EventID:     fields["event_id"].GetStringValue(),
		EventType:   fields["event_type"].GetStringValue(),
		Prompt:      fields["prompt"].GetStringValue(),
		TopK:        int(fields["top_k"].GetNumberValue()),
		ResultCount: int(fields["result_count"].GetNumberValue()),
		Status:      fields["status"].GetStringValue(),
		Cached:      fields["cached"].GetBoolValue(),
		OccurredAt:  occurredAt,
	}, nil
}
