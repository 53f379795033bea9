package converter

import (
	"time"

	"github.com/DRSN-tech/recommender-backend/internal/usecase"
)

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID          int64                `db:"id"`
	EventID     string               `db:"event_id"`
	EventType   string               `db:"event_type"`
	EventKey    string               `db:"event_key"`
	Payload     []byte               `db:"payload"`
	Status      usecase.OutboxStatus `db:"status"`
	CreatedAt   time.Time            `db:"created_at"`
	ProcessedAt *time.Time           `db:"processed_at"`
}
