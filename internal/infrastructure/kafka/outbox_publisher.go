package kafka

import (
	"context"

	"github.com/DRSN-tech/recommender-backend/internal/domain"
	"github.com/DRSN-tech/recommender-backend/internal/usecase"
	"github.com/DRSN-tech/recommender-backend/pkg/e"
	"github.com/DRSN-tech/recommender-backend/pkg/tr"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
)

// OutboxPublisher записывает события в таблицу outbox; в Kafka их доставляет OutboxWorker.
type OutboxPublisher struct {
	dbPool transaction.Transactional
	repo   usecase.OutboxRepository
}

func NewOutboxPublisher(dbPool transaction.Transactional, repo usecase.OutboxRepository) *OutboxPublisher {
	return &OutboxPublisher{
		dbPool: dbPool,
		repo:   repo,
	}
}

func (o *OutboxPublisher) Publish(ctx context.Context, event *domain.RecommendationEvent) (err error) {
	const op = "OutboxPublisher.Publish"

	payload, err := EncodeEvent(event)
	if err != nil {
		return e.Wrap(op, err)
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, o.dbPool)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			_ = tx.Rollback(ctx)
		}
	}()
	ctx = tr.WithTx(ctx, tx.Transaction())

	outboxEvent := usecase.NewOutboxEvent(event.EventID, event.EventType, event.EventID, payload)
	if _, err = o.repo.Create(ctx, outboxEvent); err != nil {
		return e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}
