package ml_service

import (
	"context"
	"fmt"
	"time"

	"github.com/DRSN-tech/recommender-backend/pkg/e"
	"github.com/DRSN-tech/recommender-backend/pkg/jitter"
	"github.com/DRSN-tech/recommender-backend/pkg/logger"
)

// embedClient — транспорт до сервиса эмбеддингов (HTTP или gRPC).
type embedClient interface {
	embed(ctx context.Context, text string) ([]float32, error)
	close() error
}

// MLService клиент для векторизации текста внешним ML-сервисом
type MLService struct {
	client      embedClient
	maxRetries  int
	baseBackoff time.Duration
	maxBackoff  time.Duration
	logger      logger.Logger
}

func newMLService(client embedClient, maxRetries int, logger logger.Logger) *MLService {
	const (
		baseBackoff = 200 * time.Millisecond
		maxBackoff  = 2 * time.Second
	)

	if maxRetries < 1 {
		maxRetries = 1
	}

	return &MLService{
		client:      client,
		maxRetries:  maxRetries,
		baseBackoff: baseBackoff,
		maxBackoff:  maxBackoff,
		logger:      logger,
	}
}

// Embed выполняет векторизацию текста с retry-логикой и экспоненциальной задержкой
func (m *MLService) Embed(ctx context.Context, text string) ([]float32, error) {
	const op = "MLService.Embed"

	var lastErr error
	for attempt := 0; attempt < m.maxRetries; attempt++ {
		vector, err := m.client.embed(ctx, text)
		if err == nil {
			return vector, nil
		}
		lastErr = err

		if attempt == m.maxRetries-1 {
			break
		}

		sleepTime := jitter.ExponentialBackoff(
			m.baseBackoff,
			m.maxBackoff,
			attempt,
			jitter.DefaultJitter,
		)

		m.logger.Warnf("embedding failed, retrying in %v (attempt %d): %v", sleepTime, attempt+1, err)
		select {
		case <-time.After(sleepTime):
		case <-ctx.Done():
			return nil, e.Wrap(op, ctx.Err())
		}
	}

	return nil, e.Wrap(op, fmt.Errorf("all %d attempts failed: %w", m.maxRetries, lastErr))
}

func (m *MLService) Close() error {
	return m.client.close()
}
