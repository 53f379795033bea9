package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/DRSN-tech/recommender-backend/internal/domain"
	"github.com/DRSN-tech/recommender-backend/pkg/e"
	"github.com/DRSN-tech/recommender-backend/pkg/logger"
)

// EmbedderFactory создаёт клиент модели эмбеддингов.
type EmbedderFactory func(ctx context.Context) (Embedder, error)

// IndexConnector подключается к векторной БД.
type IndexConnector func(ctx context.Context) (VectorIndexAdmin, error)

// ServiceHandles хранит хэндлы модели эмбеддингов и векторного индекса.
// Init вызывается один раз до приёма трафика, после этого хэндлы только читаются.
type ServiceHandles struct {
	mu       sync.RWMutex
	embedder Embedder
	index    ProductIndex
	admin    VectorIndexAdmin

	newEmbedder  EmbedderFactory
	connectIndex IndexConnector
	spec         domain.IndexSpec
	readyDelay   time.Duration
	logger       logger.Logger
	sleep        func(ctx context.Context, d time.Duration) error
}

func NewServiceHandles(
	newEmbedder EmbedderFactory,
	connectIndex IndexConnector,
	spec domain.IndexSpec,
	readyDelay time.Duration,
	logger logger.Logger,
) *ServiceHandles {
	return &ServiceHandles{
		newEmbedder:  newEmbedder,
		connectIndex: connectIndex,
		spec:         spec,
		readyDelay:   readyDelay,
		logger:       logger,
		sleep:        sleepCtx,
	}
}

// Init устанавливает недостающие хэндлы. Уже установленные не трогает.
// Ошибки подключения логируются: сервис продолжает работать без поиска.
func (s *ServiceHandles) Init(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.embedder == nil {
		s.logger.Infof("Loading embedding model client...")
		embedder, err := s.newEmbedder(ctx)
		if err != nil {
			s.logger.Errorf(err, "CRITICAL ERROR: failed to initialize embedding model. Recommendations will fail.")
		} else {
			s.embedder = embedder
		}
	}

	if s.index == nil {
		s.logger.Infof("Connecting to vector index: %s...", s.spec.Name)
		if err := s.openIndex(ctx); err != nil {
			s.logger.Errorf(err, "CRITICAL ERROR: failed to connect to vector index. Recommendations will fail.")
			return
		}
		s.logger.Infof("Successfully connected to vector index: %s", s.spec.Name)
	}
}

// openIndex подключается к БД, при необходимости создаёт индекс и открывает его.
func (s *ServiceHandles) openIndex(ctx context.Context) (err error) {
	const op = "ServiceHandles.openIndex"

	admin, err := s.connectIndex(ctx)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if err != nil {
			if closeErr := admin.Close(); closeErr != nil {
				s.logger.Warnf("failed to close vector index client: %v", closeErr)
			}
		}
	}()

	exists, err := admin.IndexExists(ctx, s.spec.Name)
	if err != nil {
		return e.Wrap(op, err)
	}

	if !exists {
		s.logger.Warnf("Index '%s' not found, creating it (dimension=%d, metric=%s)", s.spec.Name, s.spec.Dimension, s.spec.Metric)
		if err = admin.CreateIndex(ctx, s.spec); err != nil {
			return e.Wrap(op, err)
		}

		// Индекс становится доступен не сразу после создания
		if err = s.sleep(ctx, s.readyDelay); err != nil {
			return e.Wrap(op, err)
		}
	}

	index, err := admin.OpenIndex(ctx, s.spec.Name)
	if err != nil {
		return e.Wrap(op, err)
	}

	s.admin = admin
	s.index = index
	return nil
}

func (s *ServiceHandles) Embedder() Embedder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.embedder
}

func (s *ServiceHandles) Index() ProductIndex {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

func (s *ServiceHandles) Dimension() int {
	return s.spec.Dimension
}

// Ready сообщает, установлены ли оба хэндла.
func (s *ServiceHandles) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.embedder != nil && s.index != nil
}

// Close освобождает хэндлы при остановке процесса.
func (s *ServiceHandles) Close(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if s.index != nil {
		errs = append(errs, s.index.Close())
		s.index = nil
	}
	if s.admin != nil {
		errs = append(errs, s.admin.Close())
		s.admin = nil
	}
	if s.embedder != nil {
		errs = append(errs, s.embedder.Close())
		s.embedder = nil
	}

	return errors.Join(errs...)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
