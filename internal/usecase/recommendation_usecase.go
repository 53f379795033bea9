package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/DRSN-tech/recommender-backend/internal/domain"
	"github.com/DRSN-tech/recommender-backend/pkg/e"
	"github.com/DRSN-tech/recommender-backend/pkg/logger"
	"github.com/google/uuid"
)

// DescriptionUnavailable возвращается вместо описания, когда векторный индекс не подключён.
const DescriptionUnavailable = "GENAI FAILED: Vector DB not connected, cannot generate description."

const backgroundTimeout = 2 * time.Second

// RecommendationUseCase ищет товары, похожие на текст запроса, и снабжает их описаниями.
type RecommendationUseCase struct {
	services    RetrievalServices
	describer   DescriptionGenerator
	images      ImageURLResolver
	cache       RecommendationCache
	events      EventPublisher
	logger      logger.Logger
	defaultTopK int
	maxTopK     int
	wg          sync.WaitGroup
}

// NewRecommendationUC создаёт use case. images, cache и events необязательны (nil — выключено).
func NewRecommendationUC(
	services RetrievalServices,
	describer DescriptionGenerator,
	images ImageURLResolver,
	cache RecommendationCache,
	events EventPublisher,
	logger logger.Logger,
	defaultTopK int,
	maxTopK int,
) *RecommendationUseCase {
	return &RecommendationUseCase{
		services:    services,
		describer:   describer,
		images:      images,
		cache:       cache,
		events:      events,
		logger:      logger,
		defaultTopK: defaultTopK,
		maxTopK:     maxTopK,
	}
}

// Recommend никогда не возвращает ошибку: любой сбой внешних сервисов
// превращается в пустой результат с заполненными Status и Reason.
func (r *RecommendationUseCase) Recommend(ctx context.Context, req *RecommendReq) *RecommendRes {
	const op = "RecommendationUseCase.Recommend"

	topK := r.normalizeTopK(req.TopK)

	embedder := r.services.Embedder()
	index := r.services.Index()
	if embedder == nil || index == nil {
		r.logger.Warnf("AI services not initialized.")
		res := NewRecommendRes(nil, StatusUnavailable, e.Wrap(op, e.ErrServicesNotInitialized))
		r.publishEvent(req.Prompt, topK, res)
		return res
	}

	if res, ok := r.fromCache(ctx, req.Prompt, topK); ok {
		r.publishEvent(req.Prompt, topK, res)
		return res
	}

	items, err := r.retrieve(ctx, embedder, index, req.Prompt, topK)

	var res *RecommendRes
	switch {
	case err != nil:
		r.logger.Errorf(err, "Error during recommendation process")
		res = NewRecommendRes(nil, StatusUpstreamFailure, e.Wrap(op, err))
	case len(items) == 0:
		res = NewRecommendRes(nil, StatusNoMatches, nil)
	default:
		res = NewRecommendRes(items, StatusOK, nil)
		r.storeInCache(req.Prompt, topK, items)
	}

	r.publishEvent(req.Prompt, topK, res)
	return res
}

// Wait дожидается фоновых записей в кэш и отправки событий.
func (r *RecommendationUseCase) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("background recommendation tasks did not finish: %w", ctx.Err())
	}
}

// retrieve: текст -> вектор -> top-K совпадений -> рекомендации с описаниями.
func (r *RecommendationUseCase) retrieve(ctx context.Context, embedder Embedder, index ProductIndex, prompt string, topK int) ([]domain.Recommendation, error) {
	vector, err := embedder.Embed(ctx, prompt)
	if err != nil {
		return nil, e.Wrap("embed", err)
	}

	if err := r.validateVector(vector); err != nil {
		return nil, err
	}

	matches, err := index.Query(ctx, vector, topK)
	if err != nil {
		return nil, e.Wrap("query index", err)
	}

	items := make([]domain.Recommendation, 0, len(matches))
	for _, match := range matches {
		product := domain.NewProductFromMetadata(match.Metadata)

		description, err := r.describe(ctx, product)
		if err != nil {
			return nil, e.Wrap("describe", err)
		}

		product.ImageRef = r.resolveImage(ctx, product.ImageRef)
		items = append(items, *domain.NewRecommendation(product, description, match.Score))
	}

	return items, nil
}

// describe возвращает сигнальную строку, если индекс недоступен.
func (r *RecommendationUseCase) describe(ctx context.Context, product domain.Product) (string, error) {
	if r.services.Index() == nil {
		return DescriptionUnavailable, nil
	}

	return r.describer.Generate(ctx, product)
}

func (r *RecommendationUseCase) resolveImage(ctx context.Context, ref string) string {
	if r.images == nil || ref == "" {
		return ref
	}

	url, err := r.images.Resolve(ctx, ref)
	if err != nil {
		r.logger.Warnf("failed to resolve image reference %q: %v", ref, err)
		return ref
	}

	return url
}

func (r *RecommendationUseCase) validateVector(vector []float32) error {
	if len(vector) == 0 {
		return e.ErrEmptyVector
	}

	if dim := r.services.Dimension(); dim > 0 && len(vector) != dim {
		return e.Wrap(fmt.Sprintf("got %d, want %d", len(vector), dim), e.ErrDimensionMismatch)
	}

	return nil
}

func (r *RecommendationUseCase) fromCache(ctx context.Context, prompt string, topK int) (*RecommendRes, bool) {
	if r.cache == nil {
		return nil, false
	}

	items, err := r.cache.Get(ctx, prompt, topK)
	if err != nil {
		if !errors.Is(err, e.ErrCacheMiss) {
			r.logger.Warnf("recommendation cache lookup failed: %v", err)
		}
		return nil, false
	}

	if len(items) == 0 {
		return nil, false
	}

	res := NewRecommendRes(items, StatusOK, nil)
	res.Cached = true
	return res, true
}

// storeInCache пишет результат в кэш в фоне, не задерживая ответ.
func (r *RecommendationUseCase) storeInCache(prompt string, topK int, items []domain.Recommendation) {
	if r.cache == nil {
		return
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()

		if err := r.cache.Set(ctx, prompt, topK, items); err != nil {
			r.logger.Warnf("Failed to cache recommendations in background: %v", err)
		}
	}()
}

func (r *RecommendationUseCase) publishEvent(prompt string, topK int, res *RecommendRes) {
	if r.events == nil {
		return
	}

	event := domain.NewRecommendationEvent(uuid.NewString(), prompt, topK, len(res.Items), string(res.Status), res.Cached)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()

		if err := r.events.Publish(ctx, event); err != nil {
			r.logger.Warnf("Failed to publish recommendation event %s: %v", event.EventID, err)
		}
	}()
}

func (r *RecommendationUseCase) normalizeTopK(topK int) int {
	if topK <= 0 {
		return r.defaultTopK
	}

	if r.maxTopK > 0 && topK > r.maxTopK {
		return r.maxTopK
	}

	return topK
}
