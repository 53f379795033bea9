package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/DRSN-tech/recommender-backend/internal/domain"
	"github.com/DRSN-tech/recommender-backend/pkg/e"
	"github.com/DRSN-tech/recommender-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUC(services RetrievalServices, images ImageURLResolver, cache RecommendationCache, events EventPublisher) *RecommendationUseCase {
	return NewRecommendationUC(services, templateDescriber{}, images, cache, events, logger.Discard(), 5, 50)
}

func TestRecommend_OakChairScenario(t *testing.T) {
	index := &fakeIndex{matches: []domain.Match{oakChairMatch()}}
	uc := newTestUC(staticServices{embedder: &fakeEmbedder{vector: vectorOf(384)}, index: index, dim: 384}, nil, nil, nil)

	res := uc.Recommend(context.Background(), NewRecommendReq("cozy reading chair", 0))

	require.Equal(t, StatusOK, res.Status)
	require.Len(t, res.Items, 1)
	assert.Equal(t, 5, index.lastTopK)

	item := res.Items[0]
	assert.Equal(t, "Oak Chair", item.Product.Title)
	assert.Equal(t, "199.99", item.Product.Price.String())
	assert.Equal(t, "url", item.Product.ImageRef)
	assert.Equal(t, "Living Room", item.Product.Categories)
	assert.Equal(t, "Wood", item.Product.Material)
	assert.Equal(t, "Brown", item.Product.Color)
	assert.Contains(t, item.Description, "Oak Chair")
	assert.Contains(t, item.Description, "Brown")
	assert.Contains(t, item.Description, "Wood")
}

func TestRecommend_UnsetHandlesFailFast(t *testing.T) {
	embedder := &fakeEmbedder{vector: vectorOf(384)}

	cases := map[string]staticServices{
		"no index":    {embedder: embedder, dim: 384},
		"no embedder": {index: &fakeIndex{}, dim: 384},
		"nothing":     {dim: 384},
	}

	for name, services := range cases {
		t.Run(name, func(t *testing.T) {
			res := newTestUC(services, nil, nil, nil).Recommend(context.Background(), NewRecommendReq("sofa", 0))

			assert.True(t, res.Empty())
			assert.Equal(t, StatusUnavailable, res.Status)
			assert.ErrorIs(t, res.Reason, e.ErrServicesNotInitialized)
		})
	}
	assert.Zero(t, embedder.calls)
}

func TestRecommend_IndexFailureDegradesToEmpty(t *testing.T) {
	index := &fakeIndex{err: errors.New("pinecone: 503 service unavailable")}
	uc := newTestUC(staticServices{embedder: &fakeEmbedder{vector: vectorOf(384)}, index: index, dim: 384}, nil, nil, nil)

	res := uc.Recommend(context.Background(), NewRecommendReq("sofa", 3))

	assert.True(t, res.Empty())
	assert.Equal(t, StatusUpstreamFailure, res.Status)
	assert.ErrorContains(t, res.Reason, "503")
}

func TestRecommend_EmbedderFailureDegradesToEmpty(t *testing.T) {
	uc := newTestUC(staticServices{embedder: &fakeEmbedder{err: errors.New("connection refused")}, index: &fakeIndex{}, dim: 384}, nil, nil, nil)

	res := uc.Recommend(context.Background(), NewRecommendReq("sofa", 0))

	assert.True(t, res.Empty())
	assert.Equal(t, StatusUpstreamFailure, res.Status)
}

func TestRecommend_RejectsWrongDimension(t *testing.T) {
	index := &fakeIndex{matches: []domain.Match{oakChairMatch()}}
	uc := newTestUC(staticServices{embedder: &fakeEmbedder{vector: vectorOf(768)}, index: index, dim: 384}, nil, nil, nil)

	res := uc.Recommend(context.Background(), NewRecommendReq("sofa", 0))

	assert.Equal(t, StatusUpstreamFailure, res.Status)
	assert.ErrorIs(t, res.Reason, e.ErrDimensionMismatch)
}

func TestRecommend_NoMatches(t *testing.T) {
	uc := newTestUC(staticServices{embedder: &fakeEmbedder{vector: vectorOf(384)}, index: &fakeIndex{}, dim: 384}, nil, nil, nil)

	res := uc.Recommend(context.Background(), NewRecommendReq("sofa", 0))

	assert.True(t, res.Empty())
	assert.Equal(t, StatusNoMatches, res.Status)
	assert.NoError(t, res.Reason)
}

func TestRecommend_TopKBounds(t *testing.T) {
	index := &fakeIndex{}
	uc := newTestUC(staticServices{embedder: &fakeEmbedder{vector: vectorOf(384)}, index: index, dim: 384}, nil, nil, nil)

	uc.Recommend(context.Background(), NewRecommendReq("sofa", 12))
	assert.Equal(t, 12, index.lastTopK)

	uc.Recommend(context.Background(), NewRecommendReq("sofa", 500))
	assert.Equal(t, 50, index.lastTopK)
}

func TestRecommend_ResolvesImages(t *testing.T) {
	match := *domain.NewMatch("p-2", 0.5, domain.Metadata{"title": "Lamp", "images": "Lamps/Lamp-1.JPG"})
	uc := newTestUC(staticServices{
		embedder: &fakeEmbedder{vector: vectorOf(384)},
		index:    &fakeIndex{matches: []domain.Match{match}},
		dim:      384,
	}, cdnResolver{}, nil, nil)

	res := uc.Recommend(context.Background(), NewRecommendReq("lamp", 0))

	require.Len(t, res.Items, 1)
	assert.Equal(t, "https://cdn.example.com/lamps/lamp-1.jpg", res.Items[0].Product.ImageRef)
}

func TestRecommend_CachesSuccessfulResults(t *testing.T) {
	embedder := &fakeEmbedder{vector: vectorOf(384)}
	cache := newMemoryCache()
	uc := newTestUC(staticServices{
		embedder: embedder,
		index:    &fakeIndex{matches: []domain.Match{oakChairMatch()}},
		dim:      384,
	}, nil, cache, nil)

	first := uc.Recommend(context.Background(), NewRecommendReq("cozy reading chair", 0))
	require.NoError(t, uc.Wait(context.Background()))
	second := uc.Recommend(context.Background(), NewRecommendReq("cozy reading chair", 0))

	assert.False(t, first.Cached)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Items, second.Items)
	assert.Equal(t, 1, embedder.calls)
	assert.Equal(t, 1, cache.sets)
}

func TestRecommend_DoesNotCacheFailures(t *testing.T) {
	cache := newMemoryCache()
	uc := newTestUC(staticServices{
		embedder: &fakeEmbedder{vector: vectorOf(384)},
		index:    &fakeIndex{err: errors.New("boom")},
		dim:      384,
	}, nil, cache, nil)

	uc.Recommend(context.Background(), NewRecommendReq("sofa", 0))
	require.NoError(t, uc.Wait(context.Background()))

	assert.Zero(t, cache.sets)
}

func TestRecommend_PublishesEvents(t *testing.T) {
	publisher := &recordingPublisher{}
	uc := newTestUC(staticServices{
		embedder: &fakeEmbedder{vector: vectorOf(384)},
		index:    &fakeIndex{matches: []domain.Match{oakChairMatch()}},
		dim:      384,
	}, nil, nil, publisher)

	uc.Recommend(context.Background(), NewRecommendReq("cozy reading chair", 0))
	require.NoError(t, uc.Wait(context.Background()))

	require.Len(t, publisher.events, 1)
	event := publisher.events[0]
	assert.Equal(t, domain.RecommendationServedEvent, event.EventType)
	assert.Equal(t, "cozy reading chair", event.Prompt)
	assert.Equal(t, 5, event.TopK)
	assert.Equal(t, 1, event.ResultCount)
	assert.Equal(t, string(StatusOK), event.Status)
	assert.NotEmpty(t, event.EventID)
}

func TestDescribe_SentinelWhenIndexUnset(t *testing.T) {
	uc := newTestUC(staticServices{embedder: &fakeEmbedder{}, dim: 384}, nil, nil, nil)

	desc, err := uc.describe(context.Background(), domain.Product{Title: "Oak Chair"})

	require.NoError(t, err)
	assert.Equal(t, DescriptionUnavailable, desc)
}

func TestAnalyticsUseCase_IsFixed(t *testing.T) {
	uc := NewAnalyticsUC()

	assert.Equal(t, uc.GetSnapshot(context.Background()), uc.GetSnapshot(context.Background()))
	assert.Equal(t, 1024, uc.GetSnapshot(context.Background()).TotalProducts)
}
