package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/DRSN-tech/recommender-backend/internal/domain"
	"github.com/DRSN-tech/recommender-backend/pkg/e"
)

type fakeEmbedder struct {
	vector []float32
	err    error
	calls  int
	closed bool
}

func (f *fakeEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	f.calls++
	return f.vector, f.err
}

func (f *fakeEmbedder) Close() error {
	f.closed = true
	return nil
}

type fakeIndex struct {
	matches  []domain.Match
	err      error
	lastTopK int
	closed   bool
}

func (f *fakeIndex) Query(_ context.Context, _ []float32, topK int) ([]domain.Match, error) {
	f.lastTopK = topK
	return f.matches, f.err
}

func (f *fakeIndex) Close() error {
	f.closed = true
	return nil
}

type fakeAdmin struct {
	exists     bool
	existsErr  error
	createErr  error
	openErr    error
	created    []domain.IndexSpec
	index      *fakeIndex
	closed     bool
	existsCall int
}

func (f *fakeAdmin) IndexExists(_ context.Context, _ string) (bool, error) {
	f.existsCall++
	return f.exists, f.existsErr
}

func (f *fakeAdmin) CreateIndex(_ context.Context, spec domain.IndexSpec) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, spec)
	f.exists = true
	return nil
}

func (f *fakeAdmin) OpenIndex(_ context.Context, _ string) (ProductIndex, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return f.index, nil
}

func (f *fakeAdmin) Close() error {
	f.closed = true
	return nil
}

// staticServices — хэндлы без инициализации, для тестов use case.
type staticServices struct {
	embedder Embedder
	index    ProductIndex
	dim      int
}

func (s staticServices) Embedder() Embedder  { return s.embedder }
func (s staticServices) Index() ProductIndex { return s.index }
func (s staticServices) Dimension() int      { return s.dim }

type templateDescriber struct{}

func (templateDescriber) Generate(_ context.Context, p domain.Product) (string, error) {
	return "Behold the '" + p.Title + "' in glorious " + p.Color + " " + p.Material + ".", nil
}

type cdnResolver struct{}

func (cdnResolver) Resolve(_ context.Context, ref string) (string, error) {
	return "https://cdn.example.com/" + strings.ToLower(ref), nil
}

type memoryCache struct {
	mu    sync.Mutex
	items map[string][]domain.Recommendation
	sets  int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string][]domain.Recommendation)}
}

func (m *memoryCache) key(prompt string, topK int) string {
	return fmt.Sprintf("%s|%d", prompt, topK)
}

func (m *memoryCache) Get(_ context.Context, prompt string, topK int) ([]domain.Recommendation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items, ok := m.items[m.key(prompt, topK)]
	if !ok {
		return nil, e.ErrCacheMiss
	}
	return items, nil
}

func (m *memoryCache) Set(_ context.Context, prompt string, topK int, items []domain.Recommendation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	m.items[m.key(prompt, topK)] = items
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*domain.RecommendationEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event *domain.RecommendationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func vectorOf(dim int) []float32 {
	v := make([]float32, dim)
	for i := range v {
		v[i] = 0.01
	}
	return v
}

func oakChairMatch() domain.Match {
	return *domain.NewMatch("p-1", 0.92, domain.Metadata{
		"title":      "Oak Chair",
		"price":      199.99,
		"images":     "url",
		"categories": "Living Room",
		"material":   "Wood",
		"color":      "Brown",
	})
}
