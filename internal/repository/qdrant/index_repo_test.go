package qdrant

import (
	"context"
	"errors"
	"testing"

	"github.com/DRSN-tech/recommender-backend/internal/domain"
	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCollections struct {
	existing map[string]bool
	created  []*qdrant.CreateCollection
	query    *qdrant.QueryPoints
	points   []*qdrant.ScoredPoint
	err      error
	closed   bool
}

func (f *fakeCollections) CollectionExists(_ context.Context, name string) (bool, error) {
	return f.existing[name], f.err
}

func (f *fakeCollections) CreateCollection(_ context.Context, req *qdrant.CreateCollection) error {
	f.created = append(f.created, req)
	return f.err
}

func (f *fakeCollections) Query(_ context.Context, req *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error) {
	f.query = req
	return f.points, f.err
}

func (f *fakeCollections) Close() error {
	f.closed = true
	return nil
}

func TestIndexAdmin_CreateIndex(t *testing.T) {
	fc := &fakeCollections{}
	admin := &IndexAdmin{client: fc}

	err := admin.CreateIndex(context.Background(), domain.NewIndexSpec("furniture-recommender", 384, "cosine"))

	require.NoError(t, err)
	require.Len(t, fc.created, 1)
	params := fc.created[0].GetVectorsConfig().GetParams()
	assert.Equal(t, "furniture-recommender", fc.created[0].CollectionName)
	assert.Equal(t, uint64(384), params.GetSize())
	assert.Equal(t, qdrant.Distance_Cosine, params.GetDistance())
}

func TestIndexAdmin_CreateIndexUnknownMetric(t *testing.T) {
	fc := &fakeCollections{}
	admin := &IndexAdmin{client: fc}

	err := admin.CreateIndex(context.Background(), domain.NewIndexSpec("x", 384, "manhattan"))

	assert.ErrorContains(t, err, "manhattan")
	assert.Empty(t, fc.created)
}

func TestIndexAdmin_IndexExists(t *testing.T) {
	admin := &IndexAdmin{client: &fakeCollections{existing: map[string]bool{"furniture-recommender": true}}}

	ok, err := admin.IndexExists(context.Background(), "furniture-recommender")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = admin.IndexExists(context.Background(), "other")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProductIndex_Query(t *testing.T) {
	fc := &fakeCollections{points: []*qdrant.ScoredPoint{
		{
			Id:    qdrant.NewIDNum(42),
			Score: 0.87,
			Payload: qdrant.NewValueMap(map[string]any{
				"title":      "Oak Chair",
				"price":      199.99,
				"images":     "url",
				"categories": []any{"Living Room", "Chairs"},
				"material":   "Wood",
				"color":      "Brown",
			}),
		},
	}}
	idx := NewProductIndex(fc, "furniture-recommender")

	matches, err := idx.Query(context.Background(), []float32{0.1, 0.2}, 5)

	require.NoError(t, err)
	assert.Equal(t, "furniture-recommender", fc.query.CollectionName)
	assert.Equal(t, uint64(5), fc.query.GetLimit())
	require.Len(t, matches, 1)
	assert.Equal(t, "42", matches[0].ID)
	assert.Equal(t, float32(0.87), matches[0].Score)

	product := domain.NewProductFromMetadata(matches[0].Metadata)
	assert.Equal(t, "Oak Chair", product.Title)
	assert.Equal(t, "199.99", product.Price.String())
	assert.Equal(t, "Living Room, Chairs", product.Categories)
	assert.Equal(t, "Brown", product.Color)
}

func TestProductIndex_QueryError(t *testing.T) {
	idx := NewProductIndex(&fakeCollections{err: errors.New("collection not found")}, "x")

	_, err := idx.Query(context.Background(), []float32{0.1}, 5)

	assert.ErrorContains(t, err, "collection not found")
}

func TestConvertQdrantValue(t *testing.T) {
	payload := qdrant.NewValueMap(map[string]any{
		"n":    int64(3),
		"ok":   true,
		"nil":  nil,
		"nest": map[string]any{"a": "b"},
	})

	assert.Equal(t, int64(3), convertQdrantValue(payload["n"]))
	assert.Equal(t, true, convertQdrantValue(payload["ok"]))
	assert.Nil(t, convertQdrantValue(payload["nil"]))
	assert.Equal(t, map[string]any{"a": "b"}, convertQdrantValue(payload["nest"]))
	assert.Nil(t, convertQdrantValue(nil))
}
