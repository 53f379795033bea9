package qdrant

import (
	"context"
	"fmt"

	"github.com/DRSN-tech/recommender-backend/internal/domain"
	"github.com/DRSN-tech/recommender-backend/internal/usecase"
	"github.com/DRSN-tech/recommender-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/qdrant/go-client/qdrant"
)

// collections — часть API Qdrant, которой пользуются IndexAdmin и ProductIndex.
type collections interface {
	CollectionExists(ctx context.Context, collectionName string) (bool, error)
	CreateCollection(ctx context.Context, request *qdrant.CreateCollection) error
	Query(ctx context.Context, request *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error)
	Close() error
}

// IndexAdmin управляет коллекциями Qdrant. Индекс товаров — это коллекция с тем же именем.
type IndexAdmin struct {
	client collections
}

func NewIndexAdmin(client *qdrant.Client) *IndexAdmin {
	return &IndexAdmin{client: client}
}

func (a *IndexAdmin) IndexExists(ctx context.Context, name string) (bool, error) {
	exists, err := a.client.CollectionExists(ctx, name)
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), fmt.Errorf("failed to check collection existence: %w", err))
	}

	return exists, nil
}

func (a *IndexAdmin) CreateIndex(ctx context.Context, spec domain.IndexSpec) error {
	distance, err := toDistance(spec.Metric)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := a.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: spec.Name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(spec.Dimension),
			Distance: distance,
		}),
	}); err != nil {
		return e.Wrap(whereami.WhereAmI(), fmt.Errorf("failed to create collection: %w", err))
	}

	return nil
}

// OpenIndex не открывает новых соединений: запросы идут через общий gRPC-клиент.
func (a *IndexAdmin) OpenIndex(_ context.Context, name string) (usecase.ProductIndex, error) {
	return NewProductIndex(a.client, name), nil
}

func (a *IndexAdmin) Close() error {
	return a.client.Close()
}

// ProductIndex ищет ближайшие точки в коллекции и возвращает их payload.
type ProductIndex struct {
	client     collections
	collection string
}

func NewProductIndex(client collections, collection string) *ProductIndex {
	return &ProductIndex{
		client:     client,
		collection: collection,
	}
}

func (p *ProductIndex) Query(ctx context.Context, vector []float32, topK int) ([]domain.Match, error) {
	limit := uint64(topK)
	points, err := p.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: p.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	matches := make([]domain.Match, 0, len(points))
	for _, point := range points {
		md := make(domain.Metadata, len(point.Payload))
		for key, v := range point.Payload {
			md[key] = convertQdrantValue(v)
		}

		matches = append(matches, *domain.NewMatch(pointID(point.Id), point.Score, md))
	}

	return matches, nil
}

// Close ничего не делает: клиентом владеет IndexAdmin.
func (p *ProductIndex) Close() error {
	return nil
}

func toDistance(metric string) (qdrant.Distance, error) {
	switch metric {
	case "cosine":
		return qdrant.Distance_Cosine, nil
	case "dotproduct", "dot":
		return qdrant.Distance_Dot, nil
	case "euclidean":
		return qdrant.Distance_Euclid, nil
	default:
		return qdrant.Distance_UnknownDistance, fmt.Errorf("unsupported metric %q", metric)
	}
}

func pointID(id *qdrant.PointId) string {
	if id == nil {
		return ""
	}

	switch x := id.PointIdOptions.(type) {
	case *qdrant.PointId_Uuid:
		return x.Uuid
	case *qdrant.PointId_Num:
		return fmt.Sprintf("%d", x.Num)
	}

	return ""
}

func convertQdrantValue(v *qdrant.Value) any {
	if v == nil {
		return nil
	}

	switch val := v.Kind.(type) {
	case *qdrant.Value_BoolValue:
		return val.BoolValue
	case *qdrant.Value_IntegerValue:
		return val.IntegerValue
	case *qdrant.Value_DoubleValue:
		return val.DoubleValue
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_NullValue:
		return nil
	case *qdrant.Value_ListValue:
		out := make([]any, len(val.ListValue.Values))
		for i, lv := range val.ListValue.Values {
			out[i] = convertQdrantValue(lv)
		}
		return out
	case *qdrant.Value_StructValue:
		out := make(map[string]any, len(val.StructValue.Fields))
		for k, nv := range val.StructValue.Fields {
			out[k] = convertQdrantValue(nv)
		}
		return out
	}

	return nil
}
