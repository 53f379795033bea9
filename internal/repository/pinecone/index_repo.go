package pinecone

import (
	"context"
	"fmt"

	"github.com/DRSN-tech/recommender-backend/internal/cfg"
	"github.com/DRSN-tech/recommender-backend/internal/domain"
	"github.com/DRSN-tech/recommender-backend/internal/usecase"
	"github.com/DRSN-tech/recommender-backend/pkg/e"
	"github.com/jimlawless/whereami"
	pc "github.com/pinecone-io/go-pinecone/v4/pinecone"
)

// controlPlane — часть API Pinecone, которой пользуется IndexAdmin.
type controlPlane interface {
	ListIndexes(ctx context.Context) ([]*pc.Index, error)
	CreateServerlessIndex(ctx context.Context, in *pc.CreateServerlessIndexRequest) (*pc.Index, error)
	DescribeIndex(ctx context.Context, idxName string) (*pc.Index, error)
}

type indexConn interface {
	QueryByVectorValues(ctx context.Context, in *pc.QueryByVectorValuesRequest) (*pc.QueryVectorsResponse, error)
	Close() error
}

// IndexAdmin создаёт serverless-индексы Pinecone и открывает к ним соединения.
type IndexAdmin struct {
	client  controlPlane
	connect func(host string) (indexConn, error)
	cfg     *cfg.PineconeCfg
}

func NewIndexAdmin(client *pc.Client, cfg *cfg.PineconeCfg) *IndexAdmin {
	return &IndexAdmin{
		client: client,
		connect: func(host string) (indexConn, error) {
			return client.Index(pc.NewIndexConnParams{Host: host})
		},
		cfg: cfg,
	}
}

func (a *IndexAdmin) IndexExists(ctx context.Context, name string) (bool, error) {
	indexes, err := a.client.ListIndexes(ctx)
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	for _, idx := range indexes {
		if idx != nil && idx.Name == name {
			return true, nil
		}
	}

	return false, nil
}

// CreateIndex создаёт serverless-индекс в облаке и регионе из конфигурации.
func (a *IndexAdmin) CreateIndex(ctx context.Context, spec domain.IndexSpec) error {
	dimension := int32(spec.Dimension)
	metric := pc.IndexMetric(spec.Metric)

	_, err := a.client.CreateServerlessIndex(ctx, &pc.CreateServerlessIndexRequest{
		Name:      spec.Name,
		Dimension: &dimension,
		Metric:    &metric,
		Cloud:     pc.Cloud(a.cfg.Cloud),
		Region:    a.cfg.Region,
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (a *IndexAdmin) OpenIndex(ctx context.Context, name string) (usecase.ProductIndex, error) {
	idx, err := a.client.DescribeIndex(ctx, name)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if idx == nil || idx.Host == "" {
		return nil, e.Wrap(name, e.ErrIndexNotFound)
	}

	conn, err := a.connect(idx.Host)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return NewProductIndex(conn), nil
}

// Close ничего не делает: REST-клиент Pinecone не держит соединений.
func (a *IndexAdmin) Close() error {
	return nil
}

// ProductIndex выполняет top-K запросы к одному индексу Pinecone.
type ProductIndex struct {
	conn indexConn
}

func NewProductIndex(conn indexConn) *ProductIndex {
	return &ProductIndex{conn: conn}
}

func (p *ProductIndex) Query(ctx context.Context, vector []float32, topK int) ([]domain.Match, error) {
	res, err := p.conn.QueryByVectorValues(ctx, &pc.QueryByVectorValuesRequest{
		Vector:          vector,
		TopK:            uint32(topK),
		IncludeValues:   false,
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return toMatches(res.Matches), nil
}

func (p *ProductIndex) Close() error {
	if err := p.conn.Close(); err != nil {
		return fmt.Errorf("close pinecone index connection: %w", err)
	}

	return nil
}

func toMatches(scored []*pc.ScoredVector) []domain.Match {
	matches := make([]domain.Match, 0, len(scored))
	for _, sv := range scored {
		if sv == nil || sv.Vector == nil {
			continue
		}

		md := domain.Metadata{}
		if sv.Vector.Metadata != nil {
			md = sv.Vector.Metadata.AsMap()
		}

		matches = append(matches, *domain.NewMatch(sv.Vector.Id, sv.Score, md))
	}

	return matches
}
