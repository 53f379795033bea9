package clients

import (
	"github.com/DRSN-tech/recommender-backend/internal/cfg"
	"github.com/DRSN-tech/recommender-backend/pkg/e"
	"github.com/jimlawless/whereami"
	pc "github.com/pinecone-io/go-pinecone/v4/pinecone"
)

func NewPineconeClient(cfg *cfg.PineconeCfg) (*pc.Client, error) {
	if cfg.ApiKey == "" {
		return nil, e.Wrap("PINECONE_API_KEY", e.ErrIncorrectEnvVariable)
	}

	client, err := pc.NewClient(pc.NewClientParams{
		ApiKey: cfg.ApiKey,
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return client, nil
}
