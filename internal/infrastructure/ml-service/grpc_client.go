package ml_service

import (
	"context"
	"fmt"

	"github.com/DRSN-tech/recommender-backend/internal/cfg"
	"github.com/DRSN-tech/recommender-backend/pkg/e"
	"github.com/DRSN-tech/recommender-backend/pkg/logger"
	"github.com/jimlawless/whereami"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/structpb"
)

// EmbedTextMethod — полное имя RPC векторизации текста в ML-сервисе.
// Сообщения передаются как google.protobuf.Struct: {text, model} -> {vector, model_version}.
const EmbedTextMethod = "/ml.MachineLearningService/EmbedText"

type grpcClient struct {
	conn  *grpc.ClientConn
	model string
}

// NewGRPCEmbedder подключается к ML-сервису по gRPC и проверяет его health-статус.
func NewGRPCEmbedder(ctx context.Context, cfg *cfg.EmbedderCfg, logger logger.Logger) (*MLService, error) {
	conn, err := grpc.NewClient(
		cfg.GrpcAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	client := &grpcClient{conn: conn, model: cfg.Model}
	if err := client.checkHealth(ctx); err != nil {
		_ = conn.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return newMLService(client, cfg.MaxRetries, logger), nil
}

func (c *grpcClient) checkHealth(ctx context.Context) error {
	res, err := healthpb.NewHealthClient(c.conn).Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		return err
	}

	if res.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("ml service is %s", res.GetStatus())
	}

	return nil
}

func (c *grpcClient) embed(ctx context.Context, text string) ([]float32, error) {
	const op = "grpcClient.embed"

	req, err := structpb.NewStruct(map[string]any{
		"text":  text,
		"model": c.model,
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	res := &structpb.Struct{}
	if err := c.conn.Invoke(ctx, EmbedTextMethod, req, res); err != nil {
		return nil, e.Wrap(op, err)
	}

	return vectorFromStruct(res)
}

func (c *grpcClient) close() error {
	return c.conn.Close()
}

func vectorFromStruct(s *structpb.Struct) ([]float32, error) {
	list := s.GetFields()["vector"].GetListValue()
	if list == nil || len(list.GetValues()) == 0 {
		return nil, e.ErrEmptyVector
	}

	vector := make([]float32, len(list.GetValues()))
	for i, v := range list.GetValues() {
		n, ok := v.GetKind().(*structpb.Value_NumberValue)
		if !ok {
			return nil, fmt.Errorf("vector[%d] is not a number", i)
		}
		vector[i] = float32(n.NumberValue)
	}

	return vector, nil
}
