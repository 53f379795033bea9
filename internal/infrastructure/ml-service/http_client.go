package ml_service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/DRSN-tech/recommender-backend/internal/cfg"
	"github.com/DRSN-tech/recommender-backend/pkg/e"
	"github.com/DRSN-tech/recommender-backend/pkg/logger"
)

const maxErrorBody = 512

type embedRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

// embedResponse покрывает ответы Ollama (/api/embed, /api/embeddings)
// и OpenAI-совместимых серверов (/v1/embeddings).
type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
	Embedding  []float32   `json:"embedding"`
	Data       []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func (r *embedResponse) vector() []float32 {
	switch {
	case len(r.Embeddings) > 0:
		return r.Embeddings[0]
	case len(r.Embedding) > 0:
		return r.Embedding
	case len(r.Data) > 0:
		return r.Data[0].Embedding
	default:
		return nil
	}
}

type httpClient struct {
	client *http.Client
	url    string
	apiKey string
	model  string
}

// NewHTTPEmbedder создаёт клиент к HTTP-сервису эмбеддингов.
func NewHTTPEmbedder(cfg *cfg.EmbedderCfg, logger logger.Logger) *MLService {
	client := &httpClient{
		client: &http.Client{Timeout: cfg.Timeout},
		url:    cfg.URL,
		apiKey: cfg.ApiKey,
		model:  cfg.Model,
	}

	return newMLService(client, cfg.MaxRetries, logger)
}

func (c *httpClient) embed(ctx context.Context, text string) ([]float32, error) {
	const op = "httpClient.embed"

	body, err := json.Marshal(embedRequest{Model: c.model, Input: text})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, e.Wrap(op, fmt.Errorf("embedding service returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg)))
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, e.Wrap(op, fmt.Errorf("parse embeddings json: %w", err))
	}

	vector := out.vector()
	if len(vector) == 0 {
		return nil, e.Wrap(op, e.ErrEmptyVector)
	}

	return vector, nil
}

func (c *httpClient) close() error {
	c.client.CloseIdleConnections()
	return nil
}
