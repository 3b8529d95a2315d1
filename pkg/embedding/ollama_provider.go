package embedding

import (
	"context"
	"fmt"
	"net/url"

	"ai-tutor-be/internal/constant"

	"github.com/ollama/ollama/api"
)

const ollamaDefaultEmbedModel = "nomic-embed-text"

// OllamaProvider implements EmbeddingProvider for local Ollama models (e.g., nomic-embed-text)
type OllamaProvider struct {
	client *api.Client
	model  string
}

func NewOllamaProvider(baseURL string, model string) (*OllamaProvider, error) {
	if baseURL == "" {
		baseURL = constant.OllamaDefaultBaseURL
	}
	if model == "" {
		model = ollamaDefaultEmbedModel
	}
	uri, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama url %q: %w", baseURL, err)
	}
	return &OllamaProvider{
		client: api.NewClient(uri, defaultHTTPClient),
		model:  model,
	}, nil
}

func (p *OllamaProvider) Name() string { return "ollama" }

// Embed ignores taskType; nomic models take no task hint through /api/embed.
func (p *OllamaProvider) Embed(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	res, err := p.client.Embed(ctx, &api.EmbedRequest{Model: p.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("ollama embedding error: %w", err)
	}

	if err := CheckCount(p.Name(), len(texts), res.Embeddings); err != nil {
		return nil, err
	}
	return NormalizeAll(res.Embeddings), nil
}

var _ EmbeddingProvider = (*OllamaProvider)(nil)
