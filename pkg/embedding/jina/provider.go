package jina

import (
	"context"
	"fmt"

	"ai-tutor-be/pkg/embedding"

	"github.com/sashabaranov/go-openai"
)

const (
	DefaultBaseURL = "https://api.jina.ai/v1"
	defaultModel   = "jina-embeddings-v2-base-en"
)

// JinaProvider uses Jina's OpenAI compatible embeddings endpoint.
type JinaProvider struct {
	apiKey string
	client *openai.Client
	model  openai.EmbeddingModel
}

var _ embedding.EmbeddingProvider = &JinaProvider{}

func NewJinaProvider(apiKey string) *JinaProvider {
	p := &JinaProvider{apiKey: apiKey, model: defaultModel}
	return p.WithBaseURL(DefaultBaseURL)
}

// WithBaseURL points the provider at another endpoint.
func (p *JinaProvider) WithBaseURL(url string) *JinaProvider {
	cfg := openai.DefaultConfig(p.apiKey)
	cfg.BaseURL = url
	p.client = openai.NewClientWithConfig(cfg)
	return p
}

func (p *JinaProvider) Name() string { return "jina" }

// Embed sends the whole batch in one request; v2-base-en returns 768 dimensions.
func (p *JinaProvider) Embed(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: p.model,
	})
	if err != nil {
		return nil, fmt.Errorf("jina embedding error: %w", err)
	}

	vectors := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(vectors) {
			return nil, fmt.Errorf("jina returned embedding index %d out of range", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}
	for i, v := range vectors {
		if v == nil {
			return nil, fmt.Errorf("jina returned no embedding for input %d", i)
		}
	}
	return embedding.NormalizeAll(vectors), nil
}
