package embedding

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const geminiModel = "text-embedding-004"

type GeminiProvider struct {
	client *genai.Client
	model  string
}

func NewGeminiProvider(ctx context.Context, apiKey string, opts ...option.ClientOption) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, errors.New("gemini embeddings need GOOGLE_GEMINI_API_KEY")
	}
	client, err := genai.NewClient(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiProvider{client: client, model: geminiModel}, nil
}

func (p *GeminiProvider) Name() string { return "gemini" }

func (p *GeminiProvider) Close() error { return p.client.Close() }

func (p *GeminiProvider) Embed(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	em := p.client.EmbeddingModel(p.model)
	em.TaskType = geminiTaskType(taskType)

	batch := em.NewBatch()
	for _, text := range texts {
		batch.AddContent(genai.Text(text))
	}

	res, err := em.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("error from gemini response: %w", err)
	}

	vectors := make([][]float32, len(res.Embeddings))
	for i, e := range res.Embeddings {
		vectors[i] = e.Values
	}
	if err := CheckCount(p.Name(), len(texts), vectors); err != nil {
		return nil, err
	}
	return NormalizeAll(vectors), nil
}

func geminiTaskType(taskType string) genai.TaskType {
	switch taskType {
	case TaskRetrievalDocument:
		return genai.TaskTypeRetrievalDocument
	case TaskRetrievalQuery:
		return genai.TaskTypeRetrievalQuery
	default:
		return genai.TaskTypeUnspecified
	}
}
