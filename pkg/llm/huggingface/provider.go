package huggingface

import (
	"context"
	"fmt"

	"ai-tutor-be/internal/constant"
	"ai-tutor-be/pkg/llm"

	"github.com/sashabaranov/go-openai"
)

const (
	DefaultRouterURL = "https://router.huggingface.co/v1"
	defaultMaxTokens = 500
)

// HuggingFaceProvider talks to the inference router's chat completions endpoint.
type HuggingFaceProvider struct {
	client *openai.Client
	model  string
}

var _ llm.LLMProvider = &HuggingFaceProvider{}

func NewHuggingFaceProvider(apiKey, baseURL, model string) *HuggingFaceProvider {
	if baseURL == "" {
		baseURL = DefaultRouterURL
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &HuggingFaceProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (p *HuggingFaceProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	opts := &llm.Options{Model: p.model, MaxTokens: defaultMaxTokens}
	for _, o := range options {
		o(opts)
	}

	messages := make([]openai.ChatCompletionMessage, len(history))
	for i, m := range history {
		messages[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       opts.Model,
		Messages:    messages,
		MaxTokens:   opts.MaxTokens,
		Temperature: float32(opts.Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("huggingface chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty choices from huggingface api")
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *HuggingFaceProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: constant.ChatMessageRoleUser, Content: prompt}}, options...)
}
