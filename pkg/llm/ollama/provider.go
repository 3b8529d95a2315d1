package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ai-tutor-be/internal/constant"
	"ai-tutor-be/pkg/llm"

	"github.com/ollama/ollama/api"
)

type OllamaProvider struct {
	client *api.Client
	model  string
}

var _ llm.LLMProvider = &OllamaProvider{}

func NewOllamaProvider(baseURL, model string) (*OllamaProvider, error) {
	if baseURL == "" {
		baseURL = constant.OllamaDefaultBaseURL
	}
	if model == "" {
		model = constant.OllamaDefaultModel
	}
	uri, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama url %q: %w", baseURL, err)
	}
	return &OllamaProvider{
		client: api.NewClient(uri, &http.Client{Timeout: 120 * time.Second}),
		model:  model,
	}, nil
}

func (o *OllamaProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := &llm.Options{Model: o.model, Temperature: 0.7}
	for _, opt := range opts {
		opt(options)
	}

	messages := make([]api.Message, len(history))
	for i, msg := range history {
		role := msg.Role
		// gemini-style history
		if role == "model" {
			role = constant.ChatMessageRoleAssistant
		}
		messages[i] = api.Message{Role: role, Content: msg.Content}
	}

	modelOptions := map[string]any{"temperature": options.Temperature}
	if options.MaxTokens > 0 {
		modelOptions["num_predict"] = options.MaxTokens
	}

	req := &api.ChatRequest{
		Model:    options.Model,
		Messages: messages,
		Stream:   new(bool),
		Options:  modelOptions,
	}

	var reply strings.Builder
	err := o.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		reply.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat failed: %w", err)
	}
	return reply.String(), nil
}

func (o *OllamaProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return o.Chat(ctx, []llm.Message{{Role: constant.ChatMessageRoleUser, Content: prompt}}, opts...)
}
