package llm

import (
	"context"
	"strings"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

// Complete sends one system instruction and one user turn. An empty system prompt is omitted.
func Complete(ctx context.Context, p LLMProvider, systemPrompt, userMessage string, options ...Option) (string, error) {
	var history []Message
	if strings.TrimSpace(systemPrompt) != "" {
		history = append(history, Message{Role: "system", Content: systemPrompt})
	}
	history = append(history, Message{Role: "user", Content: userMessage})
	return p.Chat(ctx, history, options...)
}
