package factory

import (
	"testing"

	"ai-tutor-be/internal/config"
	"ai-tutor-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		openAI   string
		wantErr  bool
	}{
		{"ollama", "ollama", "", false},
		{"huggingface", "huggingface", "", false},
		{"openai with key", "openai", "sk-x", false},
		{"openai without key", "openai", "", true},
		{"unknown", "palm", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.Ai.LLMProvider = tt.provider
			cfg.Keys.OpenAI = tt.openAI

			p, err := NewLLMProvider(cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, &llm.RetryingProvider{}, p)
		})
	}
}
