package factory

import (
	"fmt"

	"ai-tutor-be/internal/config"
	"ai-tutor-be/pkg/llm"
	"ai-tutor-be/pkg/llm/huggingface"
	"ai-tutor-be/pkg/llm/ollama"
	"ai-tutor-be/pkg/llm/openai"
)

// NewLLMProvider builds the configured completion backend wrapped in a retry-once policy.
func NewLLMProvider(cfg *config.Config) (llm.LLMProvider, error) {
	var p llm.LLMProvider
	switch cfg.Ai.LLMProvider {
	case "ollama":
		op, err := ollama.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.LLMModel)
		if err != nil {
			return nil, err
		}
		p = op
	case "openai":
		if cfg.Keys.OpenAI == "" && cfg.Ai.OpenAIBaseURL == "" {
			return nil, fmt.Errorf("openai provider needs OPENAI_API_KEY or OPENAI_BASE_URL")
		}
		p = openai.NewOpenAIProvider(cfg.Keys.OpenAI, cfg.Ai.OpenAIBaseURL, cfg.Ai.LLMModel)
	case "huggingface":
		p = huggingface.NewHuggingFaceProvider(cfg.Keys.HuggingFace, "", cfg.Ai.LLMModel)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Ai.LLMProvider)
	}
	return llm.NewRetryingProvider(p, cfg.Ai.LLMProvider), nil
}
