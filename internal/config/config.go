package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Rag      RagConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	PromptLogFilePath  string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	SummaryTopic       string
}

type DatabaseConfig struct {
	Connection string
	Backend    string // "postgres" or "memory"
}

type APIKeys struct {
	GoogleGemini string
	Jina         string
	OpenAI       string
	HuggingFace  string
}

type AIConfig struct {
	EmbeddingProvider string // "", "ollama", "gemini", "jina", "openai"
	OllamaBaseURL     string
	OllamaModel       string
	OpenAIBaseURL     string
	LLMProvider       string // "ollama", "openai", "huggingface"
	LLMModel          string
	EmbeddingModel    string
}

// RagConfig holds the retrieval tunables. Zero values fall back to package defaults.
type RagConfig struct {
	SearchStrategy      string // "lexical" or "vector"
	ChunkSizeHint       int
	ChunkOverlap        float64
	RecentLimit         int
	ChunkLimit          int
	SimilarityThreshold float64
	SummaryThreshold    int
	SummaryInterval     int
	GuardBackend        string // "local" or "redis"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			PromptLogFilePath:  getEnv("PROMPT_LOG_FILE_PATH", "logs/llm_prompt.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			SummaryTopic:       getEnv("SUMMARY_TOPIC_NAME", "SUMMARIZE_SESSION"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
			Backend:    getEnv("STORE_BACKEND", "memory"),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			Jina:         getEnv("JINA_API_KEY", ""),
			OpenAI:       getEnv("OPENAI_API_KEY", ""),
			HuggingFace:  getEnv("HUGGINGFACE_API_KEY", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", ""),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", ""),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", ""),
		},
		Rag: RagConfig{
			SearchStrategy:      getEnv("SEARCH_STRATEGY", "lexical"),
			ChunkSizeHint:       getEnvAsInt("CHUNK_SIZE_HINT", 1000),
			ChunkOverlap:        getEnvAsFloat("CHUNK_OVERLAP", 0.15),
			RecentLimit:         getEnvAsInt("RAG_RECENT_LIMIT", 20),
			ChunkLimit:          getEnvAsInt("RAG_CHUNK_LIMIT", 8),
			SimilarityThreshold: getEnvAsFloat("RAG_SIMILARITY_THRESHOLD", 0),
			SummaryThreshold:    getEnvAsInt("SUMMARY_THRESHOLD", 6),
			SummaryInterval:     getEnvAsInt("SUMMARY_INTERVAL", 6),
			GuardBackend:        getEnv("SUMMARY_GUARD_BACKEND", "local"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
