package bootstrap

import (
	"context"
	"fmt"
	"time"

	"ai-tutor-be/internal/config"
	"ai-tutor-be/internal/controller"
	"ai-tutor-be/internal/pkg/logger"
	"ai-tutor-be/internal/repository/unitofwork"
	"ai-tutor-be/internal/service"
	"ai-tutor-be/pkg/embedding"
	"ai-tutor-be/pkg/embedding/jina"
	"ai-tutor-be/pkg/events"
	"ai-tutor-be/pkg/llm/factory"
	"ai-tutor-be/pkg/lock"
	"ai-tutor-be/pkg/rag/chunkstore"
	ragcontext "ai-tutor-be/pkg/rag/context"
	"ai-tutor-be/pkg/rag/ingest"
	"ai-tutor-be/pkg/rag/search"
	"ai-tutor-be/pkg/rag/skill"
	"ai-tutor-be/pkg/rag/summary"

	pktNats "ai-tutor-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

const summaryLockTTL = 2 * time.Minute

type Container struct {
	// Controllers
	ChatbotController   controller.IChatbotController
	KnowledgeController controller.IKnowledgeController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	ActivityService *service.ActivityService

	// Used directly by the ingest CLI
	Ingestor *ingest.Ingestor
	Searcher search.Searcher

	Logger logger.ILogger

	closers []func()
}

// NewContainer wires the application. db may be nil when STORE_BACKEND is "memory".
func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	promptLogger := logger.NewIsolatedLogger(cfg.App.PromptLogFilePath)
	c := &Container{Logger: sysLogger}

	uowFactory, err := newRepositoryFactory(db, cfg)
	if err != nil {
		return nil, err
	}

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	var eventPublisher events.Publisher = events.NopPublisher{}
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to connect to NATS Publisher, events disabled", map[string]interface{}{"error": err.Error()})
		} else {
			eventPublisher = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}

		natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to connect to NATS Subscriber", map[string]interface{}{"error": err.Error()})
		} else {
			c.ActivityService = service.NewActivityService(natsSub, logger.NewIsolatedLogger("logs/activity.log"))
			c.closers = append(c.closers, natsSub.Close)
		}
	}

	// 3. Providers
	embedder := newEmbeddingProvider(cfg, sysLogger, c)

	llmProvider, err := factory.NewLLMProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM provider: %w", err)
	}
	sysLogger.Info("BOOTSTRAP", "LLM provider ready", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"model":    cfg.Ai.LLMModel,
	})

	guard := newGuard(cfg, sysLogger, c)

	// 4. Retrieval
	searcher := newSearcher(cfg, uowFactory, embedder, sysLogger)
	store := chunkstore.NewStore(uowFactory, embedder, sysLogger)
	ingestor := ingest.NewIngestor(store, cfg.Rag.ChunkSizeHint, cfg.Rag.ChunkOverlap, eventPublisher, sysLogger)

	summarizer := summary.NewSummarizer(uowFactory, llmProvider, guard, eventPublisher, sysLogger)
	assembler := ragcontext.NewAssembler(
		uowFactory,
		searcher,
		summarizer,
		skill.NewTracker(uowFactory),
		ragcontext.Options{
			RecentLimit: cfg.Rag.RecentLimit,
			ChunkLimit:  cfg.Rag.ChunkLimit,
			Threshold:   cfg.Rag.SimilarityThreshold,
		},
		sysLogger,
	)

	// 5. Services
	publisherService := service.NewPublisherService(cfg.App.SummaryTopic, pubSub)
	c.ConsumerService = service.NewConsumerService(pubSub, cfg.App.SummaryTopic, summarizer, sysLogger)

	chatbotService := service.NewChatbotService(
		uowFactory,
		llmProvider,
		assembler,
		summarizer,
		publisherService,
		eventPublisher,
		service.ChatbotOptions{
			HistoryLimit:     cfg.Rag.RecentLimit,
			SummaryThreshold: cfg.Rag.SummaryThreshold,
			SummaryInterval:  cfg.Rag.SummaryInterval,
		},
		sysLogger,
		promptLogger,
	)
	knowledgeService := service.NewKnowledgeService(ingestor, searcher, cfg.Rag.SimilarityThreshold)

	// 6. Controllers
	c.ChatbotController = controller.NewChatbotController(chatbotService)
	c.KnowledgeController = controller.NewKnowledgeController(knowledgeService)
	c.Ingestor = ingestor
	c.Searcher = searcher

	return c, nil
}

// Close releases bus and lock connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}

func newRepositoryFactory(db *gorm.DB, cfg *config.Config) (unitofwork.RepositoryFactory, error) {
	switch cfg.Database.Backend {
	case "memory":
		return unitofwork.NewMemoryRepositoryFactory(), nil
	case "postgres":
		if db == nil {
			return nil, fmt.Errorf("postgres backend selected but no database connection")
		}
		return unitofwork.NewRepositoryFactory(db), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.Database.Backend)
	}
}

// newEmbeddingProvider returns nil when no provider is configured or it cannot be built;
// chunks are then stored without vectors.
func newEmbeddingProvider(cfg *config.Config, log logger.ILogger, c *Container) embedding.EmbeddingProvider {
	var p embedding.EmbeddingProvider
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		op, err := embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
		if err != nil {
			log.Warn("BOOTSTRAP", "Ollama embedder unavailable, embeddings disabled", map[string]interface{}{"error": err.Error()})
			return nil
		}
		p = op
	case "gemini":
		gp, err := embedding.NewGeminiProvider(context.Background(), cfg.Keys.GoogleGemini)
		if err != nil {
			log.Warn("BOOTSTRAP", "Gemini embedder unavailable, embeddings disabled", map[string]interface{}{"error": err.Error()})
			return nil
		}
		c.closers = append(c.closers, func() { _ = gp.Close() })
		p = gp
	case "jina":
		p = jina.NewJinaProvider(cfg.Keys.Jina)
	case "openai":
		p = embedding.NewOpenAIProvider(cfg.Keys.OpenAI, cfg.Ai.OpenAIBaseURL, cfg.Ai.EmbeddingModel)
	case "":
		log.Info("BOOTSTRAP", "No embedding provider configured", nil)
		return nil
	default:
		log.Warn("BOOTSTRAP", "Unknown embedding provider, embeddings disabled", map[string]interface{}{
			"provider": cfg.Ai.EmbeddingProvider,
		})
		return nil
	}
	log.Info("BOOTSTRAP", "Embedding provider ready", map[string]interface{}{"provider": p.Name()})
	return p
}

func newSearcher(cfg *config.Config, uowFactory unitofwork.RepositoryFactory, embedder embedding.EmbeddingProvider, log logger.ILogger) search.Searcher {
	if cfg.Rag.SearchStrategy == "vector" {
		if embedder != nil {
			return search.NewVectorSearcher(uowFactory, embedder, log)
		}
		log.Warn("BOOTSTRAP", "Vector search needs an embedding provider, using lexical search", nil)
	}
	return search.NewLexicalSearcher(uowFactory, log)
}

func newGuard(cfg *config.Config, log logger.ILogger, c *Container) lock.Guard {
	if cfg.Rag.GuardBackend != "redis" {
		return lock.NewLocalGuard()
	}

	g, err := lock.NewRedisGuardFromURL(cfg.App.RedisURL, "ai-tutor:lock:", summaryLockTTL)
	if err == nil {
		if err = pingGuard(g); err != nil {
			_ = g.Close()
		}
	}
	if err != nil {
		log.Warn("BOOTSTRAP", "Redis guard unavailable, using in-process guard", map[string]interface{}{"error": err.Error()})
		return lock.NewLocalGuard()
	}

	c.closers = append(c.closers, func() { _ = g.Close() })
	return g
}

// pingGuard takes and drops a throwaway lock to check the redis connection.
func pingGuard(g lock.Guard) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	release, ok, err := g.TryAcquire(ctx, "ping")
	if err != nil {
		return err
	}
	if ok {
		release()
	}
	return nil
}
