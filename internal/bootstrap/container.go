package bootstrap

import (
	"context"
	"log"

	"lawro-be/internal/config"
	"lawro-be/internal/controller"
	"lawro-be/internal/pkg/logger"
	"lawro-be/internal/repository/implementation"
	"lawro-be/internal/repository/memory"
	"lawro-be/internal/service"
	"lawro-be/pkg/analysis"
	"lawro-be/pkg/embedding"
	"lawro-be/pkg/legal"
	"lawro-be/pkg/llm"
	"lawro-be/pkg/llm/factory"
	pktNats "lawro-be/pkg/nats"
	"lawro-be/pkg/rag/conversation"
	"lawro-be/pkg/rag/search"
	"lawro-be/pkg/rag/session"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	HealthController   controller.IHealthController
	ChatbotController  controller.IChatbotController
	AnalysisController controller.IAnalysisController

	// Background
	SessionStore *session.Store

	Logger logger.ILogger

	closers []func()
}

// NewContainer wires every dependency. db may be nil, in which case chat answers without retrieval
// and legal search reports failure.
func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config) *Container {
	c := &Container{}

	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	c.Logger = sysLogger

	catalog := analysis.DefaultCatalog()
	if err := catalog.Validate(); err != nil {
		log.Fatalf("[FATAL] Required field catalog is invalid: %v", err)
	}
	rules := analysis.DefaultRules()
	if err := rules.Validate(); err != nil {
		log.Fatalf("[FATAL] Violation rules are invalid: %v", err)
	}

	// 2. Generation backend
	var llmProvider llm.LLMProvider
	provider, err := factory.NewLLMProvider(ctx, factory.Config{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  llmBaseURL(cfg),
		APIKey:   llmAPIKey(cfg),
		Timeout:  cfg.Ai.LLMTimeout,
	})
	if err != nil {
		log.Printf("[WARN] LLM provider unavailable, chat will apologize: %v", err)
	} else {
		llmProvider = provider
		if closer, ok := provider.(interface{ Close() error }); ok {
			c.closers = append(c.closers, func() { _ = closer.Close() })
		}
		log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)
	}

	// 3. Legal corpus retrieval
	var retriever search.Retriever
	if db != nil {
		var embeddingProvider embedding.EmbeddingProvider
		if cfg.Ai.EmbeddingProvider == "ollama" {
			embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
			log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
		} else {
			embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
			log.Printf("[INFO] Using Embedding Provider: GEMINI")
		}

		chunkRepo := implementation.NewLegalChunkRepository(db)
		vectorRetriever := search.NewVectorRetriever(embeddingProvider, chunkRepo, cfg.Chat.SimilarityThreshold)
		retriever = vectorRetriever

		if rdb := newRedisClient(ctx, cfg.App.RedisURL); rdb != nil {
			retriever = search.NewCachedRetriever(vectorRetriever, rdb, cfg.Chat.RetrievalCacheTTL, sysLogger)
			c.closers = append(c.closers, func() { _ = rdb.Close() })
			log.Printf("[INFO] Retrieval cache enabled (ttl %s)", cfg.Chat.RetrievalCacheTTL)
		}
	} else {
		log.Printf("[WARN] No database configured, legal retrieval disabled")
	}

	// 4. Sessions
	c.SessionStore = session.NewStore(session.Config{
		MaxMessages:     cfg.Chat.MaxMessages,
		TTL:             cfg.Chat.SessionTTL,
		CleanupInterval: cfg.Chat.CleanupInterval,
		MaxSessions:     cfg.Chat.MaxSessions,
	}, sysLogger)
	contextRepo := memory.NewContextRepository(cfg.Chat.ContextDocumentsTTL, cfg.Chat.CleanupInterval)

	engine := conversation.NewEngine(c.SessionStore, retriever, llmProvider, sysLogger,
		conversation.WithTopK(cfg.Chat.TopK),
		conversation.WithContextRecorder(contextRepo),
	)

	// 5. Events
	var publisher service.EventPublisher
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, cfg.App.EventSubject, sysLogger)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			publisher = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	// 6. Services
	chatbotService := service.NewChatbotService(engine, c.SessionStore, contextRepo, cfg.Chat.TurnTimeout, sysLogger)
	analysisService := service.NewAnalysisService(
		catalog,
		rules,
		legal.NewJudge(llmProvider),
		legal.NewLookup(retriever, llmProvider, cfg.Chat.AnalysisSearchTopK, sysLogger),
		publisher,
		cfg.Chat.TurnTimeout,
		sysLogger,
	)

	// 7. Controllers
	c.ChatbotController = controller.NewChatbotController(chatbotService)
	c.AnalysisController = controller.NewAnalysisController(analysisService)
	c.HealthController = controller.NewHealthController(map[string]controller.ServiceProbe{
		"chat":      func() string { return "operational" },
		"analysis":  func() string { return "operational" },
		"llm":       status(llmProvider != nil),
		"retrieval": status(retriever != nil),
		"events":    status(publisher != nil),
	})

	return c
}

// Close releases external connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}

func newRedisClient(ctx context.Context, url string) *redis.Client {
	if url == "" {
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis, retrieval cache disabled: %v", err)
		_ = rdb.Close()
		return nil
	}
	return rdb
}

func llmAPIKey(cfg *config.Config) string {
	switch cfg.Ai.LLMProvider {
	case "gemini":
		return cfg.Keys.GoogleGemini
	case "upstage":
		return cfg.Keys.Upstage
	default:
		return ""
	}
}

func llmBaseURL(cfg *config.Config) string {
	if cfg.Ai.LLMBaseURL == "" && cfg.Ai.LLMProvider == "ollama" {
		return cfg.Ai.OllamaBaseURL
	}
	return cfg.Ai.LLMBaseURL
}

func status(enabled bool) controller.ServiceProbe {
	return func() string {
		if enabled {
			return "connected"
		}
		return "disabled"
	}
}
