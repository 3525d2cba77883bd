package bootstrap

import (
	"log"
	"time"

	"ai-tarot-be/internal/config"
	"ai-tarot-be/internal/controller"
	"ai-tarot-be/internal/pkg/logger"
	"ai-tarot-be/internal/repository/contract"
	"ai-tarot-be/internal/repository/implementation"
	"ai-tarot-be/internal/service"
	"ai-tarot-be/pkg/embedding"
	"ai-tarot-be/pkg/knowledge"
	"ai-tarot-be/pkg/llm/factory"
	"ai-tarot-be/pkg/rag/retrieve"
	"ai-tarot-be/pkg/reading"
	"ai-tarot-be/pkg/tarot"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ReadingController controller.IReadingController
	CardController    controller.ICardController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

// NewContainer wires the dependency graph. db may be nil: the service then
// runs stateless with an in-memory knowledge store and no history.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 1. Canonical deck
	deck, corpusVersion, err := tarot.LoadDeck(cfg.Corpus.Path)
	if err != nil {
		log.Fatalf("[FATAL] Failed to load card corpus: %v", err)
	}
	log.Printf("[INFO] Loaded card corpus version %s (%d cards)", corpusVersion, deck.Size())

	// 2. Embedding Provider based on Config, with retry and content cache
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GeminiAPIKey)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}
	embeddingProvider = embedding.NewCachedProvider(
		embedding.NewRetryProvider(embeddingProvider, embedding.DefaultMaxAttempts),
		time.Hour,
	)

	// 3. LLM Provider based on Config
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.GeminiAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Knowledge store: pgvector when a database is configured
	var store knowledge.Store
	if db != nil {
		store = implementation.NewPgVectorStore(
			implementation.NewKnowledgeEmbeddingRepository(db),
			corpusVersion,
		)
	} else {
		log.Println("[WARN] No database configured: using empty in-memory knowledge store")
		store = knowledge.NewMemoryStore()
	}

	// 5. Orchestrator
	retriever := retrieve.NewRetriever(embeddingProvider, store, log.Default())
	orchestrator := reading.NewOrchestrator(deck, retriever, llmProvider, log.Default(), reading.Options{
		CacheTTL: cfg.Reading.CacheTTL,
		Retrieval: retrieve.Config{
			TopK:      cfg.Reading.RetrievalTopK,
			Threshold: cfg.Reading.RetrievalThreshold,
			Timeout:   cfg.Reading.RetrievalTimeout,
		},
	})

	// 6. Event Bus and history persistence
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermillLogger)

	var publisherService service.IPublisherService
	var consumerService service.IConsumerService
	var readingRepo contract.ReadingRepository
	if db != nil {
		readingRepo = implementation.NewReadingRepository(db)
		publisherService = service.NewPublisherService(cfg.App.ArchiveTopic, pubSub)
		consumerService = service.NewConsumerService(pubSub, cfg.App.ArchiveTopic, readingRepo, sysLogger)
	}

	// 7. Services
	readingService := service.NewReadingService(orchestrator, readingRepo, publisherService, sysLogger)
	cardService := service.NewCardService(deck, corpusVersion)

	// 8. Controllers
	return &Container{
		ReadingController: controller.NewReadingController(readingService),
		CardController:    controller.NewCardController(cardService),
		ConsumerService:   consumerService,
		Logger:            sysLogger,
	}
}
