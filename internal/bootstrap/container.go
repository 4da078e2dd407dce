package bootstrap

import (
	"context"
	"fmt"

	"hcp-chatbot-be/internal/config"
	"hcp-chatbot-be/internal/controller"
	"hcp-chatbot-be/internal/dto"
	"hcp-chatbot-be/internal/handler"
	"hcp-chatbot-be/internal/pkg/logger"
	"hcp-chatbot-be/internal/repository/contract"
	"hcp-chatbot-be/internal/repository/implementation"
	"hcp-chatbot-be/internal/repository/memory"
	"hcp-chatbot-be/internal/repository/unitofwork"
	"hcp-chatbot-be/internal/service"
	"hcp-chatbot-be/internal/websocket"
	"hcp-chatbot-be/pkg/ai/pipeline"
	"hcp-chatbot-be/pkg/ai/router"
	"hcp-chatbot-be/pkg/database"
	"hcp-chatbot-be/pkg/embedding"
	"hcp-chatbot-be/pkg/llm"
	"hcp-chatbot-be/pkg/llm/factory"
	pktNats "hcp-chatbot-be/pkg/nats"
	"hcp-chatbot-be/pkg/rag/executor"
	"hcp-chatbot-be/pkg/rag/intent"
	"hcp-chatbot-be/pkg/rag/response"
	"hcp-chatbot-be/pkg/rag/search"
	"hcp-chatbot-be/pkg/vectorstore"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const bootModule = "BOOTSTRAP"

type Container struct {
	Logger logger.ILogger

	ChatbotController  controller.IChatbotController
	DocumentController controller.IDocumentController
	ChatSocketHandler  *handler.ChatSocketHandler

	// Background services, run by main.
	ConsumerService service.IConsumerService
	WebSocketHub    *websocket.Hub

	// Exposed for command line tools.
	Orchestrator *pipeline.Orchestrator
	Embedder     embedding.EmbeddingProvider
	UoWFactory   unitofwork.RepositoryFactory

	closers []func()
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config) (*Container, error) {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.IsProduction())
	c := &Container{Logger: sysLogger}

	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	c.UoWFactory = uowFactory

	// 2. Event bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Providers
	llmProvider, err := factory.NewLLMProvider(ctx, factory.Config{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  cfg.Ai.OllamaBaseURL,
		APIKey:   cfg.Ai.GoogleGeminiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("llm provider: %w", err)
	}
	sysLogger.Info(bootModule, "LLM provider ready", map[string]interface{}{"provider": cfg.Ai.LLMProvider, "model": cfg.Ai.LLMModel})

	baseEmbedder, err := embedding.NewProvider(ctx, embedding.Config{
		Provider: cfg.Ai.EmbeddingProvider,
		Model:    cfg.Ai.EmbeddingModel,
		BaseURL:  cfg.Ai.OllamaBaseURL,
		APIKey:   cfg.Ai.GoogleGeminiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("embedding provider: %w", err)
	}
	embedder := embedding.NewCachedProvider(baseEmbedder, cfg.Ai.EmbeddingCacheTTL)
	c.Embedder = embedder

	vectors, err := c.vectorSearcher(db, cfg)
	if err != nil {
		return nil, err
	}

	sqlPool, err := c.sqlPool(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// 4. Infrastructure
	rdb := c.redis(ctx, cfg)
	historyRepo := c.historyRepository(rdb, cfg)

	var forwarder service.EventForwarder
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn(bootModule, "Failed to connect to NATS Publisher", map[string]interface{}{"error": err.Error()})
		} else {
			forwarder = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	wsLogger := logger.NewIsolatedLogger("logs/websocket.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	c.WebSocketHub = wsHub

	// 5. Pipeline
	orchestrator := NewOrchestrator(PipelineDeps{
		LLM:      llmProvider,
		SQL:      implementation.NewPgxRelationalExecutor(sqlPool, sysLogger),
		Versions: implementation.NewVersionRepository(db),
		Embedder: embedder,
		Vectors:  vectors,
		Config:   cfg,
		Logger:   sysLogger,
	})
	c.Orchestrator = orchestrator

	// 6. Services
	publisherService := service.NewPublisherService(cfg.App.TurnTopic, pubSub)
	chatbotService := service.NewChatbotService(
		orchestrator,
		historyRepo,
		uowFactory,
		publisherService,
		wsHub,
		sysLogger,
		service.ChatbotOptions{
			HistoryCap: cfg.Chatbot.HistoryCap,
			DisplayCap: cfg.Chatbot.DisplayCap,
		},
	)
	wsHub.SetHandler(func(ctx context.Context, sessionID, question string) error {
		_, err := chatbotService.Query(ctx, &dto.QueryRequest{Question: question, SessionID: sessionID})
		return err
	})

	c.ConsumerService = service.NewConsumerService(pubSub, cfg.App.TurnTopic, uowFactory, forwarder, sysLogger)
	c.ChatbotController = controller.NewChatbotController(chatbotService)
	c.DocumentController = controller.NewDocumentController(service.NewIngestService(uowFactory, embedder, sysLogger))
	c.ChatSocketHandler = handler.NewChatSocketHandler(wsHub, wsLogger)

	return c, nil
}

// PipelineDeps lists what a turn needs from the outside world.
type PipelineDeps struct {
	LLM      llm.LLMProvider
	SQL      executor.RelationalExecutor
	Versions executor.VersionStore
	Embedder executor.Embedder
	Vectors  search.VectorSearcher
	Config   *config.Config
	Logger   logger.ILogger
}

func NewOrchestrator(d PipelineDeps) *pipeline.Orchestrator {
	classifier := intent.NewClassifier(d.LLM, d.Logger, d.Config.Timeouts.LLM)
	exec := executor.New(executor.Dependencies{
		LLM:      d.LLM,
		SQL:      d.SQL,
		Versions: d.Versions,
		Embedder: d.Embedder,
		Vectors:  d.Vectors,
		Timeouts: executor.Timeouts{
			LLM:       d.Config.Timeouts.LLM,
			SQL:       d.Config.Timeouts.SQL,
			Embedding: d.Config.Timeouts.Embedding,
			Vector:    d.Config.Timeouts.Vector,
		},
		Logger: d.Logger,
	})
	summarizer := response.NewSummarizer(d.LLM, d.Logger, d.Config.Timeouts.LLM)

	return pipeline.NewOrchestrator(
		router.NewRouter(classifier, d.Logger),
		exec,
		summarizer,
		d.Logger,
		pipeline.WithHistoryCap(d.Config.Chatbot.HistoryCap),
	)
}

func (c *Container) vectorSearcher(db *gorm.DB, cfg *config.Config) (search.VectorSearcher, error) {
	if cfg.Vector.Provider != "qdrant" {
		c.Logger.Info(bootModule, "Using vector store: PGVECTOR", nil)
		return implementation.NewDocumentChunkRepository(db), nil
	}
	q, err := vectorstore.NewQdrantSearcher(vectorstore.QdrantConfig{
		Host:       cfg.Vector.QdrantHost,
		Port:       cfg.Vector.QdrantPort,
		Collection: cfg.Vector.QdrantCollection,
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: %w", err)
	}
	c.closers = append(c.closers, func() { _ = q.Close() })
	c.Logger.Info(bootModule, "Using vector store: QDRANT", map[string]interface{}{"collection": cfg.Vector.QdrantCollection})
	return q, nil
}

func (c *Container) sqlPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	dsn := cfg.Database.SQLExecutorConnection
	if dsn == "" {
		dsn = cfg.Database.Connection
	}
	pool, err := database.NewPgxPool(ctx, dsn, int32(cfg.Database.SQLExecutorMaxConns))
	if err != nil {
		return nil, fmt.Errorf("sql executor pool: %w", err)
	}
	c.closers = append(c.closers, pool.Close)
	return pool, nil
}

// redis returns nil when Redis is not configured or unreachable.
func (c *Container) redis(ctx context.Context, cfg *config.Config) *redis.Client {
	if cfg.App.RedisURL == "" {
		return nil
	}
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		c.Logger.Warn(bootModule, "Failed to parse Redis URL, using direct Addr", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		c.Logger.Warn(bootModule, "Failed to connect to Redis", map[string]interface{}{"error": err.Error()})
		_ = rdb.Close()
		return nil
	}
	c.closers = append(c.closers, func() { _ = rdb.Close() })
	return rdb
}

func (c *Container) historyRepository(rdb *redis.Client, cfg *config.Config) contract.HistoryRepository {
	if cfg.App.HistoryStore == "redis" && rdb != nil {
		c.Logger.Info(bootModule, "Using history store: REDIS", nil)
		return implementation.NewRedisHistoryRepository(rdb, cfg.Chatbot.HistoryTTL)
	}
	c.Logger.Info(bootModule, "Using history store: MEMORY", nil)
	return memory.NewHistoryRepository(cfg.Chatbot.HistoryTTL)
}
