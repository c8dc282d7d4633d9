package bootstrap

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"support-agent-be/internal/config"
	"support-agent-be/internal/controller"
	"support-agent-be/internal/pkg/logger"
	"support-agent-be/internal/pkg/mailer"
	"support-agent-be/internal/repository/memory"
	"support-agent-be/internal/repository/unitofwork"
	"support-agent-be/internal/service"
	"support-agent-be/pkg/agent/access"
	"support-agent-be/pkg/agent/metrics"
	"support-agent-be/pkg/agent/orchestrator"
	"support-agent-be/pkg/agent/planner"
	"support-agent-be/pkg/agent/retrieval"
	"support-agent-be/pkg/agent/tool"
	"support-agent-be/pkg/embedding"
	"support-agent-be/pkg/llm/factory"

	pktNats "support-agent-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController   controller.IAuthController
	TicketController controller.ITicketController
	KBController     controller.IKBController
	AgentController  controller.IAgentController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	sysLogger.Info("bootstrap", "Container initialization started", nil)

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.OpenAI,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// In-memory conversation window
	conversationRepo := memory.NewConversationRepository()

	// 5. Agent Pipeline
	pipelineLogger := initPipelineLogger()

	retriever := retrieval.NewRetriever(
		embeddingProvider,
		retrieval.NewGormIndex(uowFactory),
		retrieval.Config{
			DBThreshold:    0.0,
			LogicThreshold: cfg.Agent.SimilarityThreshold,
			TopK:           cfg.Agent.TopK,
		},
		pipelineLogger,
	)

	registry := tool.NewRegistry()
	executor := tool.NewExecutor(registry, pipelineLogger)
	var toolEventPub tool.EventPublisher
	if natsPub != nil {
		toolEventPub = natsPub
	}
	ticketTools := tool.NewTicketTools(uowFactory, toolEventPub, emailService, pipelineLogger)
	ticketTools.RegisterBuiltins(registry, executor)

	agentPlanner := planner.NewPlanner(llmProvider, cfg.Agent.LLMTimeout, sysLogger.Raw(), pipelineLogger)

	pipeline := orchestrator.NewOrchestrator(
		retriever,
		agentPlanner,
		executor,
		registry,
		orchestrator.Config{
			MaxToolRounds: cfg.Agent.MaxToolRounds,
			TopK:          cfg.Agent.TopK,
		},
		pipelineLogger,
	)

	recorder := metrics.NewRecorder(uowFactory, llmProvider, metrics.MeanAggregator{}, pipelineLogger)

	// 6. Queues
	embedPublisher := service.NewPublisherService(cfg.Keys.EmbedTopic, pubSub)
	metricsPublisher := service.NewPublisherService(cfg.Keys.MetricsTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.EmbedTopic,
		cfg.Keys.MetricsTopic,
		uowFactory,
		embeddingProvider,
		recorder,
	)

	// 7. Services
	authService := service.NewAuthService(uowFactory, natsPub)
	ticketService := service.NewTicketService(uowFactory)
	kbService := service.NewKBService(uowFactory, embedPublisher, embeddingProvider)

	agentService := service.NewAgentService(
		uowFactory,
		pipeline,
		registry,
		executor,
		conversationRepo,
		access.NewUsageLimiter(rdb, cfg.Agent.AiChatDailyLimit),
		access.NewConversationLock(rdb, 0),
		metricsPublisher,
		natsPub,
		cfg.Agent.AiChatDailyLimit,
	)

	// 8. Controllers
	return &Container{
		AuthController:   controller.NewAuthController(authService),
		TicketController: controller.NewTicketController(ticketService),
		KBController:     controller.NewKBController(kbService),
		AgentController:  controller.NewAgentController(agentService),
		ConsumerService:  consumerService,
	}
}

// initPipelineLogger writes the noisy pipeline trace to its own file so the
// main application log stays readable.
func initPipelineLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "agent_trace.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return log.New(os.Stderr, "[PIPELINE] ", log.LstdFlags)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stderr, "[PIPELINE] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}
