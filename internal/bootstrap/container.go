package bootstrap

import (
	"context"
	"log"

	"spark-journal-be/internal/config"
	"spark-journal-be/internal/controller"
	"spark-journal-be/internal/handler"
	"spark-journal-be/internal/pkg/logger"
	"spark-journal-be/internal/pkg/mailer"
	"spark-journal-be/internal/repository/memory"
	"spark-journal-be/internal/repository/unitofwork"
	"spark-journal-be/internal/service"
	"spark-journal-be/internal/websocket"
	"spark-journal-be/pkg/embedding"
	"spark-journal-be/pkg/llm/factory"

	pktNats "spark-journal-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController    controller.IAuthController
	OAuthController   controller.IOAuthController
	UserController    controller.IUserController
	JournalController controller.IJournalController
	MemoryController  controller.IMemoryController
	SparkController   controller.ISparkController
	TuningController  controller.ITuningController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	WsHandler    *handler.WsHandler
	WebSocketHub *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

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
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// In-memory storage for per-entry trigger controllers
	sessionRepo := memory.NewSessionRepository()

	// 4. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
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

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/websocket.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 5. Services
	publisherService := service.NewPublisherService(cfg.Keys.EmbedMemoryTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.EmbedMemoryTopic,
		uowFactory,
		embeddingProvider,
	)

	authService := service.NewAuthService(uowFactory, emailService, natsPub)
	oauthService := service.NewOAuthService(uowFactory, sysLogger)
	userService := service.NewUserService(uowFactory)

	journalService := service.NewJournalService(uowFactory, publisherService, natsPub)
	memoryService := service.NewMemoryService(uowFactory, embeddingProvider)
	tuningService := service.NewTuningService(uowFactory)

	sparkService := service.NewSparkService(
		uowFactory,
		sessionRepo,
		tuningService,
		embeddingProvider,
		llmProvider,
		wsHub,
		natsPub,
		sysLogger,
	)

	// Relay worker: NATS events fan out to connected websocket clients
	relayService := service.NewEventRelayService(natsSub, wsHub, wsLogger)
	if natsSub != nil {
		go relayService.Start()
	}

	wsHandler := handler.NewWsHandler(wsHub, wsLogger)

	// 6. Controllers
	return &Container{
		AuthController:    controller.NewAuthController(authService),
		OAuthController:   controller.NewOAuthController(oauthService),
		UserController:    controller.NewUserController(userService),
		JournalController: controller.NewJournalController(journalService),
		MemoryController:  controller.NewMemoryController(memoryService),
		SparkController:   controller.NewSparkController(sparkService),
		TuningController:  controller.NewTuningController(tuningService),

		ConsumerService: consumerService,

		WsHandler:    wsHandler,
		WebSocketHub: wsHub,
	}
}
