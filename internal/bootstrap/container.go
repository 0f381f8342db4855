package bootstrap

import (
	"context"
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"telecom-support-be/internal/config"
	"telecom-support-be/internal/controller"
	"telecom-support-be/internal/handler"
	"telecom-support-be/internal/pkg/logger"
	"telecom-support-be/internal/pkg/mailer"
	"telecom-support-be/internal/repository/memory"
	"telecom-support-be/internal/repository/unitofwork"
	"telecom-support-be/internal/service"
	"telecom-support-be/internal/websocket"
	"telecom-support-be/pkg/dashboard"
	"telecom-support-be/pkg/escalation"
	"telecom-support-be/pkg/llm/factory"
	pkgNats "telecom-support-be/pkg/nats"
)

type Container struct {
	// Controllers
	SessionController    controller.ISessionController
	EscalationController controller.IEscalationController
	AgentController      controller.IAgentController
	AdminController      controller.IAdminController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	SupportWsHandler *handler.SupportWsHandler
	WebSocketHub     *websocket.Hub
}

// NewContainer wires the whole dependency graph once at process start.
// db may be nil, in which case the in-memory repository factory backs
// the state store.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	var uowFactory unitofwork.RepositoryFactory
	if db != nil {
		uowFactory = unitofwork.NewRepositoryFactory(db)
	} else {
		log.Println("[INFO] No database configured, using in-memory state store")
		uowFactory = memory.NewRepositoryFactory()
	}
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	var emailService mailer.IEmailService
	if cfg.SMTP.Host != "" {
		emailService = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.Email,
		)
	}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

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
		rdb = nil
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. AI collaborators
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.DefaultConfidence,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	scorer := factory.NewConfidenceScorer(llmProvider, cfg.Ai.DefaultConfidence)
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Services
	publisherService := service.NewPublisherService(pubSub, cfg.App.EventsTopic)
	escalationService := service.NewEscalationService(uowFactory, publisherService, sysLogger)
	notificationService := service.NewNotificationService(wsHub, escalationService, wsLogger)

	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.EventsTopic,
		notificationService,
		natsPub,
		emailService,
		cfg.Alerts.SupervisorEmail,
	)

	engine := escalation.NewEngine(sysLogger)
	counters := memory.NewSessionCounters()
	chatService := service.NewChatService(
		escalationService,
		notificationService,
		engine,
		scorer,
		llmProvider,
		counters,
		cfg.Ai.DefaultConfidence,
		sysLogger,
	)

	aggregator := dashboard.NewAggregator(sysLogger)

	// 5. Transport
	wsHandler := handler.NewSupportWsHandler(wsHub, chatService, escalationService, notificationService, wsLogger)

	return &Container{
		SessionController:    controller.NewSessionController(escalationService, chatService),
		EscalationController: controller.NewEscalationController(escalationService),
		AgentController:      controller.NewAgentController(escalationService),
		AdminController:      controller.NewAdminController(aggregator, uowFactory, sysLogger),
		ConsumerService:      consumerService,
		SupportWsHandler:     wsHandler,
		WebSocketHub:         wsHub,
	}
}
