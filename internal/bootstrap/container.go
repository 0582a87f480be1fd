package bootstrap

import (
	"context"
	"log"

	"decipher-research-be/internal/config"
	"decipher-research-be/internal/controller"
	"decipher-research-be/internal/handler"
	"decipher-research-be/internal/pkg/logger"
	"decipher-research-be/internal/pkg/mailer"
	"decipher-research-be/internal/repository/memory"
	"decipher-research-be/internal/repository/unitofwork"
	"decipher-research-be/internal/service"
	"decipher-research-be/internal/websocket"
	"decipher-research-be/pkg/embedding"
	"decipher-research-be/pkg/llm/factory"
	"decipher-research-be/pkg/research"

	pktNats "decipher-research-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController     controller.IAuthController
	NotebookController controller.INotebookController
	ResearchController controller.IResearchController
	ViewController     controller.IViewController

	// Background Services (Exposed for main.go to run)
	ConsumerService       service.IConsumerService
	ResearchWorkerService service.IResearchWorkerService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event bus (in-process worker queue)
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI providers
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
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
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
	}

	// WebSocket hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	runGuard := memory.NewRunGuard()

	// 5. Research pipeline
	fetcher := research.NewPageFetcher()
	pipeline := research.NewPipeline(
		research.NewPlanner(llmProvider, 5),
		research.NewDuckDuckGoClient(),
		fetcher,
		research.NewComposer(llmProvider),
		research.PipelineConfig{
			FetchParallel: cfg.Research.FetchParallel,
		},
	)

	// 6. Services
	embedPublisher := service.NewPublisherService(cfg.Keys.EmbedSourceTopic, pubSub)
	taskPublisher := service.NewPublisherService(cfg.Keys.ResearchTopic, pubSub)

	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.EmbedSourceTopic,
		uowFactory,
		embeddingProvider,
		cfg.Research,
	)
	researchWorkerService := service.NewResearchWorkerService(
		pubSub,
		cfg.Keys.ResearchTopic,
		uowFactory,
		pipeline,
		fetcher,
		embedPublisher,
		natsPub,
		runGuard,
		rdb,
		cfg.Research,
	)

	authService := service.NewAuthService(uowFactory)
	notebookService := service.NewNotebookService(uowFactory)
	researchService := service.NewResearchService(uowFactory, taskPublisher, natsPub, runGuard, rdb)
	sourceService := service.NewSourceService(uowFactory, fetcher, embeddingProvider, embedPublisher)

	notifService := service.NewNotificationService(uowFactory, natsSub, wsHub, emailService, cfg.App.ClientURL, sysLogger)
	if natsSub != nil {
		go notifService.Start()
	}

	notifHandler := handler.NewNotificationHandler(wsHub, wsLogger)

	return &Container{
		AuthController:     controller.NewAuthController(authService),
		NotebookController: controller.NewNotebookController(notebookService),
		ResearchController: controller.NewResearchController(researchService, sourceService),
		ViewController:     controller.NewViewController(notebookService),

		ConsumerService:       consumerService,
		ResearchWorkerService: researchWorkerService,

		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
	}
}
