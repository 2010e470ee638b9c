package bootstrap

import (
	"context"
	"log"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/bot"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/config"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/controller"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/handler"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/pkg/logger"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/pkg/mailer"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/repository/memory"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/repository/unitofwork"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/service"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/websocket"
	pktNats "github.com/sanalejo720/crm-bot-ngso-sub001/pkg/nats"
	"github.com/sanalejo720/crm-bot-ngso-sub001/pkg/whatsapp"
)

type Container struct {
	// Controllers
	AuthController    controller.IAuthController
	FlowController    controller.IFlowController
	ChatController    controller.IChatController
	DebtorController  controller.IDebtorController
	WebhookController controller.IWebhookController

	// Background services (exposed for main.go to run)
	AssignmentService service.IAssignmentService
	Sweeper           *bot.Sweeper

	// WebSockets
	ConsoleHandler *handler.ConsoleHandler
	WebSocketHub   *websocket.Hub
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

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS mirror for external consumers. The bot works without it.
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis backs the websocket hub so multiple instances share console events.
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

	wsLogger := logger.NewIsolatedLogger("logs/console.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. WhatsApp transport and in-memory session storage
	waClient := whatsapp.NewClient(cfg.WhatsApp)
	sessionRepo := memory.NewSessionRepository()

	// 4. Services
	authService := service.NewAuthService(uowFactory, emailService)
	flowService := service.NewFlowService(uowFactory)
	chatService := service.NewChatService(uowFactory, waClient, wsHub, sysLogger)
	debtorService := service.NewDebtorService(uowFactory)

	// 5. Bot engine
	var defaultFlowId uuid.UUID
	if cfg.Bot.DefaultFlowID != "" {
		defaultFlowId, err = uuid.Parse(cfg.Bot.DefaultFlowID)
		if err != nil {
			log.Printf("[WARN] Invalid BOT_DEFAULT_FLOW_ID %q, inbound chats will not auto-start a flow", cfg.Bot.DefaultFlowID)
			defaultFlowId = uuid.Nil
		}
	}

	engine := bot.NewEngine(
		flowService,
		sessionRepo,
		service.NewBotMessenger(waClient),
		chatService,
		debtorService,
		service.NewBotSignaler(pubSub, natsPub, sysLogger),
		sysLogger,
		bot.Options{
			IdleTimeout:      time.Duration(cfg.Bot.IdleTimeoutMinutes) * time.Minute,
			DocumentVariable: cfg.Bot.DocumentVariable,
			DocumentType:     cfg.Bot.DocumentType,
		},
	)

	sweeper := bot.NewSweeper(engine)

	webhookService := service.NewWebhookService(chatService, engine, defaultFlowId, sysLogger)
	assignmentService := service.NewAssignmentService(pubSub, uowFactory, wsHub, emailService)

	// 6. Controllers
	return &Container{
		AuthController:    controller.NewAuthController(authService),
		FlowController:    controller.NewFlowController(flowService, engine),
		ChatController:    controller.NewChatController(chatService),
		DebtorController:  controller.NewDebtorController(debtorService),
		WebhookController: controller.NewWebhookController(webhookService, cfg.WhatsApp.VerifyToken, sysLogger),

		AssignmentService: assignmentService,
		Sweeper:           sweeper,

		ConsoleHandler: handler.NewConsoleHandler(wsHub, wsLogger),
		WebSocketHub:   wsHub,
	}
}
