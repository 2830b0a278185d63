package bootstrap

import (
	"context"
	"log"

	"concierge-be/internal/config"
	"concierge-be/internal/controller"
	"concierge-be/internal/pkg/logger"
	"concierge-be/internal/pkg/mailer"
	"concierge-be/internal/repository/implementation"
	"concierge-be/internal/service"
	"concierge-be/internal/websocket"
	"concierge-be/pkg/backboard"
	"concierge-be/pkg/livekit"

	pktNats "concierge-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	UserController   controller.IUserController
	ThreadController controller.IThreadController
	ModelController  controller.IModelController
	VoiceController  controller.IVoiceController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	ActivityService service.IActivityService

	// WebSockets
	ChatHandler  *websocket.ChatHandler
	WebSocketHub *websocket.Hub

	Logger logger.ILogger

	// Held for Close.
	natsPub *pktNats.Publisher
	rdb     *redis.Client
	pubSub  *gochannel.GoChannel
}

// Close releases the container's connections and flushes logs. Safe to
// call once at process exit; nil members are skipped.
func (c *Container) Close() error {
	var firstErr error

	if c.pubSub != nil {
		if err := c.pubSub.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.natsPub != nil {
		c.natsPub.Close()
	}
	if c.rdb != nil {
		if err := c.rdb.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.Logger != nil {
		// Stdout sync failures are expected on some platforms.
		_ = c.Logger.Sync()
	}
	return firstErr
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
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

	// 2.5 Infrastructure
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

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/relay.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Provider client + repositories
	bbClient := backboard.NewClient(cfg.Backboard.BaseURL, cfg.Backboard.APIKey)
	assistantRepo := implementation.NewUserAssistantRepository(db)
	threadRepo := implementation.NewUserThreadRepository(db)

	// 4. Services
	clock := service.NewRealClock()
	assistantService := service.NewAssistantService(bbClient, assistantRepo, clock, cfg.Backboard, sysLogger)

	var publisher service.EventPublisher
	if natsPub != nil {
		publisher = natsPub
	}
	threadService := service.NewThreadService(bbClient, threadRepo, assistantService, publisher, sysLogger)
	relayService := service.NewRelayService(bbClient, threadService, cfg.Backboard, sysLogger)

	activityService := service.NewActivityService(cfg.Platform, pubSub, sysLogger)
	consumerService := service.NewConsumerService(pubSub, wsHub, sysLogger)

	// 5. Delivery
	chatHandler := websocket.NewChatHandler(wsHub, relayService, threadService, assistantService, emailService, wsLogger)
	minter := livekit.NewTokenMinter(cfg.LiveKit.APIKey, cfg.LiveKit.APISecret)

	return &Container{
		UserController:   controller.NewUserController(assistantService, threadService, cfg.App.JWTIssuer, cfg.App.JWTAudience),
		ThreadController: controller.NewThreadController(threadService, cfg.App.JWTIssuer, cfg.App.JWTAudience),
		ModelController:  controller.NewModelController(),
		VoiceController:  controller.NewVoiceController(minter, publisher, cfg.LiveKit, sysLogger, cfg.App.JWTIssuer, cfg.App.JWTAudience),

		ConsumerService: consumerService,
		ActivityService: activityService,

		ChatHandler:  chatHandler,
		WebSocketHub: wsHub,

		Logger: sysLogger,

		natsPub: natsPub,
		rdb:     rdb,
		pubSub:  pubSub,
	}
}
