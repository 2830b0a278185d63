package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"concierge-be/internal/agent"
	"concierge-be/internal/config"
	"concierge-be/internal/pkg/logger"
	"concierge-be/internal/repository/implementation"
	"concierge-be/internal/repository/memory"
	"concierge-be/internal/service"
	"concierge-be/pkg/backboard"
	"concierge-be/pkg/database"
	pktNats "concierge-be/pkg/nats"
)

// The voice worker runs as its own process but shares the Postgres
// mapping tables and the NATS bus with the chat backend, so a thread
// switched in chat routes the very next voice turn.
func main() {
	cfg := config.Load()
	sysLogger := logger.NewZapLogger("logs/agent.log", cfg.App.Environment == "production")
	defer sysLogger.Sync()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Panicf("Unable to connect to NATS publisher: %v", err)
	}
	defer natsPub.Close()

	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Panicf("Unable to connect to NATS subscriber: %v", err)
	}
	defer natsSub.Close()

	bbClient := backboard.NewClient(cfg.Backboard.BaseURL, cfg.Backboard.APIKey)

	assistantRepo := implementation.NewUserAssistantRepository(gormDB)
	threadCache := memory.NewThreadCache()
	threadRepo := agent.NewCachedThreadRepository(implementation.NewUserThreadRepository(gormDB), threadCache)

	clock := service.NewRealClock()
	assistantService := service.NewAssistantService(bbClient, assistantRepo, clock, cfg.Backboard, sysLogger)
	threadService := service.NewThreadService(bbClient, threadRepo, assistantService, natsPub, sysLogger)
	relayService := service.NewRelayService(bbClient, threadService, cfg.Backboard, sysLogger)

	worker := agent.NewWorker(relayService, threadService, threadCache, natsSub, natsPub, sysLogger)
	if err := worker.Start(context.Background()); err != nil {
		log.Panicf("Unable to start voice worker: %v", err)
	}

	log.Println("✅ Voice worker is running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Voice worker shutting down")
}
