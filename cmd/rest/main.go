package main

import (
	"context"
	"log"

	"concierge-be/internal/bootstrap"
	"concierge-be/internal/config"
	"concierge-be/internal/server"
	"concierge-be/internal/tracer"
	"concierge-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Activity Consumer...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()
	container.ActivityService.Start(context.Background())

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	err = srv.Run()
	if cerr := container.Close(); cerr != nil {
		log.Printf("Cleanup error: %v", cerr)
	}
	if err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
