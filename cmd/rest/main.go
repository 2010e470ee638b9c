package main

import (
	"context"
	"log"

	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/bootstrap"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/config"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/server"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/tracer"
	"github.com/sanalejo720/crm-bot-ngso-sub001/pkg/database"
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
	if err := container.Sweeper.Start(); err != nil {
		log.Panicf("Unable to start session sweeper: %v", err)
	}
	defer container.Sweeper.Stop()

	go func() {
		log.Println("Background: Starting Assignment Service...")
		if err := container.AssignmentService.Consume(context.Background()); err != nil {
			log.Printf("Background Assignment Error: %v", err)
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
