package main

import (
	"context"
	"log"

	"decipher-research-be/internal/bootstrap"
	"decipher-research-be/internal/config"
	"decipher-research-be/internal/server"
	"decipher-research-be/internal/tracer"
	"decipher-research-be/pkg/database"
)

func main() {
	// 0. Initialize tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load configuration
	cfg := config.Load()

	// 2. Initialize database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap dependencies
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start background workers
	go func() {
		log.Println("Background: Starting Embedding Consumer...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Embedding Consumer Error: %v", err)
		}
	}()
	go func() {
		log.Println("Background: Starting Research Worker...")
		if err := container.ResearchWorkerService.Consume(context.Background()); err != nil {
			log.Printf("Background Research Worker Error: %v", err)
		}
	}()

	// 5. Run server
	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
