package main

import (
	"context"
	"log"

	"ai-tarot-be/internal/bootstrap"
	"ai-tarot-be/internal/config"
	"ai-tarot-be/internal/server"
	"ai-tarot-be/internal/tracer"
	"ai-tarot-be/pkg/database"

	"gorm.io/gorm"
)

func main() {
	// 0. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database (optional: without it the service runs stateless)
	var gormDB *gorm.DB
	if cfg.Database.Connection != "" {
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
		if err != nil {
			log.Panicf("Unable to connect to GORM DB: %v", err)
		}
		gormDB = db
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Logger.Sync()

	// 4. Start Background Services
	if container.ConsumerService != nil {
		go func() {
			log.Println("Background: Starting Consumer Service...")
			if err := container.ConsumerService.Consume(context.Background()); err != nil {
				log.Printf("Background Consumer Error: %v", err)
			}
		}()
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
