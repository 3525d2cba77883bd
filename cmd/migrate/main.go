package main

import (
	"log"

	"ai-tarot-be/internal/config"
	"ai-tarot-be/internal/model"
	"ai-tarot-be/pkg/database"
)

// Creates or updates the database schema without seeding.
func main() {
	cfg := config.Load()

	if cfg.Database.Connection == "" {
		log.Fatal("[FATAL] DB_CONNECTION_STRING is required for migration")
	}
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("[FATAL] Unable to connect to GORM DB: %v", err)
	}

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		log.Fatalf("[FATAL] Failed to enable pgvector extension: %v", err)
	}
	if err := db.AutoMigrate(&model.KnowledgeEmbedding{}, &model.Reading{}); err != nil {
		log.Fatalf("[FATAL] Failed to migrate schema: %v", err)
	}

	log.Println("[INFO] Migration complete")
}
