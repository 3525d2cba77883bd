package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"ai-tarot-be/internal/config"
	"ai-tarot-be/internal/model"
	"ai-tarot-be/internal/repository/implementation"
	"ai-tarot-be/pkg/database"
	"ai-tarot-be/pkg/embedding"
	"ai-tarot-be/pkg/knowledge"
	"ai-tarot-be/pkg/tarot"
)

const embedBatchSize = 16

// Seeds the knowledge store: embeds every corpus document and upserts it
// into Postgres, then drops documents from older corpus versions.
func main() {
	cfg := config.Load()

	if cfg.Database.Connection == "" {
		log.Fatal("[FATAL] DB_CONNECTION_STRING is required for seeding")
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

	deck, corpusVersion, err := tarot.LoadDeck(cfg.Corpus.Path)
	if err != nil {
		log.Fatalf("[FATAL] Failed to load card corpus: %v", err)
	}
	log.Printf("[INFO] Loaded corpus version %s (%d cards)", corpusVersion, deck.Size())

	var provider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		provider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
	} else {
		provider = embedding.NewGeminiProvider(cfg.Ai.GeminiAPIKey)
	}
	provider = embedding.NewRetryProvider(provider, embedding.DefaultMaxAttempts)

	docs := corpusDocuments(deck)
	log.Printf("[INFO] Embedding %d documents...", len(docs))

	ctx := context.Background()
	repo := implementation.NewKnowledgeEmbeddingRepository(db)
	store := implementation.NewPgVectorStore(repo, corpusVersion)

	for start := 0; start < len(docs); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(docs) {
			end = len(docs)
		}
		batch := docs[start:end]

		texts := make([]string, len(batch))
		for i, doc := range batch {
			texts[i] = doc.Content
		}
		vectors, err := provider.EmbedBatch(ctx, texts)
		if err != nil {
			log.Fatalf("[FATAL] Embedding batch %d-%d failed: %v", start, end, err)
		}
		for i := range batch {
			batch[i].Vector = vectors[i]
		}

		if err := store.Index(ctx, batch); err != nil {
			log.Fatalf("[FATAL] Indexing batch %d-%d failed: %v", start, end, err)
		}
		log.Printf("[INFO] Indexed %d/%d documents", end, len(docs))
	}

	if err := repo.DeleteStale(ctx, corpusVersion); err != nil {
		log.Fatalf("[FATAL] Failed to remove stale documents: %v", err)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		log.Fatalf("[FATAL] Failed to count documents: %v", err)
	}
	log.Printf("[INFO] Seeding complete: %d documents at corpus version %s", count, corpusVersion)
}

// corpusDocuments renders two retrieval documents per card: the esoteric
// correspondences and the divinatory meanings.
func corpusDocuments(deck tarot.Deck) []knowledge.Document {
	index := knowledge.NewCorrespondenceIndex(deck)

	var docs []knowledge.Document
	for _, rec := range index.All() {
		docs = append(docs, knowledge.Document{
			ID:      "correspondence:" + rec.CardName,
			Content: rec.Text(),
			Source:  "correspondences",
		})
	}
	for _, card := range deck.Cards() {
		docs = append(docs, knowledge.Document{
			ID:      "meaning:" + card.Name,
			Content: meaningDocument(card),
			Source:  "meanings",
		})
	}
	return docs
}

func meaningDocument(card tarot.Card) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s. Upright: %s Reversed: %s", card.Name, card.UprightMeaning, card.ReversedMeaning)
	if len(card.Keywords) > 0 {
		fmt.Fprintf(&b, " Keywords: %s.", strings.Join(card.Keywords, ", "))
	}
	if card.EnhancedMeaning != "" {
		fmt.Fprintf(&b, " %s", card.EnhancedMeaning)
	}
	return b.String()
}
