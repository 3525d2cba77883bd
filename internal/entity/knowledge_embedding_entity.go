package entity

import (
	"time"

	"github.com/google/uuid"
)

// KnowledgeEmbedding is one embedded document of the esoteric corpus.
// DocKey is the corpus-stable document id; re-seeding upserts on it.
type KnowledgeEmbedding struct {
	Id             uuid.UUID
	DocKey         string
	Document       string
	Source         string
	CorpusVersion  string
	EmbeddingValue []float32
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}
