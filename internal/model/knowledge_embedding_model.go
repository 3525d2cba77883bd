package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type KnowledgeEmbedding struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocKey         string          `gorm:"type:varchar(255);not null;uniqueIndex"`
	Document       string          `gorm:"type:text;not null"`
	Source         string          `gorm:"type:varchar(64);not null;index"`
	CorpusVersion  string          `gorm:"type:varchar(32);not null"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"` // text-embedding-004 and nomic-embed-text are 768-dimensional
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime"`
}

func (KnowledgeEmbedding) TableName() string {
	return "knowledge_embeddings"
}
