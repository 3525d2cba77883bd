package contract

import (
	"context"

	"ai-tarot-be/internal/entity"
)

// ScoredKnowledgeEmbedding wraps KnowledgeEmbedding with its similarity score.
type ScoredKnowledgeEmbedding struct {
	Embedding  *entity.KnowledgeEmbedding
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type KnowledgeEmbeddingRepository interface {
	UpsertBulk(ctx context.Context, embeddings []*entity.KnowledgeEmbedding) error
	Count(ctx context.Context) (int64, error)
	// DeleteStale removes documents left over from a previous corpus version.
	DeleteStale(ctx context.Context, currentVersion string) error
	// SearchSimilarWithScore returns embeddings with their similarity scores,
	// filtered by threshold and ordered by descending similarity.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*ScoredKnowledgeEmbedding, error)
}
