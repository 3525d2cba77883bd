package implementation

import (
	"context"

	"ai-tarot-be/internal/entity"
	"ai-tarot-be/internal/mapper"
	"ai-tarot-be/internal/model"
	"ai-tarot-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type KnowledgeEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.KnowledgeEmbeddingMapper
}

func NewKnowledgeEmbeddingRepository(db *gorm.DB) contract.KnowledgeEmbeddingRepository {
	return &KnowledgeEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewKnowledgeEmbeddingMapper(),
	}
}

func (r *KnowledgeEmbeddingRepositoryImpl) UpsertBulk(ctx context.Context, embeddings []*entity.KnowledgeEmbedding) error {
	if len(embeddings) == 0 {
		return nil
	}

	models := make([]*model.KnowledgeEmbedding, len(embeddings))
	for i, e := range embeddings {
		models[i] = r.mapper.ToModel(e)
	}

	// Re-seeding replaces documents in place, keyed by doc_key
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "doc_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"document", "source", "corpus_version", "embedding_value", "updated_at"}),
		}).
		Create(models).Error
	if err != nil {
		return err
	}

	for i, m := range models {
		*embeddings[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *KnowledgeEmbeddingRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.KnowledgeEmbedding{}).Count(&count).Error
	return count, err
}

func (r *KnowledgeEmbeddingRepositoryImpl) DeleteStale(ctx context.Context, currentVersion string) error {
	return r.db.WithContext(ctx).
		Where("corpus_version <> ?", currentVersion).
		Delete(&model.KnowledgeEmbedding{}).Error
}

// SearchSimilarWithScore runs a pgvector cosine query. Cosine distance in
// pgvector is 1 - cosine_similarity, so 1 - (embedding_value <=> query)
// recovers the similarity.
func (r *KnowledgeEmbeddingRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*contract.ScoredKnowledgeEmbedding, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.KnowledgeEmbedding
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("knowledge_embeddings").
		Select("knowledge_embeddings.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredKnowledgeEmbedding, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredKnowledgeEmbedding{
			Embedding:  r.mapper.ToEntity(&res.KnowledgeEmbedding),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
