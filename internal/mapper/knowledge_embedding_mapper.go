package mapper

import (
	"time"

	"ai-tarot-be/internal/entity"
	"ai-tarot-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type KnowledgeEmbeddingMapper struct{}

func NewKnowledgeEmbeddingMapper() *KnowledgeEmbeddingMapper {
	return &KnowledgeEmbeddingMapper{}
}

func (m *KnowledgeEmbeddingMapper) ToEntity(e *model.KnowledgeEmbedding) *entity.KnowledgeEmbedding {
	if e == nil {
		return nil
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.KnowledgeEmbedding{
		Id:             e.Id,
		DocKey:         e.DocKey,
		Document:       e.Document,
		Source:         e.Source,
		CorpusVersion:  e.CorpusVersion,
		EmbeddingValue: e.EmbeddingValue.Slice(),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

func (m *KnowledgeEmbeddingMapper) ToModel(e *entity.KnowledgeEmbedding) *model.KnowledgeEmbedding {
	if e == nil {
		return nil
	}

	out := &model.KnowledgeEmbedding{
		Id:             e.Id,
		DocKey:         e.DocKey,
		Document:       e.Document,
		Source:         e.Source,
		CorpusVersion:  e.CorpusVersion,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		CreatedAt:      e.CreatedAt,
	}
	if e.UpdatedAt != nil {
		out.UpdatedAt = *e.UpdatedAt
	}
	return out
}
