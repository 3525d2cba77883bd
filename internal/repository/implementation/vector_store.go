package implementation

import (
	"context"

	"ai-tarot-be/internal/entity"
	"ai-tarot-be/internal/repository/contract"
	"ai-tarot-be/pkg/knowledge"
)

// PgVectorStore adapts the knowledge embedding repository to the
// knowledge.Store interface, so retrieval and seeding run against
// Postgres the same way they run against the in-memory store.
type PgVectorStore struct {
	repo          contract.KnowledgeEmbeddingRepository
	corpusVersion string
}

var _ knowledge.Store = &PgVectorStore{}

func NewPgVectorStore(repo contract.KnowledgeEmbeddingRepository, corpusVersion string) *PgVectorStore {
	return &PgVectorStore{
		repo:          repo,
		corpusVersion: corpusVersion,
	}
}

func (s *PgVectorStore) Index(ctx context.Context, docs []knowledge.Document) error {
	embeddings := make([]*entity.KnowledgeEmbedding, len(docs))
	for i, doc := range docs {
		embeddings[i] = &entity.KnowledgeEmbedding{
			DocKey:         doc.ID,
			Document:       doc.Content,
			Source:         doc.Source,
			CorpusVersion:  s.corpusVersion,
			EmbeddingValue: doc.Vector,
		}
	}
	return s.repo.UpsertBulk(ctx, embeddings)
}

func (s *PgVectorStore) Search(ctx context.Context, queryVector []float32, k int, threshold float64) ([]knowledge.Snippet, error) {
	scored, err := s.repo.SearchSimilarWithScore(ctx, queryVector, k, threshold)
	if err != nil {
		return nil, err
	}

	snippets := make([]knowledge.Snippet, len(scored))
	for i, sc := range scored {
		snippets[i] = knowledge.Snippet{
			ID:         sc.Embedding.DocKey,
			Content:    sc.Embedding.Document,
			Source:     sc.Embedding.Source,
			Similarity: sc.Similarity,
		}
	}
	return snippets, nil
}
