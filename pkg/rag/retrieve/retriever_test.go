package retrieve

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"ai-tarot-be/pkg/knowledge"
	"ai-tarot-be/pkg/tarot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	failOn map[string]bool
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if f.failOn[text] {
		return nil, errors.New("embedding unavailable")
	}
	return []float32{1, 0}, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := f.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = v
	}
	return vectors, nil
}

func testStore(t *testing.T) knowledge.Store {
	t.Helper()
	store := knowledge.NewMemoryStore()
	require.NoError(t, store.Index(context.Background(), []knowledge.Document{
		{ID: "doc1", Content: "aligned", Source: "test", Vector: []float32{1, 0}},
		{ID: "doc2", Content: "orthogonal", Source: "test", Vector: []float32{0, 1}},
	}))
	return store
}

func TestExecuteFanOut(t *testing.T) {
	cards := []tarot.DrawnCard{
		{Card: tarot.Card{Name: "The Fool", Keywords: []string{"beginnings"}}},
		{Card: tarot.Card{Name: "The Star", Keywords: []string{"hope"}}, Reversed: true},
	}
	logger := log.New(io.Discard, "", 0)

	t.Run("all queries settle keyed by card name", func(t *testing.T) {
		r := NewRetriever(&fakeEmbedder{}, testStore(t), logger)
		result := r.Execute(context.Background(), "What lies ahead?", cards, DefaultConfig())

		assert.False(t, result.Partial())
		assert.Len(t, result.ByKey, 3)
		assert.NotEmpty(t, result.ByKey["The Fool"])
		assert.NotEmpty(t, result.ByKey["The Star"])
		assert.NotEmpty(t, result.ByKey[QuestionKey])
	})

	t.Run("failed query is recorded without failing the rest", func(t *testing.T) {
		embedder := &fakeEmbedder{failOn: map[string]bool{
			cardQuery(cards[1]): true,
		}}
		r := NewRetriever(embedder, testStore(t), logger)
		result := r.Execute(context.Background(), "What lies ahead?", cards, DefaultConfig())

		assert.True(t, result.Partial())
		assert.Equal(t, []string{"The Star"}, result.FailedKeys)
		assert.NotEmpty(t, result.ByKey["The Fool"])
		assert.NotContains(t, result.ByKey, "The Star")
	})

	t.Run("blank question skips the question query", func(t *testing.T) {
		r := NewRetriever(&fakeEmbedder{}, testStore(t), logger)
		result := r.Execute(context.Background(), "  ", cards, DefaultConfig())

		assert.Len(t, result.ByKey, 2)
		assert.NotContains(t, result.ByKey, QuestionKey)
	})
}
