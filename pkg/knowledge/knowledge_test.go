package knowledge

import (
	"context"
	"testing"

	"ai-tarot-be/pkg/tarot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrespondenceLookup(t *testing.T) {
	deck, _, err := tarot.LoadDeck("../../data/cards.json")
	require.NoError(t, err)
	idx := NewCorrespondenceIndex(deck)

	rec, err := idx.Lookup("The Magician")
	require.NoError(t, err)
	assert.Equal(t, "Mercury", rec.Astrological)
	assert.NotEmpty(t, rec.Kabbalistic)
	assert.NotEmpty(t, rec.Symbolism)

	// lookups are case-insensitive
	lower, err := idx.Lookup("the magician")
	require.NoError(t, err)
	assert.Equal(t, rec, lower)

	_, err = idx.Lookup("The Architect")
	var unknown *UnknownCardError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "The Architect", unknown.Name)
}

func TestCorrespondenceText(t *testing.T) {
	rec := CorrespondenceRecord{
		CardName:     "Five of Wands",
		Element:      "Fire",
		Astrological: "Saturn in Leo",
		Kabbalistic:  "Geburah",
		Decan:        "Saturn in Leo",
		Symbolism:    []string{"strife"},
		Keywords:     []string{"competition"},
	}
	text := rec.Text()
	assert.Contains(t, text, "Five of Wands")
	assert.Contains(t, text, "Saturn in Leo")
	assert.Contains(t, text, "strife")
}

func TestMemoryStoreSearch(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	docs := []Document{
		{ID: "a", Content: "first", Source: "test", Vector: []float32{1, 0}},
		{ID: "b", Content: "second", Source: "test", Vector: []float32{0.9, 0.1}},
		{ID: "c", Content: "third", Source: "test", Vector: []float32{0, 1}},
		{ID: "d", Content: "fourth", Source: "test", Vector: []float32{1, 0}}, // ties with a
	}
	require.NoError(t, store.Index(ctx, docs))
	assert.Equal(t, 4, store.Len())

	t.Run("ordered by similarity, ties by insertion order", func(t *testing.T) {
		hits, err := store.Search(ctx, []float32{1, 0}, 3, 0.5)
		require.NoError(t, err)
		require.Len(t, hits, 3)
		assert.Equal(t, "a", hits[0].ID)
		assert.Equal(t, "d", hits[1].ID)
		assert.Equal(t, "b", hits[2].ID)
		assert.GreaterOrEqual(t, hits[0].Similarity, hits[2].Similarity)
	})

	t.Run("threshold filters", func(t *testing.T) {
		hits, err := store.Search(ctx, []float32{1, 0}, 10, 0.99)
		require.NoError(t, err)
		assert.Len(t, hits, 2)
	})

	t.Run("empty result is not an error", func(t *testing.T) {
		hits, err := store.Search(ctx, []float32{-1, 0}, 10, 0.5)
		require.NoError(t, err)
		assert.Empty(t, hits)
	})

	t.Run("reindex replaces by id", func(t *testing.T) {
		require.NoError(t, store.Index(ctx, []Document{{ID: "a", Content: "updated", Vector: []float32{1, 0}}}))
		assert.Equal(t, 4, store.Len())
		hits, err := store.Search(ctx, []float32{1, 0}, 1, 0)
		require.NoError(t, err)
		assert.Equal(t, "updated", hits[0].Content)
	})
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 2}, []float32{2, 4}), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Zero(t, CosineSimilarity([]float32{1}, []float32{1, 2}), "dimension mismatch")
	assert.Zero(t, CosineSimilarity(nil, nil))
}
