package knowledge

import (
	"context"
	"math"
	"sort"
	"sync"
)

// Document is an indexable unit of the esoteric corpus.
type Document struct {
	ID      string
	Content string
	Source  string // corpus id, e.g. "correspondences" or "golden_dawn"
	Vector  []float32
}

// Snippet is a retrieved document with its similarity score. Snippets are
// consumed once by the generation step and then discarded.
type Snippet struct {
	ID         string  `json:"id"`
	Content    string  `json:"content"`
	Source     string  `json:"source"`
	Similarity float64 `json:"similarity"`
}

// Store indexes documents and answers nearest-neighbour queries.
type Store interface {
	// Index adds documents to the corpus. Existing IDs are replaced.
	Index(ctx context.Context, docs []Document) error

	// Search returns up to k snippets whose cosine similarity to the query
	// exceeds threshold, ordered by descending similarity with ties broken
	// by corpus insertion order. An empty result is valid.
	Search(ctx context.Context, queryVector []float32, k int, threshold float64) ([]Snippet, error)
}

// MemoryStore is an exact-cosine in-process Store. It backs unit tests and
// deployments without a database.
type MemoryStore struct {
	mu   sync.RWMutex
	docs []Document
	byID map[string]int
}

var _ Store = &MemoryStore{}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]int)}
}

func (s *MemoryStore) Index(_ context.Context, docs []Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range docs {
		if i, ok := s.byID[doc.ID]; ok {
			s.docs[i] = doc
			continue
		}
		s.byID[doc.ID] = len(s.docs)
		s.docs = append(s.docs, doc)
	}
	return nil
}

func (s *MemoryStore) Search(_ context.Context, queryVector []float32, k int, threshold float64) ([]Snippet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		order int
		snip  Snippet
	}
	var hits []scored
	for i, doc := range s.docs {
		sim := CosineSimilarity(queryVector, doc.Vector)
		if sim < threshold {
			continue
		}
		hits = append(hits, scored{order: i, snip: Snippet{
			ID:         doc.ID,
			Content:    doc.Content,
			Source:     doc.Source,
			Similarity: sim,
		}})
	}

	sort.SliceStable(hits, func(a, b int) bool {
		if hits[a].snip.Similarity != hits[b].snip.Similarity {
			return hits[a].snip.Similarity > hits[b].snip.Similarity
		}
		return hits[a].order < hits[b].order
	})

	if k > 0 && len(hits) > k {
		hits = hits[:k]
	}
	snippets := make([]Snippet, len(hits))
	for i, h := range hits {
		snippets[i] = h.snip
	}
	return snippets, nil
}

// Len returns the number of indexed documents.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// CosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched dimensions or zero vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
