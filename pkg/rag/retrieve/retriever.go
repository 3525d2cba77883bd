package retrieve

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"ai-tarot-be/pkg/embedding"
	"ai-tarot-be/pkg/knowledge"
	"ai-tarot-be/pkg/rag"
	"ai-tarot-be/pkg/tarot"
)

// QuestionKey is the retrieval key for the overall-question query; card
// queries are keyed by card name.
const QuestionKey = rag.QuestionContextKey

// Config encapsulates retrieval parameters.
type Config struct {
	TopK      int
	Threshold float64
	Timeout   time.Duration
}

// DefaultConfig returns default retrieval configuration.
func DefaultConfig() Config {
	return Config{
		TopK:      3,
		Threshold: 0.35,
		Timeout:   5 * time.Second,
	}
}

// Result carries the settled outcome of a retrieval fan-out. Snippets are
// attached to their originating query by key, never by completion order.
type Result struct {
	ByKey      map[string][]knowledge.Snippet
	FailedKeys []string
}

// Partial reports whether any query failed or timed out.
func (r Result) Partial() bool {
	return len(r.FailedKeys) > 0
}

// Retriever runs knowledge queries for a drafted reading.
type Retriever struct {
	embedder embedding.Provider
	store    knowledge.Store
	logger   *log.Logger
}

func NewRetriever(embedder embedding.Provider, store knowledge.Store, logger *log.Logger) *Retriever {
	return &Retriever{
		embedder: embedder,
		store:    store,
		logger:   logger,
	}
}

// Execute issues one query per drawn card plus one for the overall
// question, all concurrently, and waits for every query to settle.
// Individual failures are recorded in FailedKeys and leave that key with
// no snippets; they never fail the fan-out.
func (r *Retriever) Execute(ctx context.Context, question string, cards []tarot.DrawnCard, config Config) Result {
	type query struct {
		key  string
		text string
	}

	queries := make([]query, 0, len(cards)+1)
	for _, c := range cards {
		queries = append(queries, query{key: c.Card.Name, text: cardQuery(c)})
	}
	if strings.TrimSpace(question) != "" {
		queries = append(queries, query{key: QuestionKey, text: question})
	}

	result := Result{ByKey: make(map[string][]knowledge.Snippet, len(queries))}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, q := range queries {
		wg.Add(1)
		go func(q query) {
			defer wg.Done()

			queryCtx, cancel := context.WithTimeout(ctx, config.Timeout)
			defer cancel()

			snippets, err := r.runQuery(queryCtx, q.text, config)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				r.logger.Printf("[WARN] retrieval for %q failed: %v", q.key, err)
				result.FailedKeys = append(result.FailedKeys, q.key)
				return
			}
			result.ByKey[q.key] = snippets
		}(q)
	}
	wg.Wait()

	return result
}

func (r *Retriever) runQuery(ctx context.Context, text string, config Config) ([]knowledge.Snippet, error) {
	vector, err := r.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	snippets, err := r.store.Search(ctx, vector, config.TopK, config.Threshold)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return snippets, nil
}

func cardQuery(c tarot.DrawnCard) string {
	orientation := "upright"
	if c.Reversed {
		orientation = "reversed"
	}
	return fmt.Sprintf("%s (%s): %s", c.Card.Name, orientation, strings.Join(c.Card.Keywords, ", "))
}
