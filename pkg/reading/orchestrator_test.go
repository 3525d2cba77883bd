package reading

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"math/rand"
	"sync"
	"testing"
	"time"

	"ai-tarot-be/pkg/knowledge"
	"ai-tarot-be/pkg/llm"
	"ai-tarot-be/pkg/rag"
	"ai-tarot-be/pkg/rag/retrieve"
	"ai-tarot-be/pkg/tarot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct{}

func (fakeEmbedder) Embed(context.Context, string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func (f fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{1, 0}
	}
	return vectors, nil
}

// scriptedLLM replays canned responses in order, repeating the last one.
type scriptedLLM struct {
	mu      sync.Mutex
	calls   int
	prompts []string
	texts   []string
	errs    []error
	delay   time.Duration
}

func (s *scriptedLLM) Generate(_ context.Context, prompt string, _ ...llm.Option) (llm.Result, error) {
	s.mu.Lock()
	i := s.calls
	s.calls++
	s.prompts = append(s.prompts, prompt)
	s.mu.Unlock()

	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if i >= len(s.texts) {
		i = len(s.texts) - 1
	}
	if err := s.errs[i]; err != nil {
		return llm.Result{}, err
	}
	return llm.Result{Text: s.texts[i], Model: "scripted-model", Provider: "scripted"}, nil
}

func (s *scriptedLLM) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func goodResponse(t *testing.T, cards []tarot.DrawnCard) string {
	t.Helper()
	interp := rag.Interpretation{
		Interpretation: "The cards trace a movement from hesitation toward resolve.",
		Summary:        "A turning point approached with open eyes.",
	}
	for _, c := range cards {
		interp.CardInsights = append(interp.CardInsights, rag.CardInsight{
			Card: c.Card.Name, Insight: "Speaks to the matter at hand.",
		})
	}
	raw, err := json.Marshal(interp)
	require.NoError(t, err)
	return string(raw)
}

func newTestOrchestrator(t *testing.T, generator llm.Provider) *Orchestrator {
	t.Helper()
	deck, _, err := tarot.LoadDeck("../../data/cards.json")
	require.NoError(t, err)

	store := knowledge.NewMemoryStore()
	require.NoError(t, store.Index(context.Background(), []knowledge.Document{
		{ID: "doc1", Content: "The suit of wands answers to fire.", Source: "test", Vector: []float32{1, 0}},
	}))

	logger := log.New(io.Discard, "", 0)
	retriever := retrieve.NewRetriever(fakeEmbedder{}, store, logger)
	return NewOrchestrator(deck, retriever, generator, logger, DefaultOptions())
}

func TestDraft(t *testing.T) {
	o := newTestOrchestrator(t, &scriptedLLM{texts: []string{""}, errs: []error{nil}})
	rng := rand.New(rand.NewSource(7))

	r, err := o.Draft(tarot.SpreadThreeCard, QuestionContext{Question: "What lies ahead?"}, rng)
	require.NoError(t, err)
	assert.Equal(t, StateDrafted, r.State)
	assert.Len(t, r.Cards, 3)
	assert.NotEmpty(t, r.Fingerprint)
	assert.Equal(t, "Past", r.Spread.Positions[0].Name)

	_, err = o.Draft("pyramid", QuestionContext{}, rng)
	var unknown *tarot.UnknownSpreadError
	require.ErrorAs(t, err, &unknown)
}

func TestInterpretComplete(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	probe := newTestOrchestrator(t, &scriptedLLM{texts: []string{""}, errs: []error{nil}})
	r, err := probe.Draft(tarot.SpreadThreeCard, QuestionContext{Focus: "career", Question: "Should I change jobs?"}, rng)
	require.NoError(t, err)

	gen := &scriptedLLM{texts: []string{goodResponse(t, r.Cards)}, errs: []error{nil}}
	o := newTestOrchestrator(t, gen)

	require.NoError(t, o.Interpret(context.Background(), r))
	assert.Equal(t, StateComplete, r.State)
	require.NotNil(t, r.Interpretation)
	assert.NotEmpty(t, r.Interpretation.Interpretation)
	assert.Equal(t, "scripted-model", r.Model)
	assert.Equal(t, "scripted", r.Provider)
	assert.False(t, r.PartialKnowledge)
	assert.False(t, r.Coalesced)
	assert.Equal(t, 1, gen.callCount())

	t.Run("retrieved context reaches the prompt", func(t *testing.T) {
		assert.Contains(t, gen.prompts[0], "suit of wands")
	})

	t.Run("interpreting a settled reading is rejected", func(t *testing.T) {
		assert.Error(t, o.Interpret(context.Background(), r))
	})
}

func TestInterpretCacheHit(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	probe := newTestOrchestrator(t, &scriptedLLM{texts: []string{""}, errs: []error{nil}})
	first, err := probe.Draft(tarot.SpreadSingle, QuestionContext{Question: "Guidance?"}, rng)
	require.NoError(t, err)

	gen := &scriptedLLM{texts: []string{goodResponse(t, first.Cards)}, errs: []error{nil}}
	o := newTestOrchestrator(t, gen)
	require.NoError(t, o.Interpret(context.Background(), first))

	second := &Reading{
		ID:       first.ID,
		Spread:   first.Spread,
		Cards:    first.Cards,
		Question: first.Question,
		State:    StateDrafted,
	}
	require.NoError(t, o.Interpret(context.Background(), second))

	assert.Equal(t, StateComplete, second.State)
	assert.True(t, second.Coalesced)
	assert.Equal(t, first.Interpretation, second.Interpretation)
	assert.Equal(t, 1, gen.callCount(), "cache hit must not regenerate")
}

func TestInterpretCoalescing(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	probe := newTestOrchestrator(t, &scriptedLLM{texts: []string{""}, errs: []error{nil}})
	base, err := probe.Draft(tarot.SpreadThreeCard, QuestionContext{Question: "What now?"}, rng)
	require.NoError(t, err)

	gen := &scriptedLLM{texts: []string{goodResponse(t, base.Cards)}, errs: []error{nil}, delay: 100 * time.Millisecond}
	o := newTestOrchestrator(t, gen)

	const concurrent = 8
	readings := make([]*Reading, concurrent)
	var wg sync.WaitGroup
	for i := 0; i < concurrent; i++ {
		readings[i] = &Reading{
			Spread:   base.Spread,
			Cards:    base.Cards,
			Question: base.Question,
			State:    StateDrafted,
		}
		wg.Add(1)
		go func(r *Reading) {
			defer wg.Done()
			assert.NoError(t, o.Interpret(context.Background(), r))
		}(readings[i])
	}
	wg.Wait()

	assert.Equal(t, 1, gen.callCount(), "identical in-flight requests must share one generation")
	for _, r := range readings {
		assert.Equal(t, StateComplete, r.State)
		require.NotNil(t, r.Interpretation)
	}
}

func TestInterpretDegraded(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	probe := newTestOrchestrator(t, &scriptedLLM{texts: []string{""}, errs: []error{nil}})
	r, err := probe.Draft(tarot.SpreadThreeCard, QuestionContext{Question: "Why?"}, rng)
	require.NoError(t, err)

	genErr := &llm.GenerationError{Provider: "scripted", Code: 503, Retryable: true, Err: errors.New("down")}
	gen := &scriptedLLM{texts: []string{""}, errs: []error{genErr}}
	o := newTestOrchestrator(t, gen)

	require.NoError(t, o.Interpret(context.Background(), r))

	assert.Equal(t, StateDegraded, r.State)
	assert.Equal(t, 2, gen.callCount(), "one full attempt plus one shortened retry")
	assert.NotEmpty(t, r.FailureNote)
	require.NotNil(t, r.Interpretation)
	for i, c := range r.Cards {
		assert.Contains(t, r.Interpretation.Interpretation, c.Card.Name)
		assert.Equal(t, c.Meaning(), r.Interpretation.CardInsights[i].Insight)
	}

	t.Run("retry drops the retrieved context", func(t *testing.T) {
		require.Len(t, gen.prompts, 2)
		assert.Less(t, len(gen.prompts[1]), len(gen.prompts[0]))
		assert.NotContains(t, gen.prompts[1], "reference_material")
	})

	t.Run("degraded result is not cached", func(t *testing.T) {
		again := &Reading{Spread: r.Spread, Cards: r.Cards, Question: r.Question, State: StateDrafted}
		require.NoError(t, o.Interpret(context.Background(), again))
		assert.Equal(t, 4, gen.callCount(), "degraded outcome must be recomputed")
	})
}

func TestInterpretRecoversOnRetry(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	probe := newTestOrchestrator(t, &scriptedLLM{texts: []string{""}, errs: []error{nil}})
	r, err := probe.Draft(tarot.SpreadSingle, QuestionContext{Question: "Hm?"}, rng)
	require.NoError(t, err)

	// first response is prose, second is well-formed
	gen := &scriptedLLM{
		texts: []string{"The cards suggest patience.", goodResponse(t, r.Cards)},
		errs:  []error{nil, nil},
	}
	o := newTestOrchestrator(t, gen)

	require.NoError(t, o.Interpret(context.Background(), r))
	assert.Equal(t, StateComplete, r.State)
	assert.Equal(t, 2, gen.callCount())
	assert.Empty(t, r.FailureNote)
}

func TestInterpretRejectsInventedCards(t *testing.T) {
	rng := rand.New(rand.NewSource(19))
	probe := newTestOrchestrator(t, &scriptedLLM{texts: []string{""}, errs: []error{nil}})
	r, err := probe.Draft(tarot.SpreadSingle, QuestionContext{}, rng)
	require.NoError(t, err)

	invented := rag.Interpretation{
		Interpretation: "A card outside the deck appears.",
		Summary:        "Invented.",
		CardInsights:   []rag.CardInsight{{Card: "The Architect", Insight: "Not real."}},
	}
	raw, err := json.Marshal(invented)
	require.NoError(t, err)

	gen := &scriptedLLM{texts: []string{string(raw)}, errs: []error{nil}}
	o := newTestOrchestrator(t, gen)

	require.NoError(t, o.Interpret(context.Background(), r))
	assert.Equal(t, StateDegraded, r.State)
	assert.Contains(t, r.FailureNote, "The Architect")
}

func TestFingerprint(t *testing.T) {
	deck, _, err := tarot.LoadDeck("../../data/cards.json")
	require.NoError(t, err)
	cards, _, err := deck.DrawWithOrientation(3, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	q := QuestionContext{Focus: "career", Question: "Change jobs?"}

	base := Fingerprint(tarot.SpreadThreeCard, cards, q)
	assert.Equal(t, base, Fingerprint(tarot.SpreadThreeCard, cards, q), "fingerprint is deterministic")

	flipped := make([]tarot.DrawnCard, len(cards))
	copy(flipped, cards)
	flipped[0].Reversed = !flipped[0].Reversed
	assert.NotEqual(t, base, Fingerprint(tarot.SpreadThreeCard, flipped, q), "orientation is identity")

	assert.NotEqual(t, base, Fingerprint(tarot.SpreadHorseshoe, cards, q), "spread type is identity")
	assert.NotEqual(t, base, Fingerprint(tarot.SpreadThreeCard, cards, QuestionContext{Question: "Other?"}), "question is identity")
}

func TestReadingRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(23))
	probe := newTestOrchestrator(t, &scriptedLLM{texts: []string{""}, errs: []error{nil}})
	r, err := probe.Draft(tarot.SpreadCelticCross, QuestionContext{Question: "All of it?"}, rng)
	require.NoError(t, err)

	gen := &scriptedLLM{texts: []string{goodResponse(t, r.Cards)}, errs: []error{nil}}
	o := newTestOrchestrator(t, gen)
	require.NoError(t, o.Interpret(context.Background(), r))

	raw, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded Reading
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, r.ID, decoded.ID)
	assert.Equal(t, r.State, decoded.State)
	assert.Equal(t, r.Fingerprint, decoded.Fingerprint)
	assert.Equal(t, r.Cards, decoded.Cards)
	assert.Equal(t, r.Interpretation, decoded.Interpretation)
}
