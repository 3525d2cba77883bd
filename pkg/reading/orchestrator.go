package reading

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"ai-tarot-be/pkg/llm"
	"ai-tarot-be/pkg/rag"
	"ai-tarot-be/pkg/rag/prompt"
	"ai-tarot-be/pkg/rag/retrieve"
	"ai-tarot-be/pkg/rag/validate"
	"ai-tarot-be/pkg/tarot"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// Options tunes the orchestrator. Zero values fall back to defaults.
type Options struct {
	CacheTTL  time.Duration
	Retrieval retrieve.Config
}

// DefaultOptions returns the production defaults.
func DefaultOptions() Options {
	return Options{
		CacheTTL:  15 * time.Minute,
		Retrieval: retrieve.DefaultConfig(),
	}
}

// Orchestrator drives a reading through its lifecycle: draft a spread
// from the deck, retrieve knowledge, generate, validate, settle. Identical
// in-flight requests are coalesced and completed interpretations are
// cached by fingerprint.
type Orchestrator struct {
	deck      tarot.Deck
	retriever *retrieve.Retriever
	generator llm.Provider
	options   Options
	cache     *gocache.Cache
	group     singleflight.Group
	logger    *log.Logger
}

// cached is the cache and coalescing payload: the settled result of one
// interpretation run.
type cached struct {
	interpretation rag.Interpretation
	state          State
	partial        bool
	failureNote    string
	model          string
	provider       string
}

func NewOrchestrator(
	deck tarot.Deck,
	retriever *retrieve.Retriever,
	generator llm.Provider,
	logger *log.Logger,
	options Options,
) *Orchestrator {
	if options.CacheTTL <= 0 {
		options.CacheTTL = DefaultOptions().CacheTTL
	}
	if options.Retrieval.TopK == 0 {
		options.Retrieval = retrieve.DefaultConfig()
	}
	return &Orchestrator{
		deck:      deck,
		retriever: retriever,
		generator: generator,
		options:   options,
		cache:     gocache.New(options.CacheTTL, 10*time.Minute),
		logger:    logger,
	}
}

// Draft shuffles the deck, draws cards for the spread, and returns a
// reading in the Drafted state. Draft failures (unknown spread, deck
// underflow) happen before a reading exists, so they surface as plain
// errors rather than a Failed reading.
func (o *Orchestrator) Draft(spreadType tarot.SpreadType, question QuestionContext, rng tarot.RNG) (*Reading, error) {
	spread, err := tarot.NewSpread(spreadType)
	if err != nil {
		return nil, err
	}
	return o.draft(spread, question, rng)
}

// DraftCustom drafts a reading over caller-supplied position names.
func (o *Orchestrator) DraftCustom(positions []string, question QuestionContext, rng tarot.RNG) (*Reading, error) {
	spread, err := tarot.NewCustomSpread(positions)
	if err != nil {
		return nil, err
	}
	return o.draft(spread, question, rng)
}

func (o *Orchestrator) draft(spread tarot.Spread, question QuestionContext, rng tarot.RNG) (*Reading, error) {
	cards, _, err := o.deck.Shuffle(rng).DrawWithOrientation(spread.Size(), rng)
	if err != nil {
		return nil, err
	}

	r := &Reading{
		ID:        uuid.New(),
		Spread:    spread,
		Cards:     cards,
		Question:  question,
		State:     StateDrafted,
		CreatedAt: time.Now().UTC(),
	}
	r.Fingerprint = Fingerprint(spread.Type, cards, question)
	return r, nil
}

// Interpret runs the drafted reading to a terminal state. Concurrent
// requests with the same fingerprint share one generation; a completed
// interpretation is served from cache until its TTL lapses. Degraded
// outcomes are never cached.
func (o *Orchestrator) Interpret(ctx context.Context, r *Reading) error {
	if r.State != StateDrafted {
		return fmt.Errorf("reading %s is %s, not drafted", r.ID, r.State)
	}
	if r.Fingerprint == "" {
		r.Fingerprint = Fingerprint(r.Spread.Type, r.Cards, r.Question)
	}

	if hit, ok := o.cache.Get(r.Fingerprint); ok {
		o.apply(r, hit.(cached), true)
		return nil
	}

	v, err, shared := o.group.Do(r.Fingerprint, func() (any, error) {
		return o.run(ctx, r), nil
	})
	if err != nil {
		return err
	}
	o.apply(r, v.(cached), shared)
	return nil
}

func (o *Orchestrator) apply(r *Reading, c cached, coalesced bool) {
	interp := c.interpretation
	r.Interpretation = &interp
	r.State = c.state
	r.PartialKnowledge = c.partial
	r.FailureNote = c.failureNote
	r.Model = c.model
	r.Provider = c.provider
	r.Coalesced = coalesced && r.State == StateComplete
}

// run is the single-flight body: it owns the state transitions for the
// leading reading and returns the settled result for every coalesced
// caller.
func (o *Orchestrator) run(ctx context.Context, r *Reading) cached {
	r.State = StateRetrieving
	retrieval := o.retriever.Execute(ctx, r.Question.Question, r.Cards, o.options.Retrieval)
	if retrieval.Partial() {
		o.logger.Printf("[WARN] reading %s proceeding with partial knowledge, failed keys: %v",
			r.ID, retrieval.FailedKeys)
	}

	builder := prompt.NewBuilder(r.Question.Focus, r.Question.Question, r.Question.Context, r.Spread, r.Cards, retrieval.ByKey)

	interp, res, err := o.attempt(ctx, r, builder)
	if err != nil {
		o.logger.Printf("[WARN] reading %s generation failed, retrying with shortened prompt: %v", r.ID, err)
		interp, res, err = o.attempt(ctx, r, builder.Shortened())
	}
	if err != nil {
		o.logger.Printf("[ERROR] reading %s degraded to static meanings: %v", r.ID, err)
		return cached{
			interpretation: StaticInterpretation(r.Spread, r.Cards),
			state:          StateDegraded,
			partial:        retrieval.Partial(),
			failureNote:    err.Error(),
		}
	}

	result := cached{
		interpretation: interp,
		state:          StateComplete,
		partial:        retrieval.Partial(),
		model:          res.Model,
		provider:       res.Provider,
	}
	o.cache.Set(r.Fingerprint, result, gocache.DefaultExpiration)
	return result
}

// attempt runs one generate-parse-validate cycle.
func (o *Orchestrator) attempt(ctx context.Context, r *Reading, b *prompt.Builder) (rag.Interpretation, llm.Result, error) {
	r.State = StateGenerating
	res, err := o.generator.Generate(ctx, b.Build())
	if err != nil {
		return rag.Interpretation{}, llm.Result{}, err
	}

	r.State = StateValidating
	var interp rag.Interpretation
	if err := llm.ParseStructured(res, &interp); err != nil {
		return rag.Interpretation{}, llm.Result{}, err
	}
	if outcome := validate.Interpretation(interp, r.Cards); !outcome.Valid {
		return rag.Interpretation{}, llm.Result{}, fmt.Errorf("validation failed: %s", strings.Join(outcome.Issues, "; "))
	}
	return interp, res, nil
}

// StaticInterpretation composes the fallback reading from the canonical
// card meanings, one line per position.
func StaticInterpretation(spread tarot.Spread, cards []tarot.DrawnCard) rag.Interpretation {
	var b strings.Builder
	insights := make([]rag.CardInsight, 0, len(cards))
	for i, c := range cards {
		position := fmt.Sprintf("Position %d", i+1)
		if i < len(spread.Positions) {
			position = spread.Positions[i].Name
		}
		orientation := "Upright"
		if c.Reversed {
			orientation = "Reversed"
		}
		fmt.Fprintf(&b, "%s: %s (%s). %s\n", position, c.Card.Name, orientation, c.Meaning())
		insights = append(insights, rag.CardInsight{Card: c.Card.Name, Insight: c.Meaning()})
	}
	return rag.Interpretation{
		Interpretation: strings.TrimSpace(b.String()),
		Summary:        "This reading uses the traditional card meanings for each position.",
		CardInsights:   insights,
	}
}
