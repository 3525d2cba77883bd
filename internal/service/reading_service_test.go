package service

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"testing"

	"ai-tarot-be/internal/dto"
	"ai-tarot-be/internal/entity"
	"ai-tarot-be/pkg/knowledge"
	"ai-tarot-be/pkg/llm"
	"ai-tarot-be/pkg/rag"
	"ai-tarot-be/pkg/rag/retrieve"
	"ai-tarot-be/pkg/reading"
	"ai-tarot-be/pkg/tarot"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Debug(string, string, map[string]interface{}) {}
func (noopLogger) Info(string, string, map[string]interface{})  {}
func (noopLogger) Warn(string, string, map[string]interface{})  {}
func (noopLogger) Error(string, string, map[string]interface{}) {}
func (noopLogger) Sync() error                                  { return nil }

type stubEmbedder struct{}

func (stubEmbedder) Embed(context.Context, string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func (stubEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

// echoLLM answers every prompt with a valid interpretation naming no cards.
type echoLLM struct{}

func (echoLLM) Generate(context.Context, string, ...llm.Option) (llm.Result, error) {
	raw, _ := json.Marshal(rag.Interpretation{
		Interpretation: "The spread points toward deliberate change.",
		Summary:        "Change handled with care.",
	})
	return llm.Result{Text: string(raw), Model: "echo-model", Provider: "echo"}, nil
}

type recordingPublisher struct {
	published []*reading.Reading
}

func (p *recordingPublisher) PublishArchiveReading(r *reading.Reading) error {
	p.published = append(p.published, r)
	return nil
}

type stubReadingRepo struct {
	byId map[uuid.UUID]*entity.Reading
}

func (r *stubReadingRepo) Create(_ context.Context, e *entity.Reading) error {
	r.byId[e.Id] = e
	return nil
}

func (r *stubReadingRepo) FindById(_ context.Context, id uuid.UUID) (*entity.Reading, error) {
	return r.byId[id], nil
}

func (r *stubReadingRepo) FindRecent(_ context.Context, limit int) ([]*entity.Reading, error) {
	out := make([]*entity.Reading, 0, len(r.byId))
	for _, e := range r.byId {
		out = append(out, e)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubReadingRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.byId, id)
	return nil
}

func newTestService(t *testing.T) (IReadingService, *recordingPublisher, *stubReadingRepo) {
	t.Helper()
	deck, _, err := tarot.LoadDeck("../../data/cards.json")
	require.NoError(t, err)

	stdLogger := log.New(io.Discard, "", 0)
	retriever := retrieve.NewRetriever(stubEmbedder{}, knowledge.NewMemoryStore(), stdLogger)
	orchestrator := reading.NewOrchestrator(deck, retriever, echoLLM{}, stdLogger, reading.DefaultOptions())

	publisher := &recordingPublisher{}
	repo := &stubReadingRepo{byId: make(map[uuid.UUID]*entity.Reading)}
	return NewReadingService(orchestrator, repo, publisher, noopLogger{}), publisher, repo
}

func TestReadingServiceCreate(t *testing.T) {
	svc, publisher, _ := newTestService(t)

	res, err := svc.Create(context.Background(), &dto.CreateReadingRequest{
		SpreadType: "three_card",
		Focus:      "career",
		Question:   "Should I change jobs?",
	})
	require.NoError(t, err)

	assert.Equal(t, "three_card", res.SpreadType)
	assert.Equal(t, string(reading.StateComplete), res.State)
	require.Len(t, res.Cards, 3)
	assert.Equal(t, "Past", res.Cards[0].Position)
	assert.NotEmpty(t, res.Interpretation)
	assert.Equal(t, "echo-model", res.Model)

	require.Len(t, publisher.published, 1)
	assert.Equal(t, res.Id, publisher.published[0].ID)

	t.Run("unknown spread is rejected", func(t *testing.T) {
		_, err := svc.Create(context.Background(), &dto.CreateReadingRequest{SpreadType: "pyramid"})
		var unknown *tarot.UnknownSpreadError
		require.ErrorAs(t, err, &unknown)
	})

	t.Run("custom spread uses caller positions", func(t *testing.T) {
		res, err := svc.Create(context.Background(), &dto.CreateReadingRequest{
			SpreadType: "custom",
			Positions:  []string{"Mind", "Body", "Spirit"},
		})
		require.NoError(t, err)
		require.Len(t, res.Cards, 3)
		assert.Equal(t, "Spirit", res.Cards[2].Position)
	})
}

func TestReadingServiceHistory(t *testing.T) {
	svc, _, repo := newTestService(t)

	res, err := svc.Create(context.Background(), &dto.CreateReadingRequest{SpreadType: "single"})
	require.NoError(t, err)

	// history persistence is async in production; write directly here
	repo.byId[res.Id] = &entity.Reading{
		Id:     res.Id,
		Spread: tarot.Spread{Type: tarot.SpreadSingle, Positions: []tarot.SpreadPosition{{Index: 0, Name: "Present"}}},
		State:  reading.StateComplete,
	}

	shown, err := svc.Show(context.Background(), res.Id)
	require.NoError(t, err)
	assert.Equal(t, res.Id, shown.Id)

	recent, err := svc.History(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, recent, 1)

	t.Run("missing reading is a 404", func(t *testing.T) {
		_, err := svc.Show(context.Background(), uuid.New())
		assert.Error(t, err)
	})
}

func TestReadingServiceSpreads(t *testing.T) {
	svc, _, _ := newTestService(t)

	spreads := svc.Spreads()
	require.Len(t, spreads, 4)

	byType := make(map[string][]string, len(spreads))
	for _, s := range spreads {
		byType[s.Type] = s.Positions
	}
	assert.Len(t, byType["celtic_cross"], 10)
	assert.Len(t, byType["horseshoe"], 7)
	assert.Equal(t, []string{"Past", "Present", "Future"}, byType["three_card"])
}
