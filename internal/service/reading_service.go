package service

import (
	"context"
	"math/rand"

	"ai-tarot-be/internal/dto"
	"ai-tarot-be/internal/entity"
	"ai-tarot-be/internal/pkg/logger"
	"ai-tarot-be/internal/repository/contract"
	"ai-tarot-be/pkg/rag"
	"ai-tarot-be/pkg/reading"
	"ai-tarot-be/pkg/tarot"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IReadingService interface {
	Create(ctx context.Context, req *dto.CreateReadingRequest) (*dto.ReadingResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.ReadingResponse, error)
	History(ctx context.Context, limit int) ([]*dto.ReadingResponse, error)
	Spreads() []*dto.SpreadResponse
}

// systemRNG draws from the process-wide math/rand source, which is safe
// for concurrent use.
type systemRNG struct{}

func (systemRNG) Intn(n int) int { return rand.Intn(n) }

type readingService struct {
	orchestrator *reading.Orchestrator
	readingRepo  contract.ReadingRepository // nil when running without a database
	publisher    IPublisherService
	log          logger.ILogger
	rng          tarot.RNG
}

func NewReadingService(
	orchestrator *reading.Orchestrator,
	readingRepo contract.ReadingRepository,
	publisher IPublisherService,
	log logger.ILogger,
) IReadingService {
	return &readingService{
		orchestrator: orchestrator,
		readingRepo:  readingRepo,
		publisher:    publisher,
		log:          log,
		rng:          systemRNG{},
	}
}

func (s *readingService) Create(ctx context.Context, req *dto.CreateReadingRequest) (*dto.ReadingResponse, error) {
	question := reading.QuestionContext{Focus: req.Focus, Question: req.Question, Context: req.Context}

	var r *reading.Reading
	var err error
	if tarot.SpreadType(req.SpreadType) == tarot.SpreadCustom {
		r, err = s.orchestrator.DraftCustom(req.Positions, question, s.rng)
	} else {
		r, err = s.orchestrator.Draft(tarot.SpreadType(req.SpreadType), question, s.rng)
	}
	if err != nil {
		return nil, err
	}

	if err := s.orchestrator.Interpret(ctx, r); err != nil {
		return nil, err
	}

	s.log.Info("reading", "Reading settled", map[string]interface{}{
		"reading_id":        r.ID.String(),
		"spread_type":       string(r.Spread.Type),
		"state":             string(r.State),
		"partial_knowledge": r.PartialKnowledge,
	})

	if s.publisher != nil {
		if err := s.publisher.PublishArchiveReading(r); err != nil {
			s.log.Warn("reading", "Failed to publish archive event", map[string]interface{}{
				"reading_id": r.ID.String(),
				"error":      err.Error(),
			})
		}
	}

	return toReadingResponse(r), nil
}

func (s *readingService) Show(ctx context.Context, id uuid.UUID) (*dto.ReadingResponse, error) {
	if s.readingRepo == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Reading history is not enabled")
	}
	record, err := s.readingRepo.FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Reading not found")
	}
	return entityToResponse(record), nil
}

func (s *readingService) History(ctx context.Context, limit int) ([]*dto.ReadingResponse, error) {
	if s.readingRepo == nil {
		return []*dto.ReadingResponse{}, nil
	}
	records, err := s.readingRepo.FindRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	responses := make([]*dto.ReadingResponse, len(records))
	for i, record := range records {
		responses[i] = entityToResponse(record)
	}
	return responses, nil
}

func (s *readingService) Spreads() []*dto.SpreadResponse {
	types := tarot.SpreadTypes()
	responses := make([]*dto.SpreadResponse, 0, len(types))
	for _, t := range types {
		spread, err := tarot.NewSpread(t)
		if err != nil {
			continue
		}
		names := make([]string, len(spread.Positions))
		for i, p := range spread.Positions {
			names[i] = p.Name
		}
		responses = append(responses, &dto.SpreadResponse{Type: string(t), Positions: names})
	}
	return responses
}

func toReadingResponse(r *reading.Reading) *dto.ReadingResponse {
	res := &dto.ReadingResponse{
		Id:               r.ID,
		SpreadType:       string(r.Spread.Type),
		Cards:            toCardResponses(r.Spread, r.Cards),
		Focus:            r.Question.Focus,
		Question:         r.Question.Question,
		State:            string(r.State),
		PartialKnowledge: r.PartialKnowledge,
		Coalesced:        r.Coalesced,
		FailureNote:      r.FailureNote,
		Model:            r.Model,
		Provider:         r.Provider,
		CreatedAt:        r.CreatedAt,
	}
	fillInterpretation(res, r.Interpretation)
	return res
}

func entityToResponse(e *entity.Reading) *dto.ReadingResponse {
	res := &dto.ReadingResponse{
		Id:               e.Id,
		SpreadType:       string(e.Spread.Type),
		Cards:            toCardResponses(e.Spread, e.Cards),
		Focus:            e.Focus,
		Question:         e.Question,
		State:            string(e.State),
		PartialKnowledge: e.PartialKnowledge,
		FailureNote:      e.FailureNote,
		Model:            e.Model,
		Provider:         e.Provider,
		CreatedAt:        e.CreatedAt,
	}
	fillInterpretation(res, e.Interpretation)
	return res
}

func fillInterpretation(res *dto.ReadingResponse, interp *rag.Interpretation) {
	if interp == nil {
		return
	}
	res.Interpretation = interp.Interpretation
	res.Summary = interp.Summary
	for _, insight := range interp.CardInsights {
		res.CardInsights = append(res.CardInsights, dto.CardInsightResponse{
			Card:    insight.Card,
			Insight: insight.Insight,
		})
	}
}

func toCardResponses(spread tarot.Spread, cards []tarot.DrawnCard) []dto.DrawnCardResponse {
	responses := make([]dto.DrawnCardResponse, len(cards))
	for i, c := range cards {
		position := ""
		if i < len(spread.Positions) {
			position = spread.Positions[i].Name
		}
		responses[i] = dto.DrawnCardResponse{
			Position: position,
			Name:     c.Card.Name,
			Suit:     string(c.Card.Suit),
			Reversed: c.Reversed,
			Meaning:  c.Meaning(),
			Keywords: c.Card.Keywords,
		}
	}
	return responses
}
