package service

import (
	"context"

	"ai-tarot-be/internal/dto"
	"ai-tarot-be/pkg/knowledge"
	"ai-tarot-be/pkg/tarot"
)

type ICardService interface {
	List(ctx context.Context) *dto.DeckResponse
	Show(ctx context.Context, name string) (*dto.CardResponse, error)
}

type cardService struct {
	deck    tarot.Deck
	version string
	index   *knowledge.CorrespondenceIndex
}

func NewCardService(deck tarot.Deck, version string) ICardService {
	return &cardService{
		deck:    deck,
		version: version,
		index:   knowledge.NewCorrespondenceIndex(deck),
	}
}

func (s *cardService) List(_ context.Context) *dto.DeckResponse {
	cards := s.deck.Cards()
	responses := make([]dto.CardResponse, len(cards))
	for i, c := range cards {
		responses[i] = toCardResponse(c)
	}
	return &dto.DeckResponse{Version: s.version, Cards: responses}
}

func (s *cardService) Show(_ context.Context, name string) (*dto.CardResponse, error) {
	// correspondence lookup is case-insensitive; reuse it to resolve the name
	record, err := s.index.Lookup(name)
	if err != nil {
		return nil, err
	}
	card, ok := s.deck.CardByName(record.CardName)
	if !ok {
		return nil, &knowledge.UnknownCardError{Name: name}
	}
	res := toCardResponse(card)
	return &res, nil
}

func toCardResponse(c tarot.Card) dto.CardResponse {
	return dto.CardResponse{
		Name:            c.Name,
		Number:          c.Number,
		Suit:            string(c.Suit),
		Element:         c.Element,
		Keywords:        c.Keywords,
		UprightMeaning:  c.UprightMeaning,
		ReversedMeaning: c.ReversedMeaning,
		Astrological:    c.Astrological,
		Kabbalistic:     c.Kabbalistic,
		Decan:           c.Decan,
		Symbolism:       c.Symbolism,
	}
}
