package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateReadingRequest struct {
	SpreadType string            `json:"spread_type" validate:"required"`
	Positions  []string          `json:"positions"` // custom spreads only
	Focus      string            `json:"focus" validate:"max=255"`
	Question   string            `json:"question" validate:"max=2000"`
	Context    map[string]string `json:"context" validate:"max=20"`
}

type DrawnCardResponse struct {
	Position string   `json:"position"`
	Name     string   `json:"name"`
	Suit     string   `json:"suit"`
	Reversed bool     `json:"reversed"`
	Meaning  string   `json:"meaning"`
	Keywords []string `json:"keywords"`
}

type CardInsightResponse struct {
	Card    string `json:"card"`
	Insight string `json:"insight"`
}

type ReadingResponse struct {
	Id               uuid.UUID             `json:"id"`
	SpreadType       string                `json:"spread_type"`
	Cards            []DrawnCardResponse   `json:"cards"`
	Focus            string                `json:"focus,omitempty"`
	Question         string                `json:"question,omitempty"`
	State            string                `json:"state"`
	Interpretation   string                `json:"interpretation,omitempty"`
	Summary          string                `json:"summary,omitempty"`
	CardInsights     []CardInsightResponse `json:"card_insights,omitempty"`
	PartialKnowledge bool                  `json:"partial_knowledge"`
	Coalesced        bool                  `json:"coalesced,omitempty"`
	FailureNote      string                `json:"failure_note,omitempty"`
	Model            string                `json:"model,omitempty"`
	Provider         string                `json:"provider,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
}

type SpreadResponse struct {
	Type      string   `json:"type"`
	Positions []string `json:"positions"`
}
