package entity

import (
	"time"

	"ai-tarot-be/pkg/rag"
	"ai-tarot-be/pkg/reading"
	"ai-tarot-be/pkg/tarot"

	"github.com/google/uuid"
)

// Reading is the persisted record of a settled reading.
type Reading struct {
	Id               uuid.UUID
	Spread           tarot.Spread
	Cards            []tarot.DrawnCard
	Focus            string
	Question         string
	State            reading.State
	Fingerprint      string
	Interpretation   *rag.Interpretation
	PartialKnowledge bool
	FailureNote      string
	Model            string
	Provider         string
	CreatedAt        time.Time
	DeletedAt        *time.Time
	IsDeleted        bool
}
