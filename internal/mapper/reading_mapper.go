package mapper

import (
	"encoding/json"
	"time"

	"ai-tarot-be/internal/entity"
	"ai-tarot-be/internal/model"
	"ai-tarot-be/pkg/rag"
	"ai-tarot-be/pkg/reading"
	"ai-tarot-be/pkg/tarot"

	"gorm.io/gorm"
)

type ReadingMapper struct{}

func NewReadingMapper() *ReadingMapper {
	return &ReadingMapper{}
}

func (m *ReadingMapper) ToModel(e *entity.Reading) (*model.Reading, error) {
	if e == nil {
		return nil, nil
	}

	spread, err := json.Marshal(e.Spread)
	if err != nil {
		return nil, err
	}
	cards, err := json.Marshal(e.Cards)
	if err != nil {
		return nil, err
	}
	var interpretation []byte
	if e.Interpretation != nil {
		if interpretation, err = json.Marshal(e.Interpretation); err != nil {
			return nil, err
		}
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	} else if e.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	return &model.Reading{
		Id:               e.Id,
		SpreadType:       string(e.Spread.Type),
		Spread:           spread,
		Cards:            cards,
		Focus:            e.Focus,
		Question:         e.Question,
		State:            string(e.State),
		Fingerprint:      e.Fingerprint,
		Interpretation:   interpretation,
		PartialKnowledge: e.PartialKnowledge,
		FailureNote:      e.FailureNote,
		Model:            e.Model,
		Provider:         e.Provider,
		CreatedAt:        e.CreatedAt,
		DeletedAt:        deletedAt,
	}, nil
}

func (m *ReadingMapper) ToEntity(r *model.Reading) (*entity.Reading, error) {
	if r == nil {
		return nil, nil
	}

	var spread tarot.Spread
	if err := json.Unmarshal(r.Spread, &spread); err != nil {
		return nil, err
	}
	var cards []tarot.DrawnCard
	if err := json.Unmarshal(r.Cards, &cards); err != nil {
		return nil, err
	}
	var interpretation *rag.Interpretation
	if len(r.Interpretation) > 0 {
		interpretation = &rag.Interpretation{}
		if err := json.Unmarshal(r.Interpretation, interpretation); err != nil {
			return nil, err
		}
	}

	var deletedAt *time.Time
	if r.DeletedAt.Valid {
		t := r.DeletedAt.Time
		deletedAt = &t
	}

	return &entity.Reading{
		Id:               r.Id,
		Spread:           spread,
		Cards:            cards,
		Focus:            r.Focus,
		Question:         r.Question,
		State:            reading.State(r.State),
		Fingerprint:      r.Fingerprint,
		Interpretation:   interpretation,
		PartialKnowledge: r.PartialKnowledge,
		FailureNote:      r.FailureNote,
		Model:            r.Model,
		Provider:         r.Provider,
		CreatedAt:        r.CreatedAt,
		DeletedAt:        deletedAt,
		IsDeleted:        r.DeletedAt.Valid,
	}, nil
}
