package contract

import (
	"context"

	"ai-tarot-be/internal/entity"

	"github.com/google/uuid"
)

type ReadingRepository interface {
	Create(ctx context.Context, reading *entity.Reading) error
	FindById(ctx context.Context, id uuid.UUID) (*entity.Reading, error)
	FindRecent(ctx context.Context, limit int) ([]*entity.Reading, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
