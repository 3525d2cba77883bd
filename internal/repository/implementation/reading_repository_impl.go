package implementation

import (
	"context"
	"errors"

	"ai-tarot-be/internal/entity"
	"ai-tarot-be/internal/mapper"
	"ai-tarot-be/internal/model"
	"ai-tarot-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReadingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ReadingMapper
}

func NewReadingRepository(db *gorm.DB) contract.ReadingRepository {
	return &ReadingRepositoryImpl{
		db:     db,
		mapper: mapper.NewReadingMapper(),
	}
}

func (r *ReadingRepositoryImpl) Create(ctx context.Context, reading *entity.Reading) error {
	m, err := r.mapper.ToModel(reading)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	saved, err := r.mapper.ToEntity(m)
	if err != nil {
		return err
	}
	*reading = *saved
	return nil
}

func (r *ReadingRepositoryImpl) FindById(ctx context.Context, id uuid.UUID) (*entity.Reading, error) {
	var m model.Reading
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m)
}

func (r *ReadingRepositoryImpl) FindRecent(ctx context.Context, limit int) ([]*entity.Reading, error) {
	if limit <= 0 {
		limit = 20
	}
	var models []*model.Reading
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	entities := make([]*entity.Reading, len(models))
	for i, m := range models {
		if entities[i], err = r.mapper.ToEntity(m); err != nil {
			return nil, err
		}
	}
	return entities, nil
}

func (r *ReadingRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Reading{}, "id = ?", id).Error
}
