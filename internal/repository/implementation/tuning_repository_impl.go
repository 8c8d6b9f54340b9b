package implementation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"spark-journal-be/internal/entity"
	"spark-journal-be/internal/mapper"
	"spark-journal-be/internal/model"
	"spark-journal-be/internal/repository/contract"
)

type TuningRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TuningMapper
}

func NewTuningRepository(db *gorm.DB) contract.TuningRepository {
	return &TuningRepositoryImpl{
		db:     db,
		mapper: mapper.NewTuningMapper(),
	}
}

func (r *TuningRepositoryImpl) Upsert(ctx context.Context, override *entity.TuningOverride) error {
	m := r.mapper.ToModel(override)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"settings", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*override = *r.mapper.ToEntity(m)
	return nil
}

func (r *TuningRepositoryImpl) FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.TuningOverride, error) {
	var m model.TuningOverride
	err := r.db.WithContext(ctx).Where("user_id = ?", userId).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *TuningRepositoryImpl) DeleteByUserId(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userId).Delete(&model.TuningOverride{}).Error
}
