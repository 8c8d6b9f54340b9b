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
	"spark-journal-be/internal/repository/specification"
)

type SparkFeedbackRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SparkMapper
}

func NewSparkFeedbackRepository(db *gorm.DB) contract.SparkFeedbackRepository {
	return &SparkFeedbackRepositoryImpl{
		db:     db,
		mapper: mapper.NewSparkMapper(),
	}
}

func (r *SparkFeedbackRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// Upsert relies on the unique (nudge_id, user_id) index: a second thumb on
// the same nudge overwrites value and reason instead of adding a row.
func (r *SparkFeedbackRepositoryImpl) Upsert(ctx context.Context, feedback *entity.SparkFeedback) error {
	m := r.mapper.FeedbackToModel(feedback)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "nudge_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "reason", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*feedback = *r.mapper.FeedbackToEntity(m)
	return nil
}

func (r *SparkFeedbackRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SparkFeedback, error) {
	var m model.SparkFeedback
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.FeedbackToEntity(&m), nil
}

func (r *SparkFeedbackRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SparkFeedback, error) {
	var models []*model.SparkFeedback
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.FeedbacksToEntities(models), nil
}

func (r *SparkFeedbackRepositoryImpl) FindAllByUser(ctx context.Context, userId uuid.UUID) ([]*entity.SparkFeedback, error) {
	var models []*model.SparkFeedback
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.FeedbacksToEntities(models), nil
}
