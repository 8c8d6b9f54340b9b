package implementation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"spark-journal-be/internal/entity"
	"spark-journal-be/internal/mapper"
	"spark-journal-be/internal/model"
	"spark-journal-be/internal/repository/contract"
	"spark-journal-be/internal/repository/specification"
)

type SparkNudgeRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SparkMapper
}

func NewSparkNudgeRepository(db *gorm.DB) contract.SparkNudgeRepository {
	return &SparkNudgeRepositoryImpl{
		db:     db,
		mapper: mapper.NewSparkMapper(),
	}
}

func (r *SparkNudgeRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SparkNudgeRepositoryImpl) Create(ctx context.Context, nudge *entity.SparkNudge) error {
	m := r.mapper.NudgeToModel(nudge)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*nudge = *r.mapper.NudgeToEntity(m)
	return nil
}

func (r *SparkNudgeRepositoryImpl) CreateBulk(ctx context.Context, nudges []*entity.SparkNudge) error {
	if len(nudges) == 0 {
		return nil
	}
	models := make([]*model.SparkNudge, len(nudges))
	for i, n := range nudges {
		models[i] = r.mapper.NudgeToModel(n)
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*nudges[i] = *r.mapper.NudgeToEntity(m)
	}
	return nil
}

func (r *SparkNudgeRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SparkNudge, error) {
	var m model.SparkNudge
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.NudgeToEntity(&m), nil
}

func (r *SparkNudgeRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SparkNudge, error) {
	var models []*model.SparkNudge
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.NudgesToEntities(models), nil
}

func (r *SparkNudgeRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.SparkNudge{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SparkNudgeRepositoryImpl) FindRecentByUser(ctx context.Context, userId uuid.UUID, limit int) ([]*entity.SparkNudge, error) {
	if limit <= 0 {
		limit = 3
	}
	var models []*model.SparkNudge
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.NudgesToEntities(models), nil
}
