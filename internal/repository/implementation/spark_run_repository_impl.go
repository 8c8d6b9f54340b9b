package implementation

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"spark-journal-be/internal/entity"
	"spark-journal-be/internal/mapper"
	"spark-journal-be/internal/model"
	"spark-journal-be/internal/repository/contract"
	"spark-journal-be/internal/repository/specification"
)

type SparkRunRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SparkMapper
}

func NewSparkRunRepository(db *gorm.DB) contract.SparkRunRepository {
	return &SparkRunRepositoryImpl{
		db:     db,
		mapper: mapper.NewSparkMapper(),
	}
}

func (r *SparkRunRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SparkRunRepositoryImpl) Create(ctx context.Context, run *entity.SparkRun) error {
	m := r.mapper.RunToModel(run)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*run = *r.mapper.RunToEntity(m)
	return nil
}

func (r *SparkRunRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SparkRun, error) {
	var m model.SparkRun
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.RunToEntity(&m), nil
}

func (r *SparkRunRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SparkRun, error) {
	var models []*model.SparkRun
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.RunsToEntities(models), nil
}

func (r *SparkRunRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.SparkRun{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
