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

type JournalRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.JournalMapper
}

func NewJournalRepository(db *gorm.DB) contract.JournalRepository {
	return &JournalRepositoryImpl{
		db:     db,
		mapper: mapper.NewJournalMapper(),
	}
}

func (r *JournalRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *JournalRepositoryImpl) Create(ctx context.Context, entry *entity.JournalEntry) error {
	m := r.mapper.ToModel(entry)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*entry = *r.mapper.ToEntity(m)
	return nil
}

func (r *JournalRepositoryImpl) Update(ctx context.Context, entry *entity.JournalEntry) error {
	m := r.mapper.ToModel(entry)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*entry = *r.mapper.ToEntity(m)
	return nil
}

func (r *JournalRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.JournalEntry{}, id).Error
}

func (r *JournalRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.JournalEntry, error) {
	var m model.JournalEntry
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *JournalRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.JournalEntry, error) {
	var models []*model.JournalEntry
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *JournalRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.JournalEntry{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
