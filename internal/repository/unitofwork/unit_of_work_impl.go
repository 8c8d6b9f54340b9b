package unitofwork

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"spark-journal-be/internal/repository/contract"
	"spark-journal-be/internal/repository/implementation"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB // active transaction, nil outside Begin/Commit
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Repository accessors

func (u *UnitOfWorkImpl) UserRepository() contract.UserRepository {
	return implementation.NewUserRepository(u.getDB())
}

func (u *UnitOfWorkImpl) JournalRepository() contract.JournalRepository {
	return implementation.NewJournalRepository(u.getDB())
}

func (u *UnitOfWorkImpl) MemoryRepository() contract.MemoryRepository {
	return implementation.NewMemoryRepository(u.getDB())
}

func (u *UnitOfWorkImpl) MemoryEmbeddingRepository() contract.MemoryEmbeddingRepository {
	return implementation.NewMemoryEmbeddingRepository(u.getDB())
}

func (u *UnitOfWorkImpl) SparkNudgeRepository() contract.SparkNudgeRepository {
	return implementation.NewSparkNudgeRepository(u.getDB())
}

func (u *UnitOfWorkImpl) SparkFeedbackRepository() contract.SparkFeedbackRepository {
	return implementation.NewSparkFeedbackRepository(u.getDB())
}

func (u *UnitOfWorkImpl) SparkRunRepository() contract.SparkRunRepository {
	return implementation.NewSparkRunRepository(u.getDB())
}

func (u *UnitOfWorkImpl) TuningRepository() contract.TuningRepository {
	return implementation.NewTuningRepository(u.getDB())
}
