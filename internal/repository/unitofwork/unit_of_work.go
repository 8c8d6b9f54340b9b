package unitofwork

import (
	"context"

	"spark-journal-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	JournalRepository() contract.JournalRepository
	MemoryRepository() contract.MemoryRepository
	MemoryEmbeddingRepository() contract.MemoryEmbeddingRepository

	SparkNudgeRepository() contract.SparkNudgeRepository
	SparkFeedbackRepository() contract.SparkFeedbackRepository
	SparkRunRepository() contract.SparkRunRepository
	TuningRepository() contract.TuningRepository
}
