package contract

import (
	"context"

	"github.com/google/uuid"

	"spark-journal-be/internal/entity"
	"spark-journal-be/internal/repository/specification"
)

type MemoryRepository interface {
	Create(ctx context.Context, memory *entity.Memory) error
	CreateBulk(ctx context.Context, memories []*entity.Memory) error
	Update(ctx context.Context, memory *entity.Memory) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByEntryId(ctx context.Context, entryId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Memory, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Memory, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
