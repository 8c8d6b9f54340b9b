package contract

import (
	"context"

	"github.com/google/uuid"

	"spark-journal-be/internal/entity"
)

type TuningRepository interface {
	// Upsert stores the per-user override, replacing any existing one.
	Upsert(ctx context.Context, override *entity.TuningOverride) error
	FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.TuningOverride, error)
	DeleteByUserId(ctx context.Context, userId uuid.UUID) error
}
