package contract

import (
	"context"

	"github.com/google/uuid"

	"spark-journal-be/internal/entity"
	"spark-journal-be/internal/repository/specification"
)

type SparkNudgeRepository interface {
	Create(ctx context.Context, nudge *entity.SparkNudge) error
	CreateBulk(ctx context.Context, nudges []*entity.SparkNudge) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SparkNudge, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SparkNudge, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// FindRecentByUser returns the newest surfaced nudges, newest first.
	// Feeds the repetition and type-mix adjustments.
	FindRecentByUser(ctx context.Context, userId uuid.UUID, limit int) ([]*entity.SparkNudge, error)
}

type SparkFeedbackRepository interface {
	// Upsert writes the user's thumb for a nudge. One row per (nudge, user);
	// re-submission overwrites value and reason.
	Upsert(ctx context.Context, feedback *entity.SparkFeedback) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SparkFeedback, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SparkFeedback, error)
	FindAllByUser(ctx context.Context, userId uuid.UUID) ([]*entity.SparkFeedback, error)
}

type SparkRunRepository interface {
	Create(ctx context.Context, run *entity.SparkRun) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SparkRun, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SparkRun, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
