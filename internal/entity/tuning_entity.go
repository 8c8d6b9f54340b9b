package entity

import (
	"time"

	"github.com/google/uuid"

	"spark-journal-be/pkg/spark"
)

// TuningOverride stores a per-user override of the default tuning settings.
// Absence means DefaultTuning applies.
type TuningOverride struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Settings  spark.TuningSettings
	CreatedAt time.Time
	UpdatedAt *time.Time
}
