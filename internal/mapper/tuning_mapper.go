package mapper

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"spark-journal-be/internal/entity"
	"spark-journal-be/internal/model"
	"spark-journal-be/pkg/spark"
)

type TuningMapper struct{}

func NewTuningMapper() *TuningMapper {
	return &TuningMapper{}
}

func (m *TuningMapper) ToEntity(t *model.TuningOverride) *entity.TuningOverride {
	if t == nil {
		return nil
	}

	// Unknown or missing fields fall back to the defaults
	settings := spark.DefaultTuning()
	if len(t.Settings) > 0 {
		_ = json.Unmarshal(t.Settings, &settings)
	}

	var updatedAt *time.Time
	if !t.UpdatedAt.IsZero() {
		u := t.UpdatedAt
		updatedAt = &u
	}

	return &entity.TuningOverride{
		Id:        t.Id,
		UserId:    t.UserId,
		Settings:  settings,
		CreatedAt: t.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *TuningMapper) ToModel(t *entity.TuningOverride) *model.TuningOverride {
	if t == nil {
		return nil
	}

	settings, _ := json.Marshal(t.Settings)

	var updatedAt time.Time
	if t.UpdatedAt != nil {
		updatedAt = *t.UpdatedAt
	}

	return &model.TuningOverride{
		Id:        t.Id,
		UserId:    t.UserId,
		Settings:  datatypes.JSON(settings),
		CreatedAt: t.CreatedAt,
		UpdatedAt: updatedAt,
	}
}
