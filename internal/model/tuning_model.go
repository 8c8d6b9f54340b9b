package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type TuningOverride struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex"`
	Settings  datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (TuningOverride) TableName() string {
	return "tuning_overrides"
}
