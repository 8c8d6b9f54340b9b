package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SparkNudge struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId         uuid.UUID `gorm:"type:uuid;not null;index:idx_spark_nudges_user_created,priority:1"`
	EntryId        uuid.UUID `gorm:"type:uuid;not null;index"`
	RunId          uuid.UUID `gorm:"type:uuid;not null;index"`
	ParagraphIndex int       `gorm:"not null"`
	ContentHash    string    `gorm:"type:varchar(32);not null;index"`

	Type         string `gorm:"type:varchar(50);not null"`
	Hook         string `gorm:"type:varchar(255);not null"`
	WhyNow       string `gorm:"type:varchar(255);not null"`
	ActionPrompt string `gorm:"type:varchar(255);not null"`

	EvidenceMemoryId      *uuid.UUID `gorm:"type:uuid;index"`
	EvidenceMemoryDate    *time.Time `gorm:"type:date"`
	EvidenceMemorySnippet string     `gorm:"type:varchar(500)"`

	ModelConfidence    float64 `gorm:"not null"`
	RetrievalStrength  float64 `gorm:"not null"`
	TensionScore       float64
	ActionabilityScore float64
	NoveltyScore       float64
	SpecificityScore   float64
	OverallUtility     float64
	RankScore          float64 `gorm:"not null"`

	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_spark_nudges_user_created,priority:2"`
}

func (SparkNudge) TableName() string {
	return "spark_nudges"
}

type SparkFeedback struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NudgeId   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_spark_feedback_nudge_user,priority:1"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_spark_feedback_nudge_user,priority:2;index"`
	NudgeType string    `gorm:"type:varchar(50);not null"`
	Value     string    `gorm:"type:varchar(10);not null"`
	Reason    string    `gorm:"type:varchar(50)"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (SparkFeedback) TableName() string {
	return "spark_feedback"
}

type SparkRun struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId         uuid.UUID `gorm:"type:uuid;not null;index:idx_spark_runs_user_created,priority:1"`
	EntryId        uuid.UUID `gorm:"type:uuid;not null;index"`
	ParagraphIndex int       `gorm:"not null"`
	ContentHash    string    `gorm:"type:varchar(32);not null;index"`

	FailureMode     string `gorm:"type:varchar(50);not null"`
	AcceptedCount   int    `gorm:"default:0"`
	TotalCandidates int    `gorm:"default:0"`
	TopScore        float64
	SecondScore     float64

	StageTimings datatypes.JSON `gorm:"type:jsonb"`
	Rejections   datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_spark_runs_user_created,priority:2"`
}

func (SparkRun) TableName() string {
	return "spark_runs"
}
