package entity

import (
	"time"

	"github.com/google/uuid"

	"spark-journal-be/pkg/spark"
)

type FeedbackValue string

const (
	FeedbackUp   FeedbackValue = "up"
	FeedbackDown FeedbackValue = "down"
)

// SparkNudge is one surfaced margin nudge. Only accepted nudges are
// persisted; rejected candidates live and die inside a single run.
type SparkNudge struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	EntryId        uuid.UUID
	RunId          uuid.UUID
	ParagraphIndex int
	ContentHash    string

	Type         spark.NudgeType
	Hook         string
	WhyNow       string
	ActionPrompt string

	EvidenceMemoryId      *uuid.UUID
	EvidenceMemoryDate    *time.Time
	EvidenceMemorySnippet string

	ModelConfidence    float64
	RetrievalStrength  float64
	TensionScore       float64
	ActionabilityScore float64
	NoveltyScore       float64
	SpecificityScore   float64
	OverallUtility     float64
	RankScore          float64

	CreatedAt time.Time
}

// SparkFeedback is the user's thumb on one nudge. One row per (nudge, user);
// a second submission overwrites the first.
type SparkFeedback struct {
	Id        uuid.UUID
	NudgeId   uuid.UUID
	UserId    uuid.UUID
	NudgeType spark.NudgeType
	Value     FeedbackValue
	Reason    string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// SparkRun is the persisted trace of one pipeline run, accepted or not.
type SparkRun struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	EntryId        uuid.UUID
	ParagraphIndex int
	ContentHash    string

	FailureMode     spark.FailureMode
	AcceptedCount   int
	TotalCandidates int
	TopScore        float64
	SecondScore     float64

	StageTimings map[string]int64
	Rejections   map[string]int

	CreatedAt time.Time
}
