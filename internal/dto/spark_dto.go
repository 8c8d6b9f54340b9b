package dto

import (
	"time"

	"github.com/google/uuid"
)

type ParagraphEditRequest struct {
	EntryId        uuid.UUID `json:"entry_id" validate:"required"`
	ParagraphIndex int       `json:"paragraph_index" validate:"min=0"`
	ParagraphText  string    `json:"paragraph_text" validate:"required"`
}

type EvidenceAnchorDTO struct {
	MemoryId     *uuid.UUID `json:"memory_id,omitempty"`
	SnippetQuote string     `json:"snippet_quote"`
	EntryDate    string     `json:"entry_date,omitempty"`
}

type SparkNudgeResponse struct {
	Id             uuid.UUID `json:"id"`
	NudgeType      string    `json:"nudge_type"`
	Hook           string    `json:"hook"`
	WhyNow         string    `json:"why_now"`
	ActionPrompt   string    `json:"action_prompt"`
	ParagraphIndex int       `json:"paragraph_index"`

	Evidence EvidenceAnchorDTO `json:"evidence"`

	ModelConfidence    float64 `json:"model_confidence"`
	RetrievalStrength  float64 `json:"retrieval_strength"`
	TensionScore       float64 `json:"tension_score"`
	ActionabilityScore float64 `json:"actionability_score"`
	NoveltyScore       float64 `json:"novelty_score"`
	SpecificityScore   float64 `json:"specificity_score"`
	OverallUtility     float64 `json:"overall_utility"`
	RankScore          float64 `json:"rank_score"`

	CreatedAt time.Time `json:"created_at"`
}

type SparkFeedbackRequest struct {
	Value  string `json:"value" validate:"required,oneof=up down"`
	Reason string `json:"reason" validate:"required_if=Value down,omitempty,oneof=not_relevant wrong_evidence too_pushy bad_timing repetitive"`
}

type SparkFeedbackResponse struct {
	NudgeId uuid.UUID `json:"nudge_id"`
	Value   string    `json:"value"`
	Reason  string    `json:"reason,omitempty"`
}

type RecentSparksResponse struct {
	EntryId uuid.UUID            `json:"entry_id"`
	Nudges  []SparkNudgeResponse `json:"nudges"`
}

type SparkRunTraceResponse struct {
	RunId           uuid.UUID        `json:"run_id"`
	EntryId         uuid.UUID        `json:"entry_id"`
	ParagraphIndex  int              `json:"paragraph_index"`
	FailureMode     string           `json:"failure_mode"`
	AcceptedCount   int              `json:"accepted_count"`
	TotalCandidates int              `json:"total_candidates"`
	TopScore        float64          `json:"top_score"`
	SecondScore     float64          `json:"second_score"`
	StageTimings    map[string]int64 `json:"stage_timings"`
	Rejections      map[string]int   `json:"rejections"`
	CreatedAt       time.Time        `json:"created_at"`
}
