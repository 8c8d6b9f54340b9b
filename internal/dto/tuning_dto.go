package dto

import "spark-journal-be/pkg/spark"

type UpdateTuningRequest struct {
	DebounceMs         *int `json:"debounce_ms" validate:"omitempty,min=0,max=60000"`
	MinParagraphLength *int `json:"min_paragraph_length" validate:"omitempty,min=0,max=1000"`
	MinParagraphWords  *int `json:"min_paragraph_words" validate:"omitempty,min=0,max=200"`
	MinQueryGapMs      *int `json:"min_query_gap_ms" validate:"omitempty,min=0,max=300000"`
	CooldownMs         *int `json:"cooldown_ms" validate:"omitempty,min=0,max=600000"`
	MaxAnnotationsPer  *int `json:"max_annotations_per_entry" validate:"omitempty,min=0,max=100"`
	MinParagraphGap    *int `json:"min_paragraph_gap" validate:"omitempty,min=0,max=10"`

	MinTopActivation  *float64 `json:"min_top_activation" validate:"omitempty,min=0,max=1"`
	MinTopGap         *float64 `json:"min_top_gap" validate:"omitempty,min=0,max=1"`
	StrongTopOverride *float64 `json:"strong_top_override" validate:"omitempty,min=0,max=1"`

	MaxMemoriesContext     *int `json:"max_memories_context" validate:"omitempty,min=1,max=20"`
	MaxImplicationsContext *int `json:"max_implications_context" validate:"omitempty,min=0,max=10"`

	MinModelConfidence    *float64 `json:"min_model_confidence" validate:"omitempty,min=0,max=1"`
	MinOverallUtility     *float64 `json:"min_overall_utility" validate:"omitempty,min=0,max=5"`
	MinSpecificityScore   *float64 `json:"min_specificity_score" validate:"omitempty,min=0,max=5"`
	MinActionabilityScore *float64 `json:"min_actionability_score" validate:"omitempty,min=0,max=5"`

	PersonalizationBase *float64 `json:"personalization_base" validate:"omitempty,min=0,max=5"`
	FeedbackUpStep      *float64 `json:"feedback_up_step" validate:"omitempty,min=0,max=1"`
	FeedbackDownStep    *float64 `json:"feedback_down_step" validate:"omitempty,min=0,max=1"`

	PromptOverride *string `json:"prompt_override"`
	PromptAddendum *string `json:"prompt_addendum"`
}

type TuningResponse struct {
	Settings  spark.TuningSettings `json:"settings"`
	IsDefault bool                 `json:"is_default"`
}
