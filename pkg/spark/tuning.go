package spark

// TuningSettings is the live experimentation knob for one editing session.
// Client pacing drives the trigger controller; server gating drives the
// retrieval signal check, gate thresholds and ranking adjustments.
type TuningSettings struct {
	Version int `json:"version"`

	// Client pacing
	DebounceMs         int `json:"debounce_ms"`
	MinParagraphLength int `json:"min_paragraph_length"`
	MinParagraphWords  int `json:"min_paragraph_words"`
	MinQueryGapMs      int `json:"min_query_gap_ms"`
	CooldownMs         int `json:"cooldown_ms"`
	MaxAnnotationsPer  int `json:"max_annotations_per_entry"`
	MinParagraphGap    int `json:"min_paragraph_gap"`

	// Retrieval signal
	MinTopActivation  float64 `json:"min_top_activation"`
	MinTopGap         float64 `json:"min_top_gap"`
	StrongTopOverride float64 `json:"strong_top_override"`

	// Generation context
	MaxMemoriesContext     int `json:"max_memories_context"`
	MaxImplicationsContext int `json:"max_implications_context"`

	// Gate thresholds
	MinModelConfidence    float64 `json:"min_model_confidence"`
	MinOverallUtility     float64 `json:"min_overall_utility"`
	MinSpecificityScore   float64 `json:"min_specificity_score"`
	MinActionabilityScore float64 `json:"min_actionability_score"`

	// Personalization policy
	PersonalizationBase float64 `json:"personalization_base"`
	FeedbackUpStep      float64 `json:"feedback_up_step"`
	FeedbackDownStep    float64 `json:"feedback_down_step"`

	// Prompt experimentation
	PromptOverride string `json:"prompt_override"`
	PromptAddendum string `json:"prompt_addendum"`
}

// DefaultTuning returns the baseline settings used when a session has no
// stored override.
func DefaultTuning() TuningSettings {
	return TuningSettings{
		Version: 1,

		DebounceMs:         2500,
		MinParagraphLength: 80,
		MinParagraphWords:  12,
		MinQueryGapMs:      20000,
		CooldownMs:         60000,
		MaxAnnotationsPer:  6,
		MinParagraphGap:    1,

		MinTopActivation:  0.45,
		MinTopGap:         0.12,
		StrongTopOverride: 0.72,

		MaxMemoriesContext:     6,
		MaxImplicationsContext: 3,

		MinModelConfidence:    0.35,
		MinOverallUtility:     2.5,
		MinSpecificityScore:   2.0,
		MinActionabilityScore: 1.5,

		PersonalizationBase: 2.5,
		FeedbackUpStep:      0.25,
		FeedbackDownStep:    0.35,
	}
}
