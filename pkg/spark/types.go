package spark

import (
	"time"

	"github.com/google/uuid"
)

// NudgeType classifies the observation a spark makes in the margin.
type NudgeType string

const (
	NudgeTension      NudgeType = "tension"
	NudgeCallback     NudgeType = "callback"
	NudgeEyebrowRaise NudgeType = "eyebrow_raise"
)

// KnownNudgeType reports whether t is one of the three surfaced types.
func KnownNudgeType(t NudgeType) bool {
	switch t {
	case NudgeTension, NudgeCallback, NudgeEyebrowRaise:
		return true
	}
	return false
}

// FailureMode is the terminal outcome of one pipeline run. Every run ends in
// exactly one of these; none of them is fatal to the process.
type FailureMode string

const (
	Accepted           FailureMode = "accepted"
	NoSignal           FailureMode = "no_signal"
	ModelEmpty         FailureMode = "model_empty"
	NoJSON             FailureMode = "no_json"
	JSONParseError     FailureMode = "json_parse_error"
	FilteredText       FailureMode = "filtered_text"
	FilteredType       FailureMode = "filtered_type"
	FilteredConfidence FailureMode = "filtered_confidence"
	JudgeParseError    FailureMode = "judge_parse_error"
	JudgeEmpty         FailureMode = "judge_empty"
	GateRejected       FailureMode = "gate_rejected"
)

// EvidenceItem is one retrieved memory or implication. Supplied by the
// retrieval collaborator and read-only to the pipeline.
type EvidenceItem struct {
	Id              uuid.UUID
	Snippet         string
	Date            time.Time
	ActivationScore float64 // [0,1], comparable across calls
	HopDistance     int
	IsImplication   bool
}

// RetrievalSummary aggregates one retrieval round so the pipeline can decide
// whether generation is worth the cost.
type RetrievalSummary struct {
	TotalCandidates  int
	StrongCandidates int
	TopScore         float64
	SecondScore      float64
	HasClearSignal   bool
	ImplicationCount int
}

// CandidateDraft is a raw generation result after parsing, before judging.
// Lives only for the duration of one run.
type CandidateDraft struct {
	Type                        NudgeType
	Hook                        string
	WhyNow                      string
	ActionPrompt                string
	EvidenceMemoryId            *uuid.UUID
	EvidenceMemoryDate          *time.Time
	EvidenceMemorySnippet       string
	ModelConfidence             float64 // [0,1]
	RetrievalStrengthNormalized float64 // [0,1]
}

// JudgedCandidate carries the judge's per-axis scores plus rank bookkeeping.
type JudgedCandidate struct {
	CandidateDraft
	TensionScore          float64 // [0,5]
	ActionabilityScore    float64 // [0,5]
	NoveltyScore          float64 // [0,5]
	SpecificityScore      float64 // [0,5]
	OverallUtility        float64 // [0,5]
	PersonalizationWeight float64
	RankScore             float64
}

// HistoricalNudge is the trimmed view of a past nudge used for repetition and
// type-mix math. Never displayed.
type HistoricalNudge struct {
	Type             NudgeType
	EvidenceMemoryId *uuid.UUID
	Hook             string
}

// Word budgets applied during normalization. Drafts are truncated to fit,
// not rejected.
const (
	MaxHookWords    = 14
	MaxWhyNowWords  = 12
	MaxActionWords  = 9
	MaxSnippetWords = 18
)

// MaxAcceptedPerRun caps how many nudges one run may surface.
const MaxAcceptedPerRun = 3
