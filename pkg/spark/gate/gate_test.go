package gate

import (
	"testing"
	"time"

	"spark-journal-be/pkg/spark"
)

func passingCandidate() spark.JudgedCandidate {
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	return spark.JudgedCandidate{
		CandidateDraft: spark.CandidateDraft{
			Type:                  spark.NudgeTension,
			Hook:                  "You swore off covering for Sam",
			EvidenceMemoryDate:    &date,
			EvidenceMemorySnippet: "I said I was done covering for him",
			ModelConfidence:       0.8,
		},
		OverallUtility:     4.0,
		SpecificityScore:   3.0,
		ActionabilityScore: 3.0,
	}
}

func TestEvaluateRejectionReasons(t *testing.T) {
	tuning := spark.DefaultTuning()

	tests := []struct {
		name       string
		mutate     func(*spark.JudgedCandidate)
		wantReason Reason
	}{
		{
			name:       "missing evidence date",
			mutate:     func(c *spark.JudgedCandidate) { c.EvidenceMemoryDate = nil },
			wantReason: ReasonMissingEvidenceAnchor,
		},
		{
			name:       "missing evidence snippet",
			mutate:     func(c *spark.JudgedCandidate) { c.EvidenceMemorySnippet = "" },
			wantReason: ReasonMissingEvidenceAnchor,
		},
		{
			name:       "low model confidence",
			mutate:     func(c *spark.JudgedCandidate) { c.ModelConfidence = 0.1 },
			wantReason: ReasonModelConfidence,
		},
		{
			name:       "low overall utility",
			mutate:     func(c *spark.JudgedCandidate) { c.OverallUtility = 1.0 },
			wantReason: ReasonOverallUtility,
		},
		{
			name:       "low specificity",
			mutate:     func(c *spark.JudgedCandidate) { c.SpecificityScore = 0.5 },
			wantReason: ReasonSpecificity,
		},
		{
			name:       "low actionability",
			mutate:     func(c *spark.JudgedCandidate) { c.ActionabilityScore = 0.5 },
			wantReason: ReasonActionability,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := passingCandidate()
			tt.mutate(&c)

			decision := Evaluate([]spark.JudgedCandidate{c}, tuning)

			if len(decision.Passed) != 0 {
				t.Fatalf("candidate passed, want rejection %s", tt.wantReason)
			}
			if decision.Rejections[tt.wantReason] != 1 {
				t.Errorf("rejections = %v, want one %s", decision.Rejections, tt.wantReason)
			}
		})
	}
}

func TestEvaluateMissingAnchorBeatsAnyTuning(t *testing.T) {
	// Zeroed thresholds must not let an anchorless candidate through
	tuning := spark.TuningSettings{}

	c := passingCandidate()
	c.EvidenceMemoryDate = nil

	decision := Evaluate([]spark.JudgedCandidate{c}, tuning)
	if len(decision.Passed) != 0 {
		t.Fatal("anchorless candidate surfaced under zeroed tuning")
	}
	if decision.Rejections[ReasonMissingEvidenceAnchor] != 1 {
		t.Errorf("rejections = %v", decision.Rejections)
	}
}

func TestEvaluatePassAndTally(t *testing.T) {
	tuning := spark.DefaultTuning()

	good := passingCandidate()
	badConfidence := passingCandidate()
	badConfidence.ModelConfidence = 0.05
	badUtility := passingCandidate()
	badUtility.OverallUtility = 0.5

	decision := Evaluate([]spark.JudgedCandidate{good, badConfidence, badUtility}, tuning)

	if len(decision.Passed) != 1 {
		t.Fatalf("passed = %d, want 1", len(decision.Passed))
	}
	if decision.Rejections[ReasonModelConfidence] != 1 || decision.Rejections[ReasonOverallUtility] != 1 {
		t.Errorf("rejections = %v", decision.Rejections)
	}
}
