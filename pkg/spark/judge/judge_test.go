package judge

import (
	"testing"

	"spark-journal-be/pkg/spark"
)

func TestParseScores(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantCount int
		wantMode  spark.FailureMode
	}{
		{
			name:     "empty response",
			raw:      "",
			wantMode: spark.JudgeEmpty,
		},
		{
			name:     "prose only",
			raw:      "All candidates look fine to me.",
			wantMode: spark.JudgeParseError,
		},
		{
			name:     "broken array",
			raw:      `[{"index": 0, "tension": }]`,
			wantMode: spark.JudgeParseError,
		},
		{
			name:     "empty array",
			raw:      "[]",
			wantMode: spark.JudgeEmpty,
		},
		{
			name:      "fenced array",
			raw:       "```json\n[{\"index\":0,\"tension\":3,\"overall_utility\":4}]\n```",
			wantCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores, mode, _ := parseScores(tt.raw)
			if mode != tt.wantMode {
				t.Fatalf("mode = %q, want %q", mode, tt.wantMode)
			}
			if len(scores) != tt.wantCount {
				t.Errorf("count = %d, want %d", len(scores), tt.wantCount)
			}
		})
	}
}

func TestAttachClampsAndMapsByIndex(t *testing.T) {
	drafts := []spark.CandidateDraft{
		{Hook: "first"},
		{Hook: "second"},
	}
	scores := []axisScores{
		{Index: 1, Tension: 9.5, Actionability: -2, Novelty: 3, Specificity: 4, OverallUtility: 5.5},
		{Index: 7, OverallUtility: 5}, // out of range, ignored
	}

	judged := attach(drafts, scores)

	if judged[0].OverallUtility != 0 {
		t.Errorf("unscored draft should keep zero utility, got %v", judged[0].OverallUtility)
	}
	second := judged[1]
	if second.TensionScore != 5 {
		t.Errorf("tension = %v, want clamped 5", second.TensionScore)
	}
	if second.ActionabilityScore != 0 {
		t.Errorf("actionability = %v, want clamped 0", second.ActionabilityScore)
	}
	if second.OverallUtility != 5 {
		t.Errorf("utility = %v, want clamped 5", second.OverallUtility)
	}
	if second.Hook != "second" {
		t.Errorf("draft fields lost in attach: %+v", second)
	}
}
