package normalize

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"spark-journal-be/pkg/spark"
	"spark-journal-be/pkg/spark/generate"
)

func validRaw() generate.RawCandidate {
	return generate.RawCandidate{
		Type:                  "tension",
		Hook:                  "You wrote the opposite about Sam last month",
		WhyNow:                "This plan depends on trusting him",
		ActionPrompt:          "Reread the March entry first",
		EvidenceMemoryId:      uuid.NewString(),
		EvidenceMemoryDate:    "2026-03-14",
		EvidenceMemorySnippet: "Sam cancelled again and I said I was done covering for him",
		Confidence:            0.8,
	}
}

func TestNormalizeRejections(t *testing.T) {
	tuning := spark.DefaultTuning()

	tests := []struct {
		name     string
		mutate   func(*generate.RawCandidate)
		wantMode spark.FailureMode
	}{
		{
			name:     "unknown type",
			mutate:   func(r *generate.RawCandidate) { r.Type = "observation" },
			wantMode: spark.FilteredType,
		},
		{
			name:     "empty hook after trim",
			mutate:   func(r *generate.RawCandidate) { r.Hook = "   " },
			wantMode: spark.FilteredText,
		},
		{
			name:     "empty action prompt",
			mutate:   func(r *generate.RawCandidate) { r.ActionPrompt = "" },
			wantMode: spark.FilteredText,
		},
		{
			name:     "confidence below floor",
			mutate:   func(r *generate.RawCandidate) { r.Confidence = 0.1 },
			wantMode: spark.FilteredConfidence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validRaw()
			tt.mutate(&raw)

			res := Normalize([]generate.RawCandidate{raw}, nil, spark.RetrievalSummary{}, tuning)

			if len(res.Drafts) != 0 {
				t.Fatalf("draft survived, want rejection")
			}
			if res.Rejects[tt.wantMode] != 1 {
				t.Errorf("rejects = %v, want one %s", res.Rejects, tt.wantMode)
			}
		})
	}
}

func TestNormalizeWordBudgets(t *testing.T) {
	raw := validRaw()
	raw.Hook = strings.Repeat("word ", 30)
	raw.WhyNow = strings.Repeat("word ", 30)
	raw.ActionPrompt = strings.Repeat("word ", 30)
	raw.EvidenceMemorySnippet = strings.Repeat("word ", 30)

	res := Normalize([]generate.RawCandidate{raw}, nil, spark.RetrievalSummary{}, spark.DefaultTuning())
	if len(res.Drafts) != 1 {
		t.Fatalf("drafts = %d, want 1", len(res.Drafts))
	}

	d := res.Drafts[0]
	checks := []struct {
		field string
		text  string
		max   int
	}{
		{"hook", d.Hook, spark.MaxHookWords},
		{"why_now", d.WhyNow, spark.MaxWhyNowWords},
		{"action_prompt", d.ActionPrompt, spark.MaxActionWords},
		{"snippet", d.EvidenceMemorySnippet, spark.MaxSnippetWords},
	}
	for _, c := range checks {
		if got := len(strings.Fields(c.text)); got > c.max {
			t.Errorf("%s has %d words, budget %d", c.field, got, c.max)
		}
		if !strings.HasSuffix(c.text, ".") {
			t.Errorf("%s not closed with a period after truncation: %q", c.field, c.text)
		}
	}
}

func TestNormalizeConfidenceClamp(t *testing.T) {
	raw := validRaw()
	raw.Confidence = 1.7

	res := Normalize([]generate.RawCandidate{raw}, nil, spark.RetrievalSummary{}, spark.DefaultTuning())
	if len(res.Drafts) != 1 {
		t.Fatalf("drafts = %d, want 1", len(res.Drafts))
	}
	if res.Drafts[0].ModelConfidence != 1.0 {
		t.Errorf("confidence = %v, want clamped 1.0", res.Drafts[0].ModelConfidence)
	}
}

func TestNormalizeRetrievalStrength(t *testing.T) {
	raw := validRaw()
	evidenceId := uuid.MustParse(raw.EvidenceMemoryId)
	evidence := []spark.EvidenceItem{
		{Id: evidenceId, ActivationScore: 0.66},
		{Id: uuid.New(), ActivationScore: 0.90},
	}
	summary := spark.RetrievalSummary{TopScore: 0.90}

	res := Normalize([]generate.RawCandidate{raw}, evidence, summary, spark.DefaultTuning())
	if res.Drafts[0].RetrievalStrengthNormalized != 0.66 {
		t.Errorf("strength = %v, want anchor activation 0.66", res.Drafts[0].RetrievalStrengthNormalized)
	}

	// Unresolvable anchor falls back to the round's top score
	raw.EvidenceMemoryId = uuid.NewString()
	res = Normalize([]generate.RawCandidate{raw}, evidence, summary, spark.DefaultTuning())
	if res.Drafts[0].RetrievalStrengthNormalized != 0.90 {
		t.Errorf("strength = %v, want top score fallback 0.90", res.Drafts[0].RetrievalStrengthNormalized)
	}
}

func TestDominantReject(t *testing.T) {
	rejects := map[spark.FailureMode]int{
		spark.FilteredType:       2,
		spark.FilteredConfidence: 1,
	}
	if got := DominantReject(rejects); got != spark.FilteredType {
		t.Errorf("DominantReject = %s, want %s", got, spark.FilteredType)
	}
}
