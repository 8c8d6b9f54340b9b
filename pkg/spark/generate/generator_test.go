package generate

import (
	"testing"

	"spark-journal-be/pkg/spark"
)

func TestParseCandidates(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantCount int
		wantMode  spark.FailureMode
	}{
		{
			name:     "empty response",
			raw:      "   \n ",
			wantMode: spark.ModelEmpty,
		},
		{
			name:     "prose without json",
			raw:      "I could not find anything interesting to say here.",
			wantMode: spark.NoJSON,
		},
		{
			name:     "broken json block",
			raw:      `[{"type": "tension", "hook": }]`,
			wantMode: spark.JSONParseError,
		},
		{
			name:     "empty array",
			raw:      "[]",
			wantMode: spark.ModelEmpty,
		},
		{
			name:      "clean array",
			raw:       `[{"type":"tension","hook":"You said the opposite in March","confidence":0.8}]`,
			wantCount: 1,
		},
		{
			name:      "array with markdown fences",
			raw:       "```json\n[{\"type\":\"callback\",\"hook\":\"Echoes the lake trip\"},{\"type\":\"tension\",\"hook\":\"Second thoughts again\"}]\n```",
			wantCount: 2,
		},
		{
			name:      "array buried in prose",
			raw:       "Here are my observations:\n[{\"type\":\"eyebrow_raise\",\"hook\":\"Third mention this week\"}]\nHope that helps!",
			wantCount: 1,
		},
		{
			name:      "single object gets wrapped",
			raw:       `{"type":"tension","hook":"Still avoiding the call","confidence":0.5}`,
			wantCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates, mode, _ := ParseCandidates(tt.raw)

			if mode != tt.wantMode {
				t.Fatalf("mode = %q, want %q", mode, tt.wantMode)
			}
			if len(candidates) != tt.wantCount {
				t.Errorf("count = %d, want %d", len(candidates), tt.wantCount)
			}
		})
	}
}

func TestParseCandidatesKeepsFields(t *testing.T) {
	raw := `[{
		"type": "callback",
		"hook": "Same restaurant as the anniversary",
		"why_now": "You are planning dinner again",
		"action_prompt": "Mention it when you book",
		"evidence_memory_id": "3e9a4a1c-9f3a-4a77-9f5e-1d2c3b4a5e6f",
		"evidence_memory_date": "2025-11-02",
		"evidence_memory_snippet": "Booked Lucia for our anniversary",
		"confidence": 0.74
	}]`

	candidates, mode, err := ParseCandidates(raw)
	if err != nil || mode != "" {
		t.Fatalf("unexpected failure: mode=%q err=%v", mode, err)
	}
	c := candidates[0]
	if c.Type != "callback" || c.EvidenceMemoryDate != "2025-11-02" || c.Confidence != 0.74 {
		t.Errorf("fields not decoded: %+v", c)
	}
}
