package retrieval

import (
	"testing"

	"spark-journal-be/pkg/spark"
)

func evidenceWithScores(scores ...float64) []spark.EvidenceItem {
	items := make([]spark.EvidenceItem, len(scores))
	for i, s := range scores {
		items[i] = spark.EvidenceItem{ActivationScore: s}
	}
	return items
}

func TestSummarize(t *testing.T) {
	tuning := spark.DefaultTuning()
	tuning.MinTopActivation = 0.45
	tuning.MinTopGap = 0.12
	tuning.StrongTopOverride = 0.72

	tests := []struct {
		name       string
		scores     []float64
		wantSignal bool
		wantTop    float64
		wantSecond float64
	}{
		{
			name:       "empty set",
			scores:     nil,
			wantSignal: false,
		},
		{
			name:       "top below activation floor",
			scores:     []float64{0.05, 0.02},
			wantSignal: false,
			wantTop:    0.05,
			wantSecond: 0.02,
		},
		{
			name:       "clear gap over second",
			scores:     []float64{0.60, 0.40, 0.10},
			wantSignal: true,
			wantTop:    0.60,
			wantSecond: 0.40,
		},
		{
			name:       "narrow gap, no override",
			scores:     []float64{0.55, 0.50},
			wantSignal: false,
			wantTop:    0.55,
			wantSecond: 0.50,
		},
		{
			name:       "narrow gap but strong top override",
			scores:     []float64{0.80, 0.78},
			wantSignal: true,
			wantTop:    0.80,
			wantSecond: 0.78,
		},
		{
			name:       "unsorted input still finds top two",
			scores:     []float64{0.30, 0.75, 0.50},
			wantSignal: true,
			wantTop:    0.75,
			wantSecond: 0.50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(evidenceWithScores(tt.scores...), tuning)

			if got.HasClearSignal != tt.wantSignal {
				t.Errorf("HasClearSignal = %v, want %v", got.HasClearSignal, tt.wantSignal)
			}
			if got.TopScore != tt.wantTop {
				t.Errorf("TopScore = %v, want %v", got.TopScore, tt.wantTop)
			}
			if got.SecondScore != tt.wantSecond {
				t.Errorf("SecondScore = %v, want %v", got.SecondScore, tt.wantSecond)
			}
			if got.TotalCandidates != len(tt.scores) {
				t.Errorf("TotalCandidates = %d, want %d", got.TotalCandidates, len(tt.scores))
			}
		})
	}
}

func TestSummarizeCountsImplicationsAndStrong(t *testing.T) {
	tuning := spark.DefaultTuning()

	evidence := []spark.EvidenceItem{
		{ActivationScore: 0.80},
		{ActivationScore: 0.50, IsImplication: true},
		{ActivationScore: 0.20, IsImplication: true},
	}

	got := Summarize(evidence, tuning)

	if got.ImplicationCount != 2 {
		t.Errorf("ImplicationCount = %d, want 2", got.ImplicationCount)
	}
	if got.StrongCandidates != 2 {
		t.Errorf("StrongCandidates = %d, want 2", got.StrongCandidates)
	}
}
