package judge

import (
	"context"
	"encoding/json"
	"strings"

	"spark-journal-be/internal/pkg/logger"
	"spark-journal-be/pkg/llm"
	"spark-journal-be/pkg/spark"
	"spark-journal-be/pkg/spark/prompt"
)

// axisScores is one element of the judge's JSON array.
type axisScores struct {
	Index          int     `json:"index"`
	Tension        float64 `json:"tension"`
	Actionability  float64 `json:"actionability"`
	Novelty        float64 `json:"novelty"`
	Specificity    float64 `json:"specificity"`
	OverallUtility float64 `json:"overall_utility"`
}

// Judge scores surviving drafts with a second generative call.
type Judge struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewJudge(llmProvider llm.LLMProvider, log logger.ILogger) *Judge {
	return &Judge{
		llmProvider: llmProvider,
		logger:      log,
	}
}

// Score judges each draft along the five quality axes. Candidates the judge
// skipped keep zero scores and fall to the gate.
func (j *Judge) Score(ctx context.Context, paragraph string, drafts []spark.CandidateDraft) ([]spark.JudgedCandidate, spark.FailureMode, error) {
	promptText := prompt.NewJudgeBuilder(paragraph, drafts).Build()

	// Low temperature keeps scoring consistent across runs
	raw, err := j.llmProvider.Generate(ctx, promptText, llm.WithTemperature(0.1))
	if err != nil {
		return nil, spark.JudgeEmpty, err
	}

	scores, mode, err := parseScores(raw)
	if mode != "" {
		return nil, mode, err
	}

	return attach(drafts, scores), "", nil
}

// attach maps judge scores back onto drafts by index, clamping every axis
// to [0,5].
func attach(drafts []spark.CandidateDraft, scores []axisScores) []spark.JudgedCandidate {
	judged := make([]spark.JudgedCandidate, len(drafts))
	for i, d := range drafts {
		judged[i] = spark.JudgedCandidate{CandidateDraft: d}
	}

	for _, s := range scores {
		if s.Index < 0 || s.Index >= len(judged) {
			continue
		}
		judged[s.Index].TensionScore = clampScore(s.Tension)
		judged[s.Index].ActionabilityScore = clampScore(s.Actionability)
		judged[s.Index].NoveltyScore = clampScore(s.Novelty)
		judged[s.Index].SpecificityScore = clampScore(s.Specificity)
		judged[s.Index].OverallUtility = clampScore(s.OverallUtility)
	}

	return judged
}

func parseScores(raw string) ([]axisScores, spark.FailureMode, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return nil, spark.JudgeEmpty, nil
	}

	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start < 0 || end <= start {
		return nil, spark.JudgeParseError, nil
	}

	var scores []axisScores
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &scores); err != nil {
		return nil, spark.JudgeParseError, err
	}

	if len(scores) == 0 {
		return nil, spark.JudgeEmpty, nil
	}

	return scores, "", nil
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 5 {
		return 5
	}
	return v
}
