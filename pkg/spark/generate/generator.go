package generate

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"spark-journal-be/internal/pkg/logger"
	"spark-journal-be/pkg/llm"
	"spark-journal-be/pkg/spark"
	"spark-journal-be/pkg/spark/prompt"
)

// RawCandidate is one element of the model's JSON array, before any
// normalization. Field mismatches surface later as filtered_* rejections,
// not parse failures.
type RawCandidate struct {
	Type                  string  `json:"type"`
	Hook                  string  `json:"hook"`
	WhyNow                string  `json:"why_now"`
	ActionPrompt          string  `json:"action_prompt"`
	EvidenceMemoryId      string  `json:"evidence_memory_id"`
	EvidenceMemoryDate    string  `json:"evidence_memory_date"`
	EvidenceMemorySnippet string  `json:"evidence_memory_snippet"`
	Confidence            float64 `json:"confidence"`
}

// Generator performs the single generation call of a pipeline run.
type Generator struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewGenerator(llmProvider llm.LLMProvider, log logger.ILogger) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		logger:      log,
	}
}

// Generate asks the model for draft candidates. A non-empty FailureMode is
// terminal for the run; err carries the underlying cause for logging only.
func (g *Generator) Generate(
	ctx context.Context,
	paragraph string,
	entryDate time.Time,
	evidence []spark.EvidenceItem,
	tuning spark.TuningSettings,
) ([]RawCandidate, spark.FailureMode, error) {

	promptText := prompt.NewGenerationBuilder(paragraph, entryDate, evidence, tuning).Build()

	raw, err := g.llmProvider.Generate(ctx, promptText, llm.WithTemperature(0.6))
	if err != nil {
		return nil, spark.ModelEmpty, err
	}

	return ParseCandidates(raw)
}

// ParseCandidates extracts the JSON array (or lone object) from raw model
// output and decodes it.
func ParseCandidates(raw string) ([]RawCandidate, spark.FailureMode, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, spark.ModelEmpty, nil
	}

	block, ok := extractJSONBlock(raw)
	if !ok {
		return nil, spark.NoJSON, nil
	}

	// Single object gets wrapped so both shapes decode the same way
	if strings.HasPrefix(block, "{") {
		block = "[" + block + "]"
	}

	var candidates []RawCandidate
	if err := json.Unmarshal([]byte(block), &candidates); err != nil {
		return nil, spark.JSONParseError, err
	}

	if len(candidates) == 0 {
		return nil, spark.ModelEmpty, nil
	}

	return candidates, "", nil
}

// extractJSONBlock pulls the outermost [...] block, or failing that the
// outermost {...} block, out of model output that may carry prose or
// markdown fences around it.
func extractJSONBlock(raw string) (string, bool) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start >= 0 && end > start {
		return cleaned[start : end+1], true
	}

	start = strings.Index(cleaned, "{")
	end = strings.LastIndex(cleaned, "}")
	if start >= 0 && end > start {
		return cleaned[start : end+1], true
	}

	return "", false
}
