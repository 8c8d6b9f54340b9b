package normalize

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"spark-journal-be/pkg/spark"
	"spark-journal-be/pkg/spark/generate"
)

// Result carries the sanitized drafts plus a tally of per-candidate
// rejections, keyed by failure mode.
type Result struct {
	Drafts  []spark.CandidateDraft
	Rejects map[spark.FailureMode]int
}

// Normalize sanitizes raw model output into CandidateDrafts. Overlong text is
// truncated to its word budget rather than rejected; only unknown types,
// empty required fields and sub-floor confidence drop a candidate.
func Normalize(
	raws []generate.RawCandidate,
	evidence []spark.EvidenceItem,
	summary spark.RetrievalSummary,
	tuning spark.TuningSettings,
) Result {
	result := Result{
		Rejects: make(map[spark.FailureMode]int),
	}

	for _, raw := range raws {
		nudgeType := spark.NudgeType(strings.TrimSpace(strings.ToLower(raw.Type)))
		if !spark.KnownNudgeType(nudgeType) {
			result.Rejects[spark.FilteredType]++
			continue
		}

		hook := strings.TrimSpace(raw.Hook)
		whyNow := strings.TrimSpace(raw.WhyNow)
		action := strings.TrimSpace(raw.ActionPrompt)
		if hook == "" || whyNow == "" || action == "" {
			result.Rejects[spark.FilteredText]++
			continue
		}

		confidence := clamp01(raw.Confidence)
		if confidence < tuning.MinModelConfidence {
			result.Rejects[spark.FilteredConfidence]++
			continue
		}

		draft := spark.CandidateDraft{
			Type:                  nudgeType,
			Hook:                  TruncateWords(hook, spark.MaxHookWords),
			WhyNow:                TruncateWords(whyNow, spark.MaxWhyNowWords),
			ActionPrompt:          TruncateWords(action, spark.MaxActionWords),
			EvidenceMemorySnippet: TruncateWords(strings.TrimSpace(raw.EvidenceMemorySnippet), spark.MaxSnippetWords),
			ModelConfidence:       confidence,
		}

		if id, err := uuid.Parse(strings.TrimSpace(raw.EvidenceMemoryId)); err == nil {
			draft.EvidenceMemoryId = &id
		}
		if date, err := time.Parse("2006-01-02", strings.TrimSpace(raw.EvidenceMemoryDate)); err == nil {
			draft.EvidenceMemoryDate = &date
		}

		draft.RetrievalStrengthNormalized = retrievalStrength(draft.EvidenceMemoryId, evidence, summary)

		result.Drafts = append(result.Drafts, draft)
	}

	return result
}

// retrievalStrength takes the activation of the evidence item the draft is
// anchored to, falling back to the round's top score when the anchor does not
// resolve to a retrieved item.
func retrievalStrength(evidenceId *uuid.UUID, evidence []spark.EvidenceItem, summary spark.RetrievalSummary) float64 {
	if evidenceId != nil {
		for _, item := range evidence {
			if item.Id == *evidenceId {
				return clamp01(item.ActivationScore)
			}
		}
	}
	return clamp01(summary.TopScore)
}

// DominantReject picks the run-level failure mode when normalization dropped
// every candidate: the most frequent rejection reason, with a stable
// precedence on ties.
func DominantReject(rejects map[spark.FailureMode]int) spark.FailureMode {
	order := []spark.FailureMode{spark.FilteredText, spark.FilteredType, spark.FilteredConfidence}
	best := spark.FilteredText
	bestCount := -1
	for _, mode := range order {
		if rejects[mode] > bestCount {
			best = mode
			bestCount = rejects[mode]
		}
	}
	return best
}

// TruncateWords cuts s down to max words, appending a period when it had to
// cut. Word boundaries are whitespace runs.
func TruncateWords(s string, max int) string {
	words := strings.Fields(s)
	if len(words) <= max {
		return s
	}
	truncated := strings.Join(words[:max], " ")
	truncated = strings.TrimRight(truncated, ".,;:")
	return truncated + "."
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
