package gate

import (
	"spark-journal-be/pkg/spark"
)

// Reason names why a judged candidate was rejected. Tallied per run for
// diagnostics.
type Reason string

const (
	ReasonMissingEvidenceAnchor Reason = "missing_evidence_anchor"
	ReasonModelConfidence       Reason = "model_confidence"
	ReasonOverallUtility        Reason = "overall_utility"
	ReasonSpecificity           Reason = "specificity"
	ReasonActionability         Reason = "actionability"
)

// Decision is the gate's output for one run.
type Decision struct {
	Passed     []spark.JudgedCandidate
	Rejections map[Reason]int
}

// Evaluate hard-filters judged candidates against the tuning thresholds.
// The evidence anchor check is non-negotiable: a nudge that cannot point at
// a concrete memory never surfaces, whatever its scores.
func Evaluate(candidates []spark.JudgedCandidate, tuning spark.TuningSettings) Decision {
	decision := Decision{
		Rejections: make(map[Reason]int),
	}

	for _, c := range candidates {
		if reason, ok := reject(c, tuning); ok {
			decision.Rejections[reason]++
			continue
		}
		decision.Passed = append(decision.Passed, c)
	}

	return decision
}

// reject returns the first failing check in fixed order, so tallies stay
// stable across runs with the same inputs.
func reject(c spark.JudgedCandidate, tuning spark.TuningSettings) (Reason, bool) {
	if c.EvidenceMemoryDate == nil || c.EvidenceMemorySnippet == "" {
		return ReasonMissingEvidenceAnchor, true
	}
	if c.ModelConfidence < tuning.MinModelConfidence {
		return ReasonModelConfidence, true
	}
	if c.OverallUtility < tuning.MinOverallUtility {
		return ReasonOverallUtility, true
	}
	if c.SpecificityScore < tuning.MinSpecificityScore {
		return ReasonSpecificity, true
	}
	if c.ActionabilityScore < tuning.MinActionabilityScore {
		return ReasonActionability, true
	}
	return "", false
}
