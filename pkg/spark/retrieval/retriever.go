package retrieval

import (
	"context"

	"spark-journal-be/pkg/spark"
)

// Result is one retrieval round: the ranked evidence set plus its summary.
type Result struct {
	Evidence []spark.EvidenceItem
	Summary  spark.RetrievalSummary
}

// Retriever is the contract the pipeline consumes. Activation scores must be
// comparable across calls for the clear-signal check to mean anything.
type Retriever interface {
	Retrieve(ctx context.Context, queryText string, maxMemories, maxImplications int) (*Result, error)
}

// Summarize computes the RetrievalSummary for a ranked evidence set.
// Evidence is expected sorted by activation score descending; Summarize
// does not assume it and scans for the top two scores itself.
func Summarize(evidence []spark.EvidenceItem, tuning spark.TuningSettings) spark.RetrievalSummary {
	summary := spark.RetrievalSummary{
		TotalCandidates: len(evidence),
	}

	for _, item := range evidence {
		if item.IsImplication {
			summary.ImplicationCount++
		}
		if item.ActivationScore >= tuning.MinTopActivation {
			summary.StrongCandidates++
		}
		if item.ActivationScore > summary.TopScore {
			summary.SecondScore = summary.TopScore
			summary.TopScore = item.ActivationScore
		} else if item.ActivationScore > summary.SecondScore {
			summary.SecondScore = item.ActivationScore
		}
	}

	if summary.TopScore >= tuning.MinTopActivation {
		gap := summary.TopScore - summary.SecondScore
		summary.HasClearSignal = gap >= tuning.MinTopGap || summary.TopScore >= tuning.StrongTopOverride
	}

	return summary
}
