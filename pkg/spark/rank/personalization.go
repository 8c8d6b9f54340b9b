package rank

import (
	"spark-journal-be/pkg/spark"
)

// FeedbackSignal is the slice of a stored feedback row the weight policy
// cares about.
type FeedbackSignal struct {
	Type   spark.NudgeType
	Value  string // "up" | "down"
	Reason string // set on down-votes
}

// Down-vote reasons that say the pipeline got the substance wrong, not just
// the delivery. They cut twice as deep.
var substantiveReasons = map[string]bool{
	"not_relevant":   true,
	"wrong_evidence": true,
}

// Weights derives the per-type personalization weight from observed feedback.
// Policy (tunable, not contractual): start each type at the configured base,
// add FeedbackUpStep per up-vote, subtract FeedbackDownStep per down-vote
// (doubled for substantive reasons), clamp to [0,5].
func Weights(feedback []FeedbackSignal, tuning spark.TuningSettings) map[spark.NudgeType]float64 {
	weights := map[spark.NudgeType]float64{
		spark.NudgeTension:      tuning.PersonalizationBase,
		spark.NudgeCallback:     tuning.PersonalizationBase,
		spark.NudgeEyebrowRaise: tuning.PersonalizationBase,
	}

	for _, f := range feedback {
		if !spark.KnownNudgeType(f.Type) {
			continue
		}
		switch f.Value {
		case "up":
			weights[f.Type] += tuning.FeedbackUpStep
		case "down":
			step := tuning.FeedbackDownStep
			if substantiveReasons[f.Reason] {
				step *= 2
			}
			weights[f.Type] -= step
		}
	}

	for t, w := range weights {
		if w < 0 {
			weights[t] = 0
		} else if w > 5 {
			weights[t] = 5
		}
	}

	return weights
}
