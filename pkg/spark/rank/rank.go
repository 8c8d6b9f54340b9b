package rank

import (
	"sort"
	"strings"

	"spark-journal-be/pkg/spark"
)

const (
	// Composite score weights
	utilityWeight         = 0.55
	retrievalWeight       = 0.2
	noveltyWeight         = 0.15
	personalizationWeight = 0.1

	// History adjustments
	RepetitionPenalty = 0.45
	mixBoostFactor    = 0.2
	hookPrefixWords   = 4
)

// Long-run target share per nudge type. Tension carries the product; the
// other two keep the margin from feeling repetitive.
var targetShare = map[spark.NudgeType]float64{
	spark.NudgeTension:      0.60,
	spark.NudgeCallback:     0.25,
	spark.NudgeEyebrowRaise: 0.15,
}

// Rank computes adjusted rank scores against the recent history window and
// selects up to three candidates with type diversity. history is expected to
// be the caller's recent window (newest first); only the first three entries
// feed the adjustments.
func Rank(
	candidates []spark.JudgedCandidate,
	history []spark.HistoricalNudge,
	weights map[spark.NudgeType]float64,
) []spark.JudgedCandidate {
	if len(history) > 3 {
		history = history[:3]
	}

	typeCounts := make(map[spark.NudgeType]int)
	for _, h := range history {
		typeCounts[h.Type]++
	}

	scored := make([]spark.JudgedCandidate, len(candidates))
	for i, c := range candidates {
		c.PersonalizationWeight = weights[c.Type]
		c.RankScore = Score(c) + adjust(c, history, typeCounts, len(history))
		scored[i] = c
	}

	return selectDiverse(scored)
}

// Score is the unadjusted composite rank score. Retrieval strength is scaled
// to the same 0-5 range as the judge axes before weighting.
func Score(c spark.JudgedCandidate) float64 {
	return utilityWeight*c.OverallUtility +
		retrievalWeight*c.RetrievalStrengthNormalized*5 +
		noveltyWeight*c.NoveltyScore +
		personalizationWeight*c.PersonalizationWeight
}

func adjust(c spark.JudgedCandidate, history []spark.HistoricalNudge, typeCounts map[spark.NudgeType]int, total int) float64 {
	var delta float64

	if repeats(c, history) {
		delta -= RepetitionPenalty
	}

	denominator := total
	if denominator < 1 {
		denominator = 1
	}
	priority := targetShare[c.Type]*float64(denominator) - float64(typeCounts[c.Type])
	delta += mixBoostFactor * priority

	return delta
}

// repeats reports whether the candidate re-treads a recent nudge: same
// evidence memory, or the same opening four hook words.
func repeats(c spark.JudgedCandidate, history []spark.HistoricalNudge) bool {
	prefix := hookPrefix(c.Hook)
	for _, h := range history {
		if c.EvidenceMemoryId != nil && h.EvidenceMemoryId != nil && *c.EvidenceMemoryId == *h.EvidenceMemoryId {
			return true
		}
		if prefix != "" && prefix == hookPrefix(h.Hook) {
			return true
		}
	}
	return false
}

func hookPrefix(hook string) string {
	words := strings.Fields(strings.ToLower(hook))
	if len(words) > hookPrefixWords {
		words = words[:hookPrefixWords]
	}
	return strings.Join(words, " ")
}

// selectDiverse sorts by adjusted score, greedily takes the best candidate of
// each distinct type, then fills remaining slots from the sorted leftovers.
// Output is re-sorted by score so display order matches strength.
func selectDiverse(candidates []spark.JudgedCandidate) []spark.JudgedCandidate {
	sorted := make([]spark.JudgedCandidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RankScore > sorted[j].RankScore
	})

	picked := make([]spark.JudgedCandidate, 0, spark.MaxAcceptedPerRun)
	taken := make([]bool, len(sorted))
	seenType := make(map[spark.NudgeType]bool)

	for i, c := range sorted {
		if len(picked) >= spark.MaxAcceptedPerRun {
			break
		}
		if seenType[c.Type] {
			continue
		}
		picked = append(picked, c)
		taken[i] = true
		seenType[c.Type] = true
	}

	// Fallback fill ignores type once distinct types ran out
	for i, c := range sorted {
		if len(picked) >= spark.MaxAcceptedPerRun {
			break
		}
		if taken[i] {
			continue
		}
		picked = append(picked, c)
		taken[i] = true
	}

	sort.SliceStable(picked, func(i, j int) bool {
		return picked[i].RankScore > picked[j].RankScore
	})

	return picked
}
