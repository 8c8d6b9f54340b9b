package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"spark-journal-be/internal/pkg/logger"
	"spark-journal-be/pkg/llm"
	"spark-journal-be/pkg/spark"
	"spark-journal-be/pkg/spark/gate"
	"spark-journal-be/pkg/spark/rank"
	"spark-journal-be/pkg/spark/retrieval"
)

// scriptedProvider replays canned responses: call 0 is the generation call,
// call 1 the judge call.
type scriptedProvider struct {
	responses []string
	err       error
	calls     int
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	if p.calls >= len(p.responses) {
		return "", errors.New("unexpected model call")
	}
	resp := p.responses[p.calls]
	p.calls++
	return resp, nil
}

func (p *scriptedProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	last := ""
	if len(history) > 0 {
		last = history[len(history)-1].Content
	}
	return p.Generate(ctx, last, options...)
}

type staticRetriever struct {
	result *retrieval.Result
	err    error
}

func (r *staticRetriever) Retrieve(ctx context.Context, queryText string, maxMemories, maxImplications int) (*retrieval.Result, error) {
	return r.result, r.err
}

var (
	memoryId  = uuid.MustParse("6f1c2b3a-0000-4000-8000-000000000001")
	memoryId2 = uuid.MustParse("6f1c2b3a-0000-4000-8000-000000000002")
)

func strongEvidence() []spark.EvidenceItem {
	return []spark.EvidenceItem{
		{Id: memoryId, Snippet: "argued with Dad about the move", Date: time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC), ActivationScore: 0.8},
		{Id: memoryId2, Snippet: "Maya cancelled dinner twice in May", Date: time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC), ActivationScore: 0.4},
	}
}

func newRetriever(evidence []spark.EvidenceItem, tuning spark.TuningSettings) *staticRetriever {
	return &staticRetriever{result: &retrieval.Result{
		Evidence: evidence,
		Summary:  retrieval.Summarize(evidence, tuning),
	}}
}

func pipelineInput() Input {
	return Input{
		Paragraph:      "Dinner with Maya went better than I expected, though I kept waiting for it to go wrong.",
		ParagraphIndex: 2,
		ContentHash:    "abc123",
		EntryDate:      time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		Tuning:         spark.DefaultTuning(),
	}
}

func generationJSON() string {
	return fmt.Sprintf(`[
		{"type":"tension","hook":"You expected this dinner to go wrong","why_now":"Last month you braced for the same thing","action_prompt":"What changed tonight?","evidence_memory_id":"%s","evidence_memory_date":"2026-07-15","evidence_memory_snippet":"argued with Dad about the move","confidence":0.8},
		{"type":"callback","hook":"Maya cancelled twice back in May","why_now":"Tonight she showed up","action_prompt":"Worth telling her?","evidence_memory_id":"%s","evidence_memory_date":"2026-05-02","evidence_memory_snippet":"Maya cancelled dinner twice in May","confidence":0.7}
	]`, memoryId, memoryId2)
}

const passingJudgeJSON = `[
	{"index":0,"tension":4,"actionability":3,"novelty":3,"specificity":3.5,"overall_utility":4},
	{"index":1,"tension":2,"actionability":3,"novelty":3,"specificity":3,"overall_utility":3}
]`

func TestRunHaltsWithoutClearSignal(t *testing.T) {
	tuning := spark.DefaultTuning()
	weak := []spark.EvidenceItem{
		{Id: memoryId, Snippet: "something faint", Date: time.Now(), ActivationScore: 0.3},
	}
	provider := &scriptedProvider{}
	exec := NewExecutor(newRetriever(weak, tuning), provider, logger.NewNopLogger())

	result, err := exec.Run(context.Background(), pipelineInput())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.FailureMode != spark.NoSignal {
		t.Errorf("mode = %s, want %s", result.FailureMode, spark.NoSignal)
	}
	if provider.calls != 0 {
		t.Errorf("model called %d times on a no-signal run", provider.calls)
	}
	if len(result.Accepted) != 0 {
		t.Errorf("accepted %d candidates", len(result.Accepted))
	}
}

func TestRunRetrievalFailureDegradesToNoSignal(t *testing.T) {
	provider := &scriptedProvider{}
	exec := NewExecutor(&staticRetriever{err: errors.New("pgvector down")}, provider, logger.NewNopLogger())

	result, err := exec.Run(context.Background(), pipelineInput())
	if err != nil {
		t.Fatalf("Run() error = %v, want degraded result", err)
	}
	if result.FailureMode != spark.NoSignal {
		t.Errorf("mode = %s, want %s", result.FailureMode, spark.NoSignal)
	}
	if len(result.Accepted) != 0 {
		t.Errorf("accepted %d candidates from a failed retrieval", len(result.Accepted))
	}
	if provider.calls != 0 {
		t.Errorf("model called %d times after retrieval failed", provider.calls)
	}
	if len(result.Timings) == 0 || result.Timings[0].Stage != "retrieval" {
		t.Error("degraded run should still carry the retrieval timing")
	}
}

func TestRunCancelledRetrievalReturnsError(t *testing.T) {
	retrieverErr := fmt.Errorf("retrieve: %w", context.Canceled)
	exec := NewExecutor(&staticRetriever{err: retrieverErr}, &scriptedProvider{}, logger.NewNopLogger())

	result, err := exec.Run(context.Background(), pipelineInput())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if result != nil {
		t.Error("superseded run should not produce a trace result")
	}
}

func TestRunProseResponseIsNoJSON(t *testing.T) {
	tuning := spark.DefaultTuning()
	provider := &scriptedProvider{responses: []string{"I cannot find anything worth noting here."}}
	exec := NewExecutor(newRetriever(strongEvidence(), tuning), provider, logger.NewNopLogger())

	result, err := exec.Run(context.Background(), pipelineInput())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.FailureMode != spark.NoJSON {
		t.Errorf("mode = %s, want %s", result.FailureMode, spark.NoJSON)
	}
}

func TestRunAllDraftsFilteredSkipsJudge(t *testing.T) {
	tuning := spark.DefaultTuning()
	provider := &scriptedProvider{responses: []string{
		`[{"type":"prophecy","hook":"h","why_now":"w","action_prompt":"a","confidence":0.9}]`,
	}}
	exec := NewExecutor(newRetriever(strongEvidence(), tuning), provider, logger.NewNopLogger())

	result, err := exec.Run(context.Background(), pipelineInput())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.FailureMode != spark.FilteredType {
		t.Errorf("mode = %s, want %s", result.FailureMode, spark.FilteredType)
	}
	if provider.calls != 1 {
		t.Errorf("model calls = %d, want 1 (judge must be skipped)", provider.calls)
	}
	if result.FilterRejects[spark.FilteredType] != 1 {
		t.Errorf("filtered_type tally = %d, want 1", result.FilterRejects[spark.FilteredType])
	}
}

func TestRunGateRejectsAll(t *testing.T) {
	tuning := spark.DefaultTuning()
	lowUtilityJudge := `[
		{"index":0,"tension":4,"actionability":3,"novelty":3,"specificity":3,"overall_utility":1},
		{"index":1,"tension":2,"actionability":3,"novelty":3,"specificity":3,"overall_utility":1.5}
	]`
	provider := &scriptedProvider{responses: []string{generationJSON(), lowUtilityJudge}}
	exec := NewExecutor(newRetriever(strongEvidence(), tuning), provider, logger.NewNopLogger())

	result, err := exec.Run(context.Background(), pipelineInput())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.FailureMode != spark.GateRejected {
		t.Errorf("mode = %s, want %s", result.FailureMode, spark.GateRejected)
	}
	if result.GateRejections[gate.ReasonOverallUtility] != 2 {
		t.Errorf("overall_utility rejections = %d, want 2", result.GateRejections[gate.ReasonOverallUtility])
	}
}

func TestRunAcceptsAndRanks(t *testing.T) {
	tuning := spark.DefaultTuning()
	provider := &scriptedProvider{responses: []string{generationJSON(), passingJudgeJSON}}
	exec := NewExecutor(newRetriever(strongEvidence(), tuning), provider, logger.NewNopLogger())

	result, err := exec.Run(context.Background(), pipelineInput())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.FailureMode != spark.Accepted {
		t.Fatalf("mode = %s, want %s", result.FailureMode, spark.Accepted)
	}
	if len(result.Accepted) != 2 {
		t.Fatalf("accepted = %d, want 2", len(result.Accepted))
	}
	if result.Accepted[0].Type != spark.NudgeTension {
		t.Errorf("leader type = %s, want tension", result.Accepted[0].Type)
	}
	if result.Accepted[0].RankScore <= result.Accepted[1].RankScore {
		t.Errorf("accepted not sorted by rank score: %.3f vs %.3f",
			result.Accepted[0].RankScore, result.Accepted[1].RankScore)
	}
	if result.Accepted[0].EvidenceMemoryId == nil || *result.Accepted[0].EvidenceMemoryId != memoryId {
		t.Error("evidence anchor lost through the pipeline")
	}
	if result.Summary.TopScore != 0.8 {
		t.Errorf("summary top score = %.2f, want 0.80", result.Summary.TopScore)
	}

	wantStages := []string{"retrieval", "generate", "normalize", "judge", "gate", "rank"}
	if len(result.Timings) != len(wantStages) {
		t.Fatalf("timings = %d stages, want %d", len(result.Timings), len(wantStages))
	}
	for i, stage := range wantStages {
		if result.Timings[i].Stage != stage {
			t.Errorf("timing[%d] = %s, want %s", i, result.Timings[i].Stage, stage)
		}
	}
}

func TestRunPersonalizationWeightsApplied(t *testing.T) {
	tuning := spark.DefaultTuning()
	provider := &scriptedProvider{responses: []string{generationJSON(), passingJudgeJSON}}
	exec := NewExecutor(newRetriever(strongEvidence(), tuning), provider, logger.NewNopLogger())

	in := pipelineInput()
	for i := 0; i < 4; i++ {
		in.Feedback = append(in.Feedback, rank.FeedbackSignal{Type: spark.NudgeTension, Value: "up"})
	}

	result, err := exec.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, c := range result.Accepted {
		if c.Type != spark.NudgeTension {
			continue
		}
		want := tuning.PersonalizationBase + 4*tuning.FeedbackUpStep
		if c.PersonalizationWeight != want {
			t.Errorf("tension weight = %.2f, want %.2f", c.PersonalizationWeight, want)
		}
	}
}
