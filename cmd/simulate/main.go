package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"spark-journal-be/internal/pkg/logger"
	"spark-journal-be/pkg/llm"
	"spark-journal-be/pkg/spark"
	"spark-journal-be/pkg/spark/pipeline"
	"spark-journal-be/pkg/spark/rank"
	"spark-journal-be/pkg/spark/retrieval"
	"spark-journal-be/pkg/spark/trigger"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// Offline walkthrough of the margin pipeline on virtual time: no database,
// no model calls, no server. Useful for eyeballing pacing decisions and the
// per-stage trace without standing up the whole stack.

var (
	memGym    = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	memSister = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	memSleep  = uuid.MustParse("33333333-3333-3333-3333-333333333333")
)

// scriptedRetriever serves a fixed evidence set, ranked by activation.
type scriptedRetriever struct {
	tuning spark.TuningSettings
}

func (r *scriptedRetriever) Retrieve(ctx context.Context, queryText string, maxMemories, maxImplications int) (*retrieval.Result, error) {
	evidence := []spark.EvidenceItem{
		{
			Id:              memSister,
			Snippet:         "Promised Mara I'd call every Sunday after the argument about dad's birthday.",
			Date:            time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC),
			ActivationScore: 0.81,
		},
		{
			Id:              memGym,
			Snippet:         "Signed up for the 6am gym slot with Tomas, said it would stick this time.",
			Date:            time.Date(2026, 7, 2, 0, 0, 0, 0, time.UTC),
			ActivationScore: 0.58,
		},
		{
			Id:              memSleep,
			Snippet:         "Avoids conflict by going quiet for a few days, then acts like nothing happened.",
			Date:            time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC),
			ActivationScore: 0.49,
			HopDistance:     1,
			IsImplication:   true,
		},
	}

	return &retrieval.Result{
		Evidence: evidence,
		Summary:  retrieval.Summarize(evidence, r.tuning),
	}, nil
}

// scriptedLLM answers the generation and judge calls with canned JSON.
// The judge prompt is the only one carrying a <candidates> block.
type scriptedLLM struct{}

func (m *scriptedLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	if len(history) == 0 {
		return "", nil
	}
	return m.Generate(ctx, history[len(history)-1].Content, options...)
}

func (m *scriptedLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	if strings.Contains(prompt, "<candidates>") {
		return `[
  {"index": 0, "tension": 4.5, "actionability": 4.0, "novelty": 3.5, "specificity": 4.5, "overall_utility": 4.0},
  {"index": 1, "tension": 1.0, "actionability": 1.5, "novelty": 1.0, "specificity": 1.0, "overall_utility": 1.0}
]`, nil
	}

	return `[
  {
    "type": "tension",
    "hook": "Skipping the call again, two weeks after promising Mara every Sunday",
    "why_now": "This paragraph repeats the pattern you named in June",
    "action_prompt": "Text Mara a time today",
    "evidence_memory_id": "` + memSister.String() + `",
    "evidence_memory_date": "2026-06-14",
    "evidence_memory_snippet": "Promised Mara I'd call every Sunday",
    "confidence": 0.82
  },
  {
    "type": "eyebrow_raise",
    "hook": "You mention being busy a lot lately",
    "why_now": "Might be worth noticing",
    "action_prompt": "Think about it",
    "evidence_memory_id": "` + memGym.String() + `",
    "evidence_memory_date": "2026-07-02",
    "evidence_memory_snippet": "Signed up for the 6am gym slot",
    "confidence": 0.41
  }
]`, nil
}

func main() {
	bold := color.New(color.Bold)
	stage := color.New(color.FgCyan)
	ok := color.New(color.FgGreen)
	warn := color.New(color.FgYellow)
	dim := color.New(color.Faint)

	bold.Println("=== Margin Pipeline Simulation (virtual time) ===")

	tuning := spark.DefaultTuning()
	log := logger.NewIsolatedLogger("logs/simulate.log")
	defer log.Sync()

	executor := pipeline.NewExecutor(&scriptedRetriever{tuning: tuning}, &scriptedLLM{}, log)
	entryDate := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	history := []spark.HistoricalNudge{
		{Type: spark.NudgeCallback, EvidenceMemoryId: &memGym, Hook: "Back at the 6am slot after a month away"},
	}
	feedback := []rank.FeedbackSignal{
		{Type: spark.NudgeTension, Value: "up"},
	}

	sched := trigger.NewManualScheduler(time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC))

	results := make(chan *pipeline.Result, 4)
	runner := func(ctx context.Context, inv trigger.Invocation) {
		res, err := executor.Run(ctx, pipeline.Input{
			Paragraph:      inv.Text,
			ParagraphIndex: inv.ParagraphIndex,
			ContentHash:    inv.ContentHash,
			EntryDate:      entryDate,
			Tuning:         tuning,
			History:        history,
			Feedback:       feedback,
		})
		if err != nil {
			warn.Printf("pipeline error: %v\n", err)
			return
		}
		results <- res
	}

	ctrl := trigger.NewController(tuning, sched, runner)

	// Event 1: too short, dropped at the trigger
	paragraph0 := "Busy week again."
	fmt.Println()
	stage.Println("[trigger] paragraph 0: short fragment")
	dim.Printf("  %q\n", paragraph0)
	ctrl.OnParagraphEdit(0, paragraph0)
	sched.Advance(10 * time.Second)
	fmt.Println("  -> dropped (below length/word floor), no run scheduled")

	// Event 2: qualifying paragraph, debounce then run
	paragraph1 := "Another Sunday went by and I did not call Mara. I keep telling myself the week " +
		"got away from me, but honestly I had the evening free and chose to reorganize the garage " +
		"instead. We have not really talked since the birthday argument."
	fmt.Println()
	stage.Println("[trigger] paragraph 1: qualifying edit, debounce armed")
	dim.Printf("  %q\n", paragraph1[:80]+"...")
	ctrl.OnParagraphEdit(1, paragraph1)
	sched.Advance(time.Duration(tuning.DebounceMs) * time.Millisecond)

	res := <-results
	printTrace(res, stage, ok, warn, dim)

	// Feed acceptance back so cooldown engages
	ctrl.NoteAccepted(1, len(res.Accepted))

	// Event 3: same content re-edited, hash dedup blocks the re-query
	fmt.Println()
	stage.Println("[trigger] paragraph 1 again: identical content after a whitespace edit")
	ctrl.OnParagraphEdit(1, paragraph1+"  ")
	sched.Advance(time.Duration(tuning.DebounceMs) * time.Millisecond)
	fmt.Println("  -> dropped (content hash already queried)")

	// Event 4: new paragraph inside the cooldown window
	paragraph2 := "Work was fine this week, mostly routine meetings and a long review on Thursday " +
		"that ran over. Nothing stands out except how tired I was by Friday afternoon."
	fmt.Println()
	stage.Println("[trigger] paragraph 2: new content inside cooldown")
	ctrl.OnParagraphEdit(2, paragraph2)
	sched.Advance(time.Duration(tuning.DebounceMs) * time.Millisecond)
	fmt.Printf("  -> suppressed (cooldown %dms after an accepted nudge)\n", tuning.CooldownMs)

	fmt.Println()
	bold.Println("=== Done ===")
}

func printTrace(res *pipeline.Result, stage, ok, warn, dim *color.Color) {
	for _, t := range res.Timings {
		stage.Printf("[%s]", t.Stage)
		dim.Printf(" %dms\n", t.DurationMs)
	}

	fmt.Printf("  retrieval: %d candidates, top=%.2f second=%.2f clear_signal=%v\n",
		res.Summary.TotalCandidates, res.Summary.TopScore, res.Summary.SecondScore, res.Summary.HasClearSignal)

	if len(res.FilterRejects) > 0 {
		for mode, n := range res.FilterRejects {
			warn.Printf("  filtered: %s x%d\n", mode, n)
		}
	}
	if len(res.GateRejections) > 0 {
		for reason, n := range res.GateRejections {
			warn.Printf("  gated: %s x%d\n", reason, n)
		}
	}

	if res.FailureMode != spark.Accepted {
		warn.Printf("  outcome: %s (empty margin)\n", res.FailureMode)
		return
	}

	ok.Printf("  outcome: accepted, %d nudge(s)\n", len(res.Accepted))
	for i, c := range res.Accepted {
		fmt.Printf("  %d. [%s] %q\n", i+1, c.Type, c.Hook)
		dim.Printf("     why_now=%q action=%q rank=%.3f utility=%.1f\n",
			c.WhyNow, c.ActionPrompt, c.RankScore, c.OverallUtility)
	}
}
