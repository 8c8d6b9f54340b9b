package pipeline

import (
	"context"
	"errors"
	"time"

	"spark-journal-be/internal/pkg/logger"
	"spark-journal-be/pkg/llm"
	"spark-journal-be/pkg/spark"
	"spark-journal-be/pkg/spark/gate"
	"spark-journal-be/pkg/spark/generate"
	"spark-journal-be/pkg/spark/judge"
	"spark-journal-be/pkg/spark/normalize"
	"spark-journal-be/pkg/spark/rank"
	"spark-journal-be/pkg/spark/retrieval"
)

// Executor orchestrates one pipeline run:
// retrieval → generation → normalization → judging → gating → ranking.
// Every run terminates in exactly one FailureMode; stage failures, including
// retrieval infrastructure failures, are run outcomes, not errors. The only
// error Run returns is cancellation of a superseded run.
type Executor struct {
	retriever retrieval.Retriever
	generator *generate.Generator
	judge     *judge.Judge
	logger    logger.ILogger
}

func NewExecutor(retriever retrieval.Retriever, llmProvider llm.LLMProvider, log logger.ILogger) *Executor {
	return &Executor{
		retriever: retriever,
		generator: generate.NewGenerator(llmProvider, log),
		judge:     judge.NewJudge(llmProvider, log),
		logger:    log,
	}
}

// Input is everything one run needs. History is the caller's recent-nudge
// window, newest first; Feedback is the user's full thumbs record for
// personalization weights.
type Input struct {
	Paragraph      string
	ParagraphIndex int
	ContentHash    string
	EntryDate      time.Time
	Tuning         spark.TuningSettings
	History        []spark.HistoricalNudge
	Feedback       []rank.FeedbackSignal
}

// StageTiming records wall time per stage for the run trace.
type StageTiming struct {
	Stage      string `json:"stage"`
	DurationMs int64  `json:"duration_ms"`
}

// Result is the full run trace: outcome, surfaced candidates, and the
// per-stage rejection tallies needed to explain an empty margin.
type Result struct {
	FailureMode    spark.FailureMode
	Accepted       []spark.JudgedCandidate
	Summary        spark.RetrievalSummary
	FilterRejects  map[spark.FailureMode]int
	GateRejections map[gate.Reason]int
	Timings        []StageTiming
}

// Run executes the full stage chain for one qualifying paragraph.
func (e *Executor) Run(ctx context.Context, in Input) (*Result, error) {
	result := &Result{}
	tuning := in.Tuning

	// Stage 1: retrieval
	start := time.Now()
	retrieved, err := e.retriever.Retrieve(ctx, in.Paragraph, tuning.MaxMemoriesContext, tuning.MaxImplicationsContext)
	result.mark("retrieval", start)
	if err != nil {
		// A superseded run stops here; anything else (store down, embedding
		// timeout) degrades to an empty margin with a recorded outcome.
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		e.logger.Error("spark.pipeline", "Retrieval failed", map[string]interface{}{
			"paragraph_index": in.ParagraphIndex,
			"error":           err.Error(),
		})
		return result.finish(e.logger, in, spark.NoSignal), nil
	}

	result.Summary = retrieved.Summary
	e.logger.Debug("spark.pipeline", "Stage 1: retrieval complete", map[string]interface{}{
		"candidates":   retrieved.Summary.TotalCandidates,
		"top_score":    retrieved.Summary.TopScore,
		"second_score": retrieved.Summary.SecondScore,
		"clear_signal": retrieved.Summary.HasClearSignal,
	})

	if !retrieved.Summary.HasClearSignal {
		return result.finish(e.logger, in, spark.NoSignal), nil
	}

	// Stage 2: generation, one model call per run
	start = time.Now()
	raws, mode, genErr := e.generator.Generate(ctx, in.Paragraph, in.EntryDate, retrieved.Evidence, tuning)
	result.mark("generate", start)
	if mode != "" && mode != spark.Accepted {
		if genErr != nil {
			e.logger.Warn("spark.pipeline", "Generation failed", map[string]interface{}{
				"paragraph_index": in.ParagraphIndex,
				"mode":            string(mode),
				"error":           genErr.Error(),
			})
		}
		return result.finish(e.logger, in, mode), nil
	}

	e.logger.Debug("spark.pipeline", "Stage 2: generation complete", map[string]interface{}{
		"raw_candidates": len(raws),
	})

	// Stage 3: normalization
	start = time.Now()
	normalized := normalize.Normalize(raws, retrieved.Evidence, retrieved.Summary, tuning)
	result.mark("normalize", start)
	result.FilterRejects = normalized.Rejects

	if len(normalized.Drafts) == 0 {
		return result.finish(e.logger, in, normalize.DominantReject(normalized.Rejects)), nil
	}

	e.logger.Debug("spark.pipeline", "Stage 3: normalization complete", map[string]interface{}{
		"drafts":   len(normalized.Drafts),
		"rejected": len(raws) - len(normalized.Drafts),
	})

	// Stage 4: judge, second model call
	start = time.Now()
	judged, mode, judgeErr := e.judge.Score(ctx, in.Paragraph, normalized.Drafts)
	result.mark("judge", start)
	if mode != "" {
		if judgeErr != nil {
			e.logger.Warn("spark.pipeline", "Judging failed", map[string]interface{}{
				"paragraph_index": in.ParagraphIndex,
				"mode":            string(mode),
				"error":           judgeErr.Error(),
			})
		}
		return result.finish(e.logger, in, mode), nil
	}

	// Stage 5: gate
	start = time.Now()
	decision := gate.Evaluate(judged, tuning)
	result.mark("gate", start)
	result.GateRejections = decision.Rejections

	if len(decision.Passed) == 0 {
		return result.finish(e.logger, in, spark.GateRejected), nil
	}

	e.logger.Debug("spark.pipeline", "Stage 5: gate complete", map[string]interface{}{
		"passed":   len(decision.Passed),
		"rejected": len(judged) - len(decision.Passed),
	})

	// Stage 6: ranking and diversity selection
	start = time.Now()
	weights := rank.Weights(in.Feedback, tuning)
	result.Accepted = rank.Rank(decision.Passed, in.History, weights)
	result.mark("rank", start)

	return result.finish(e.logger, in, spark.Accepted), nil
}

func (r *Result) mark(stage string, start time.Time) {
	r.Timings = append(r.Timings, StageTiming{
		Stage:      stage,
		DurationMs: time.Since(start).Milliseconds(),
	})
}

func (r *Result) finish(log logger.ILogger, in Input, mode spark.FailureMode) *Result {
	r.FailureMode = mode
	log.Info("spark.pipeline", "Run finished", map[string]interface{}{
		"paragraph_index": in.ParagraphIndex,
		"content_hash":    in.ContentHash,
		"failure_mode":    string(mode),
		"accepted":        len(r.Accepted),
	})
	return r
}
