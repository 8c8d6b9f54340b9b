package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"spark-journal-be/internal/dto"
	"spark-journal-be/internal/entity"
	"spark-journal-be/internal/pkg/logger"
	"spark-journal-be/internal/repository/memory"
	"spark-journal-be/internal/repository/specification"
	"spark-journal-be/internal/repository/unitofwork"
	internalretrieval "spark-journal-be/internal/retrieval"
	"spark-journal-be/internal/websocket"
	"spark-journal-be/pkg/embedding"
	"spark-journal-be/pkg/events"
	"spark-journal-be/pkg/llm"
	pktNats "spark-journal-be/pkg/nats"
	"spark-journal-be/pkg/spark"
	"spark-journal-be/pkg/spark/pipeline"
	"spark-journal-be/pkg/spark/rank"
	"spark-journal-be/pkg/spark/trigger"

	"github.com/google/uuid"
)

// historyWindow is how many past nudges feed repetition and type-mix math.
const historyWindow = 3

var (
	ErrEntryNotFound          = errors.New("entry not found")
	ErrNudgeNotFound          = errors.New("nudge not found")
	ErrFeedbackReasonRequired = errors.New("down feedback requires a reason")
)

type ISparkService interface {
	// HandleParagraphEvent feeds one editor event into the entry's trigger
	// controller. Accepted nudges are delivered over the websocket hub when
	// the debounced run completes.
	HandleParagraphEvent(ctx context.Context, userId uuid.UUID, req *dto.ParagraphEditRequest) error
	Feedback(ctx context.Context, userId uuid.UUID, nudgeId uuid.UUID, req *dto.SparkFeedbackRequest) (*dto.SparkFeedbackResponse, error)
	Recent(ctx context.Context, userId uuid.UUID, entryId uuid.UUID) (*dto.RecentSparksResponse, error)
	RunTrace(ctx context.Context, userId uuid.UUID, runId uuid.UUID) (*dto.SparkRunTraceResponse, error)
}

type sparkService struct {
	uowFactory        unitofwork.RepositoryFactory
	sessions          *memory.SessionRepository
	tuningService     ITuningService
	embeddingProvider embedding.EmbeddingProvider
	llmProvider       llm.LLMProvider
	hub               *websocket.Hub
	eventPublisher    *pktNats.Publisher
	logger            logger.ILogger
}

func NewSparkService(
	uowFactory unitofwork.RepositoryFactory,
	sessions *memory.SessionRepository,
	tuningService ITuningService,
	embeddingProvider embedding.EmbeddingProvider,
	llmProvider llm.LLMProvider,
	hub *websocket.Hub,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) ISparkService {
	return &sparkService{
		uowFactory:        uowFactory,
		sessions:          sessions,
		tuningService:     tuningService,
		embeddingProvider: embeddingProvider,
		llmProvider:       llmProvider,
		hub:               hub,
		eventPublisher:    eventPublisher,
		logger:            log,
	}
}

func sessionKey(userId, entryId uuid.UUID) string {
	return userId.String() + ":" + entryId.String()
}

func (s *sparkService) HandleParagraphEvent(ctx context.Context, userId uuid.UUID, req *dto.ParagraphEditRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	entry, err := uow.JournalRepository().FindOne(ctx,
		specification.ByID{ID: req.EntryId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if entry == nil {
		return ErrEntryNotFound
	}

	key := sessionKey(userId, req.EntryId)
	ctrl, ok := s.sessions.Get(key)
	if !ok {
		tuning, err := s.tuningService.Resolve(ctx, userId)
		if err != nil {
			s.logger.Warn("SparkService", "Tuning lookup failed, using defaults", map[string]interface{}{
				"user_id": userId.String(),
				"error":   err.Error(),
			})
		}

		entryDate := entry.EntryDate
		runner := func(runCtx context.Context, inv trigger.Invocation) {
			s.executeRun(runCtx, userId, req.EntryId, entryDate, tuning, inv)
		}
		ctrl = trigger.NewController(tuning, trigger.NewRealScheduler(), runner)
		s.sessions.Save(key, ctrl)
	}

	ctrl.OnParagraphEdit(req.ParagraphIndex, req.ParagraphText)
	return nil
}

// executeRun runs the pipeline for one qualifying paragraph and persists its
// trace. Runs on the trigger controller's goroutine; runCtx is cancelled if a
// newer paragraph supersedes this run.
func (s *sparkService) executeRun(runCtx context.Context, userId, entryId uuid.UUID, entryDate time.Time, tuning spark.TuningSettings, inv trigger.Invocation) {
	uow := s.uowFactory.NewUnitOfWork(runCtx)

	history, err := s.loadHistory(runCtx, uow, userId)
	if err != nil {
		s.logger.Error("SparkService", "Failed to load nudge history", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
		return
	}

	feedback, err := s.loadFeedback(runCtx, uow, userId)
	if err != nil {
		s.logger.Error("SparkService", "Failed to load feedback", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
		return
	}

	retriever := internalretrieval.NewStoreRetriever(s.uowFactory, s.embeddingProvider, userId, tuning)
	executor := pipeline.NewExecutor(retriever, s.llmProvider, s.logger)

	result, err := executor.Run(runCtx, pipeline.Input{
		Paragraph:      inv.Text,
		ParagraphIndex: inv.ParagraphIndex,
		ContentHash:    inv.ContentHash,
		EntryDate:      entryDate,
		Tuning:         tuning,
		History:        history,
		Feedback:       feedback,
	})
	if err != nil {
		// Only cancellation reaches here; a newer paragraph owns the session.
		s.logger.Debug("SparkService", "Pipeline run superseded", map[string]interface{}{
			"user_id":  userId.String(),
			"entry_id": entryId.String(),
			"error":    err.Error(),
		})
		return
	}

	run := buildRunRecord(userId, entryId, inv, result)

	nudges := make([]*entity.SparkNudge, 0, len(result.Accepted))
	for _, candidate := range result.Accepted {
		nudges = append(nudges, candidateToNudge(userId, entryId, run.Id, inv, candidate))
	}

	if err := s.persistRun(runCtx, run, nudges); err != nil {
		s.logger.Error("SparkService", "Failed to persist run", map[string]interface{}{
			"run_id": run.Id.String(),
			"error":  err.Error(),
		})
		return
	}

	if len(nudges) == 0 {
		return
	}

	key := sessionKey(userId, entryId)
	if ctrl, ok := s.sessions.Get(key); ok {
		ctrl.NoteAccepted(inv.ParagraphIndex, len(nudges))
	}

	responses := make([]dto.SparkNudgeResponse, 0, len(nudges))
	for _, nudge := range nudges {
		responses = append(responses, toNudgeResponse(nudge))
	}

	if s.hub != nil {
		s.hub.Send(userId, "spark_nudges", dto.RecentSparksResponse{
			EntryId: entryId,
			Nudges:  responses,
		})
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "SPARK_ACCEPTED",
			Data: map[string]interface{}{
				"user_id":  userId,
				"entry_id": entryId,
				"run_id":   run.Id,
				"count":    len(nudges),
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(runCtx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish SPARK_ACCEPTED event: %v\n", err)
		}
	}
}

func (s *sparkService) loadHistory(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) ([]spark.HistoricalNudge, error) {
	recent, err := uow.SparkNudgeRepository().FindRecentByUser(ctx, userId, historyWindow)
	if err != nil {
		return nil, err
	}
	history := make([]spark.HistoricalNudge, 0, len(recent))
	for _, nudge := range recent {
		history = append(history, spark.HistoricalNudge{
			Type:             nudge.Type,
			EvidenceMemoryId: nudge.EvidenceMemoryId,
			Hook:             nudge.Hook,
		})
	}
	return history, nil
}

func (s *sparkService) loadFeedback(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) ([]rank.FeedbackSignal, error) {
	rows, err := uow.SparkFeedbackRepository().FindAllByUser(ctx, userId)
	if err != nil {
		return nil, err
	}
	signals := make([]rank.FeedbackSignal, 0, len(rows))
	for _, row := range rows {
		signals = append(signals, rank.FeedbackSignal{
			Type:   row.NudgeType,
			Value:  string(row.Value),
			Reason: row.Reason,
		})
	}
	return signals, nil
}

func buildRunRecord(userId, entryId uuid.UUID, inv trigger.Invocation, result *pipeline.Result) *entity.SparkRun {
	timings := make(map[string]int64, len(result.Timings))
	for _, t := range result.Timings {
		timings[t.Stage] = t.DurationMs
	}

	rejections := make(map[string]int, len(result.FilterRejects)+len(result.GateRejections))
	for mode, count := range result.FilterRejects {
		rejections[string(mode)] = count
	}
	for reason, count := range result.GateRejections {
		rejections[string(reason)] = count
	}

	return &entity.SparkRun{
		Id:              uuid.New(),
		UserId:          userId,
		EntryId:         entryId,
		ParagraphIndex:  inv.ParagraphIndex,
		ContentHash:     inv.ContentHash,
		FailureMode:     result.FailureMode,
		AcceptedCount:   len(result.Accepted),
		TotalCandidates: result.Summary.TotalCandidates,
		TopScore:        result.Summary.TopScore,
		SecondScore:     result.Summary.SecondScore,
		StageTimings:    timings,
		Rejections:      rejections,
		CreatedAt:       time.Now(),
	}
}

func candidateToNudge(userId, entryId, runId uuid.UUID, inv trigger.Invocation, c spark.JudgedCandidate) *entity.SparkNudge {
	return &entity.SparkNudge{
		Id:             uuid.New(),
		UserId:         userId,
		EntryId:        entryId,
		RunId:          runId,
		ParagraphIndex: inv.ParagraphIndex,
		ContentHash:    inv.ContentHash,

		Type:         c.Type,
		Hook:         c.Hook,
		WhyNow:       c.WhyNow,
		ActionPrompt: c.ActionPrompt,

		EvidenceMemoryId:      c.EvidenceMemoryId,
		EvidenceMemoryDate:    c.EvidenceMemoryDate,
		EvidenceMemorySnippet: c.EvidenceMemorySnippet,

		ModelConfidence:    c.ModelConfidence,
		RetrievalStrength:  c.RetrievalStrengthNormalized,
		TensionScore:       c.TensionScore,
		ActionabilityScore: c.ActionabilityScore,
		NoveltyScore:       c.NoveltyScore,
		SpecificityScore:   c.SpecificityScore,
		OverallUtility:     c.OverallUtility,
		RankScore:          c.RankScore,

		CreatedAt: time.Now(),
	}
}

func (s *sparkService) persistRun(ctx context.Context, run *entity.SparkRun, nudges []*entity.SparkNudge) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.SparkRunRepository().Create(ctx, run); err != nil {
		return err
	}
	if len(nudges) > 0 {
		if err := uow.SparkNudgeRepository().CreateBulk(ctx, nudges); err != nil {
			return err
		}
	}

	return uow.Commit()
}

func toNudgeResponse(n *entity.SparkNudge) dto.SparkNudgeResponse {
	anchor := dto.EvidenceAnchorDTO{
		MemoryId:     n.EvidenceMemoryId,
		SnippetQuote: n.EvidenceMemorySnippet,
	}
	if n.EvidenceMemoryDate != nil {
		anchor.EntryDate = n.EvidenceMemoryDate.Format("2006-01-02")
	}

	return dto.SparkNudgeResponse{
		Id:             n.Id,
		NudgeType:      string(n.Type),
		Hook:           n.Hook,
		WhyNow:         n.WhyNow,
		ActionPrompt:   n.ActionPrompt,
		ParagraphIndex: n.ParagraphIndex,

		Evidence: anchor,

		ModelConfidence:    n.ModelConfidence,
		RetrievalStrength:  n.RetrievalStrength,
		TensionScore:       n.TensionScore,
		ActionabilityScore: n.ActionabilityScore,
		NoveltyScore:       n.NoveltyScore,
		SpecificityScore:   n.SpecificityScore,
		OverallUtility:     n.OverallUtility,
		RankScore:          n.RankScore,

		CreatedAt: n.CreatedAt,
	}
}

func (s *sparkService) Feedback(ctx context.Context, userId uuid.UUID, nudgeId uuid.UUID, req *dto.SparkFeedbackRequest) (*dto.SparkFeedbackResponse, error) {
	// A down-vote without its why is unusable for personalization; reject
	// before anything is stored.
	if req.Value == string(entity.FeedbackDown) && req.Reason == "" {
		return nil, ErrFeedbackReasonRequired
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	nudge, err := uow.SparkNudgeRepository().FindOne(ctx,
		specification.ByID{ID: nudgeId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if nudge == nil {
		return nil, ErrNudgeNotFound
	}

	// Reasons only qualify down-votes.
	reason := req.Reason
	if req.Value == string(entity.FeedbackUp) {
		reason = ""
	}

	feedback := &entity.SparkFeedback{
		Id:        uuid.New(),
		NudgeId:   nudge.Id,
		UserId:    userId,
		NudgeType: nudge.Type,
		Value:     entity.FeedbackValue(req.Value),
		Reason:    reason,
		CreatedAt: time.Now(),
	}

	if err := uow.SparkFeedbackRepository().Upsert(ctx, feedback); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "SPARK_FEEDBACK",
			Data: map[string]interface{}{
				"user_id":    userId,
				"nudge_id":   nudge.Id,
				"nudge_type": string(nudge.Type),
				"value":      req.Value,
				"reason":     reason,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish SPARK_FEEDBACK event: %v\n", err)
		}
	}

	return &dto.SparkFeedbackResponse{
		NudgeId: nudge.Id,
		Value:   req.Value,
		Reason:  reason,
	}, nil
}

func (s *sparkService) Recent(ctx context.Context, userId uuid.UUID, entryId uuid.UUID) (*dto.RecentSparksResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	nudges, err := uow.SparkNudgeRepository().FindAll(ctx,
		specification.ByEntryID{EntryID: entryId},
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: 20},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.SparkNudgeResponse, 0, len(nudges))
	for _, nudge := range nudges {
		responses = append(responses, toNudgeResponse(nudge))
	}

	return &dto.RecentSparksResponse{
		EntryId: entryId,
		Nudges:  responses,
	}, nil
}

func (s *sparkService) RunTrace(ctx context.Context, userId uuid.UUID, runId uuid.UUID) (*dto.SparkRunTraceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	run, err := uow.SparkRunRepository().FindOne(ctx,
		specification.ByID{ID: runId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, nil
	}

	return &dto.SparkRunTraceResponse{
		RunId:           run.Id,
		EntryId:         run.EntryId,
		ParagraphIndex:  run.ParagraphIndex,
		FailureMode:     string(run.FailureMode),
		AcceptedCount:   run.AcceptedCount,
		TotalCandidates: run.TotalCandidates,
		TopScore:        run.TopScore,
		SecondScore:     run.SecondScore,
		StageTimings:    run.StageTimings,
		Rejections:      run.Rejections,
		CreatedAt:       run.CreatedAt,
	}, nil
}
