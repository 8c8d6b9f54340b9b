package service

import (
	"context"
	"time"

	"spark-journal-be/internal/dto"
	"spark-journal-be/internal/entity"
	"spark-journal-be/internal/repository/unitofwork"
	"spark-journal-be/pkg/spark"

	"github.com/google/uuid"
)

type ITuningService interface {
	Get(ctx context.Context, userId uuid.UUID) (*dto.TuningResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateTuningRequest) (*dto.TuningResponse, error)
	Reset(ctx context.Context, userId uuid.UUID) error
	// Resolve returns the effective settings for a user: stored override or
	// the defaults.
	Resolve(ctx context.Context, userId uuid.UUID) (spark.TuningSettings, error)
}

type tuningService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewTuningService(uowFactory unitofwork.RepositoryFactory) ITuningService {
	return &tuningService{uowFactory: uowFactory}
}

func (s *tuningService) Resolve(ctx context.Context, userId uuid.UUID) (spark.TuningSettings, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	override, err := uow.TuningRepository().FindByUserId(ctx, userId)
	if err != nil {
		return spark.DefaultTuning(), err
	}
	if override == nil {
		return spark.DefaultTuning(), nil
	}
	return override.Settings, nil
}

func (s *tuningService) Get(ctx context.Context, userId uuid.UUID) (*dto.TuningResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	override, err := uow.TuningRepository().FindByUserId(ctx, userId)
	if err != nil {
		return nil, err
	}
	if override == nil {
		return &dto.TuningResponse{Settings: spark.DefaultTuning(), IsDefault: true}, nil
	}
	return &dto.TuningResponse{Settings: override.Settings, IsDefault: false}, nil
}

func applyTuningPatch(settings *spark.TuningSettings, req *dto.UpdateTuningRequest) {
	if req.DebounceMs != nil {
		settings.DebounceMs = *req.DebounceMs
	}
	if req.MinParagraphLength != nil {
		settings.MinParagraphLength = *req.MinParagraphLength
	}
	if req.MinParagraphWords != nil {
		settings.MinParagraphWords = *req.MinParagraphWords
	}
	if req.MinQueryGapMs != nil {
		settings.MinQueryGapMs = *req.MinQueryGapMs
	}
	if req.CooldownMs != nil {
		settings.CooldownMs = *req.CooldownMs
	}
	if req.MaxAnnotationsPer != nil {
		settings.MaxAnnotationsPer = *req.MaxAnnotationsPer
	}
	if req.MinParagraphGap != nil {
		settings.MinParagraphGap = *req.MinParagraphGap
	}
	if req.MinTopActivation != nil {
		settings.MinTopActivation = *req.MinTopActivation
	}
	if req.MinTopGap != nil {
		settings.MinTopGap = *req.MinTopGap
	}
	if req.StrongTopOverride != nil {
		settings.StrongTopOverride = *req.StrongTopOverride
	}
	if req.MaxMemoriesContext != nil {
		settings.MaxMemoriesContext = *req.MaxMemoriesContext
	}
	if req.MaxImplicationsContext != nil {
		settings.MaxImplicationsContext = *req.MaxImplicationsContext
	}
	if req.MinModelConfidence != nil {
		settings.MinModelConfidence = *req.MinModelConfidence
	}
	if req.MinOverallUtility != nil {
		settings.MinOverallUtility = *req.MinOverallUtility
	}
	if req.MinSpecificityScore != nil {
		settings.MinSpecificityScore = *req.MinSpecificityScore
	}
	if req.MinActionabilityScore != nil {
		settings.MinActionabilityScore = *req.MinActionabilityScore
	}
	if req.PersonalizationBase != nil {
		settings.PersonalizationBase = *req.PersonalizationBase
	}
	if req.FeedbackUpStep != nil {
		settings.FeedbackUpStep = *req.FeedbackUpStep
	}
	if req.FeedbackDownStep != nil {
		settings.FeedbackDownStep = *req.FeedbackDownStep
	}
	if req.PromptOverride != nil {
		settings.PromptOverride = *req.PromptOverride
	}
	if req.PromptAddendum != nil {
		settings.PromptAddendum = *req.PromptAddendum
	}
}

func (s *tuningService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateTuningRequest) (*dto.TuningResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	settings := spark.DefaultTuning()
	existing, err := uow.TuningRepository().FindByUserId(ctx, userId)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		settings = existing.Settings
	}

	applyTuningPatch(&settings, req)
	settings.Version++

	override := &entity.TuningOverride{
		Id:        uuid.New(),
		UserId:    userId,
		Settings:  settings,
		CreatedAt: time.Now(),
	}
	if existing != nil {
		override.Id = existing.Id
		override.CreatedAt = existing.CreatedAt
	}

	if err := uow.TuningRepository().Upsert(ctx, override); err != nil {
		return nil, err
	}

	return &dto.TuningResponse{Settings: settings, IsDefault: false}, nil
}

func (s *tuningService) Reset(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.TuningRepository().DeleteByUserId(ctx, userId)
}
