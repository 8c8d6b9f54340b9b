package service

import (
	"context"
	"errors"
	"time"

	"spark-journal-be/internal/dto"
	"spark-journal-be/internal/entity"
	"spark-journal-be/internal/repository/specification"
	"spark-journal-be/internal/repository/unitofwork"
	"spark-journal-be/pkg/embedding"

	"github.com/google/uuid"
)

type IMemoryService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateMemoryRequest) (*dto.MemoryResponse, error)
	Search(ctx context.Context, userId uuid.UUID, req *dto.SearchMemoriesRequest) ([]*dto.ScoredMemoryResponse, error)
}

type memoryService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
}

func NewMemoryService(uowFactory unitofwork.RepositoryFactory, embeddingProvider embedding.EmbeddingProvider) IMemoryService {
	return &memoryService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
	}
}

func toMemoryResponse(m *entity.Memory) dto.MemoryResponse {
	return dto.MemoryResponse{
		Id:          m.Id,
		EntryId:     m.EntryId,
		Snippet:     m.Snippet,
		Kind:        string(m.Kind),
		HopDistance: m.HopDistance,
		OccurredAt:  m.OccurredAt.Format("2006-01-02"),
		CreatedAt:   m.CreatedAt,
	}
}

func (s *memoryService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateMemoryRequest) (*dto.MemoryResponse, error) {
	occurredAt, err := time.Parse("2006-01-02", req.OccurredAt)
	if err != nil {
		return nil, errors.New("occurred_at must be YYYY-MM-DD")
	}

	embeddingRes, err := s.embeddingProvider.Generate(req.Snippet, embedding.TaskTypeDocument)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	memory := entity.Memory{
		Id:          uuid.New(),
		UserId:      userId,
		EntryId:     req.EntryId,
		Snippet:     req.Snippet,
		Kind:        entity.MemoryKind(req.Kind),
		HopDistance: req.HopDistance,
		OccurredAt:  occurredAt,
		CreatedAt:   time.Now(),
	}

	memoryEmbedding := entity.MemoryEmbedding{
		Id:             uuid.New(),
		Document:       req.Snippet,
		EmbeddingValue: embeddingRes.Embedding.Values,
		MemoryId:       memory.Id,
		CreatedAt:      time.Now(),
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.MemoryRepository().Create(ctx, &memory); err != nil {
		return nil, err
	}
	if err := uow.MemoryEmbeddingRepository().Create(ctx, &memoryEmbedding); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	res := toMemoryResponse(&memory)
	return &res, nil
}

func (s *memoryService) Search(ctx context.Context, userId uuid.UUID, req *dto.SearchMemoriesRequest) ([]*dto.ScoredMemoryResponse, error) {
	limit := req.Limit
	if limit == 0 {
		limit = 10
	}
	threshold := req.Threshold
	if threshold == 0 {
		threshold = 0.35
	}

	embeddingRes, err := s.embeddingProvider.Generate(req.Query, embedding.TaskTypeQuery)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	scored, err := uow.MemoryEmbeddingRepository().SearchSimilarWithScore(ctx, embeddingRes.Embedding.Values, limit, userId, threshold)
	if err != nil {
		return nil, err
	}
	if len(scored) == 0 {
		return []*dto.ScoredMemoryResponse{}, nil
	}

	ids := make([]uuid.UUID, 0, len(scored))
	scoreMap := make(map[uuid.UUID]float64, len(scored))
	for _, sr := range scored {
		if _, seen := scoreMap[sr.Embedding.MemoryId]; seen {
			continue
		}
		ids = append(ids, sr.Embedding.MemoryId)
		scoreMap[sr.Embedding.MemoryId] = sr.Similarity
	}

	memories, err := uow.MemoryRepository().FindAll(ctx,
		specification.ByIDs{IDs: ids},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}

	byId := make(map[uuid.UUID]*entity.Memory, len(memories))
	for _, m := range memories {
		byId[m.Id] = m
	}

	// Preserve similarity order from the vector search.
	response := make([]*dto.ScoredMemoryResponse, 0, len(ids))
	for _, id := range ids {
		memory, ok := byId[id]
		if !ok {
			continue
		}
		response = append(response, &dto.ScoredMemoryResponse{
			Memory:     toMemoryResponse(memory),
			Similarity: scoreMap[id],
		})
	}

	return response, nil
}
