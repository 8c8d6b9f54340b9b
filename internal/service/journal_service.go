package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"spark-journal-be/internal/dto"
	"spark-journal-be/internal/entity"
	"spark-journal-be/internal/repository/specification"
	"spark-journal-be/internal/repository/unitofwork"
	"spark-journal-be/pkg/events"
	pktNats "spark-journal-be/pkg/nats"

	"github.com/google/uuid"
)

type IJournalService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateJournalEntryRequest) (*dto.JournalEntryResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.JournalEntryResponse, error)
	Update(ctx context.Context, userId uuid.UUID, id uuid.UUID, req *dto.UpdateJournalEntryRequest) (*dto.JournalEntryResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	List(ctx context.Context, userId uuid.UUID, page, limit int) (*dto.ListJournalEntriesResponse, error)
}

type journalService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
}

func NewJournalService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
) IJournalService {
	return &journalService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
	}
}

func (s *journalService) queueEmbedding(ctx context.Context, entryId uuid.UUID) error {
	payload, err := json.Marshal(dto.PublishEmbedMemoryMessage{EntryId: entryId})
	if err != nil {
		return err
	}
	return s.publisherService.Publish(ctx, payload)
}

func toJournalResponse(e *entity.JournalEntry) *dto.JournalEntryResponse {
	res := &dto.JournalEntryResponse{
		Id:        e.Id,
		Title:     e.Title,
		Content:   e.Content,
		EntryDate: e.EntryDate.Format("2006-01-02"),
		CreatedAt: e.CreatedAt,
	}
	if e.UpdatedAt != nil {
		res.UpdatedAt = *e.UpdatedAt
	}
	return res
}

func (s *journalService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateJournalEntryRequest) (*dto.JournalEntryResponse, error) {
	entryDate, err := time.Parse("2006-01-02", req.EntryDate)
	if err != nil {
		return nil, errors.New("entry_date must be YYYY-MM-DD")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	entry := entity.JournalEntry{
		Id:        uuid.New(),
		Title:     req.Title,
		Content:   req.Content,
		EntryDate: entryDate,
		UserId:    userId,
		CreatedAt: time.Now(),
	}

	if err := uow.JournalRepository().Create(ctx, &entry); err != nil {
		return nil, err
	}

	if err := s.queueEmbedding(ctx, entry.Id); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "ENTRY_CREATED",
			Data: map[string]interface{}{
				"title":    entry.Title,
				"entry_id": entry.Id,
				"user_id":  userId,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish ENTRY_CREATED event: %v\n", err)
		}
	}

	return toJournalResponse(&entry), nil
}

func (s *journalService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.JournalEntryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	entry, err := uow.JournalRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}
	return toJournalResponse(entry), nil
}

func (s *journalService) Update(ctx context.Context, userId uuid.UUID, id uuid.UUID, req *dto.UpdateJournalEntryRequest) (*dto.JournalEntryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	entry, err := uow.JournalRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}

	now := time.Now()
	if req.Title != nil {
		entry.Title = *req.Title
	}
	if req.Content != nil {
		entry.Content = *req.Content
	}
	entry.UpdatedAt = &now

	if err := uow.JournalRepository().Update(ctx, entry); err != nil {
		return nil, err
	}

	// Content changes invalidate the stored memories for this entry.
	if req.Content != nil {
		if err := s.queueEmbedding(ctx, entry.Id); err != nil {
			return nil, err
		}
	}

	return toJournalResponse(entry), nil
}

func (s *journalService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	entry, err := uow.JournalRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if entry == nil {
		return nil
	}

	memories, err := uow.MemoryRepository().FindAll(ctx, specification.ByEntryID{EntryID: id})
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.JournalRepository().Delete(ctx, id); err != nil {
		return err
	}

	for _, memory := range memories {
		if err := uow.MemoryEmbeddingRepository().DeleteByMemoryId(ctx, memory.Id); err != nil {
			return err
		}
	}

	if err := uow.MemoryRepository().DeleteByEntryId(ctx, id); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *journalService) List(ctx context.Context, userId uuid.UUID, page, limit int) (*dto.ListJournalEntriesResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	total, err := uow.JournalRepository().Count(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}

	entries, err := uow.JournalRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "entry_date", Desc: true},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)
	if err != nil {
		return nil, err
	}

	items := make([]dto.JournalEntryListItem, 0, len(entries))
	for _, entry := range entries {
		preview := entry.Content
		if len(preview) > 160 {
			preview = preview[:160]
		}
		items = append(items, dto.JournalEntryListItem{
			Id:        entry.Id,
			Title:     entry.Title,
			EntryDate: entry.EntryDate.Format("2006-01-02"),
			Preview:   preview,
			CreatedAt: entry.CreatedAt,
		})
	}

	return &dto.ListJournalEntriesResponse{
		Entries: items,
		Total:   total,
		Page:    page,
		Limit:   limit,
	}, nil
}
