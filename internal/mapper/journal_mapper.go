package mapper

import (
	"time"

	"gorm.io/gorm"

	"spark-journal-be/internal/entity"
	"spark-journal-be/internal/model"
)

type JournalMapper struct{}

func NewJournalMapper() *JournalMapper {
	return &JournalMapper{}
}

func (m *JournalMapper) ToEntity(e *model.JournalEntry) *entity.JournalEntry {
	if e == nil {
		return nil
	}

	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.JournalEntry{
		Id:        e.Id,
		Title:     e.Title,
		Content:   e.Content,
		EntryDate: e.EntryDate,
		UserId:    e.UserId,
		CreatedAt: e.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: e.DeletedAt.Valid,
	}
}

func (m *JournalMapper) ToModel(e *entity.JournalEntry) *model.JournalEntry {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	} else if e.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.JournalEntry{
		Id:        e.Id,
		Title:     e.Title,
		Content:   e.Content,
		EntryDate: e.EntryDate,
		UserId:    e.UserId,
		CreatedAt: e.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *JournalMapper) ToEntities(entries []*model.JournalEntry) []*entity.JournalEntry {
	entities := make([]*entity.JournalEntry, len(entries))
	for i, e := range entries {
		entities[i] = m.ToEntity(e)
	}
	return entities
}
