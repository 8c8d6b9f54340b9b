package mapper

import (
	"time"

	"gorm.io/gorm"

	"spark-journal-be/internal/entity"
	"spark-journal-be/internal/model"
)

type MemoryMapper struct{}

func NewMemoryMapper() *MemoryMapper {
	return &MemoryMapper{}
}

func (m *MemoryMapper) ToEntity(mem *model.Memory) *entity.Memory {
	if mem == nil {
		return nil
	}

	var deletedAt *time.Time
	if mem.DeletedAt.Valid {
		t := mem.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !mem.UpdatedAt.IsZero() {
		t := mem.UpdatedAt
		updatedAt = &t
	}

	return &entity.Memory{
		Id:          mem.Id,
		UserId:      mem.UserId,
		EntryId:     mem.EntryId,
		Snippet:     mem.Snippet,
		Kind:        entity.MemoryKind(mem.Kind),
		HopDistance: mem.HopDistance,
		OccurredAt:  mem.OccurredAt,
		CreatedAt:   mem.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
		IsDeleted:   mem.DeletedAt.Valid,
	}
}

func (m *MemoryMapper) ToModel(mem *entity.Memory) *model.Memory {
	if mem == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if mem.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *mem.DeletedAt, Valid: true}
	} else if mem.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if mem.UpdatedAt != nil {
		updatedAt = *mem.UpdatedAt
	}

	return &model.Memory{
		Id:          mem.Id,
		UserId:      mem.UserId,
		EntryId:     mem.EntryId,
		Snippet:     mem.Snippet,
		Kind:        string(mem.Kind),
		HopDistance: mem.HopDistance,
		OccurredAt:  mem.OccurredAt,
		CreatedAt:   mem.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
	}
}

func (m *MemoryMapper) ToEntities(memories []*model.Memory) []*entity.Memory {
	entities := make([]*entity.Memory, len(memories))
	for i, mem := range memories {
		entities[i] = m.ToEntity(mem)
	}
	return entities
}
