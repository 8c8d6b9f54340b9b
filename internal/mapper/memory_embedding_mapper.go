package mapper

import (
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"spark-journal-be/internal/entity"
	"spark-journal-be/internal/model"
)

type MemoryEmbeddingMapper struct{}

func NewMemoryEmbeddingMapper() *MemoryEmbeddingMapper {
	return &MemoryEmbeddingMapper{}
}

func (m *MemoryEmbeddingMapper) ToEntity(e *model.MemoryEmbedding) *entity.MemoryEmbedding {
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

	return &entity.MemoryEmbedding{
		Id:             e.Id,
		Document:       e.Document,
		EmbeddingValue: e.EmbeddingValue.Slice(),
		MemoryId:       e.MemoryId,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
		IsDeleted:      e.DeletedAt.Valid,
	}
}

func (m *MemoryEmbeddingMapper) ToModel(e *entity.MemoryEmbedding) *model.MemoryEmbedding {
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

	return &model.MemoryEmbedding{
		Id:             e.Id,
		Document:       e.Document,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		MemoryId:       e.MemoryId,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
	}
}
