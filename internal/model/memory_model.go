package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type Memory struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId      uuid.UUID      `gorm:"type:uuid;not null;index"`
	EntryId     *uuid.UUID     `gorm:"type:uuid;index"`
	Snippet     string         `gorm:"type:text;not null"`
	Kind        string         `gorm:"type:varchar(50);not null;default:'observation'"`
	HopDistance int            `gorm:"default:0"`
	OccurredAt  time.Time      `gorm:"type:date;not null;index"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (Memory) TableName() string {
	return "memories"
}

type MemoryEmbedding struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Document       string          `gorm:"type:text"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"` // text-embedding-004 and nomic-embed-text both emit 768 dims
	MemoryId       uuid.UUID       `gorm:"type:uuid;not null;index"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt  `gorm:"index"`
}

func (MemoryEmbedding) TableName() string {
	return "memory_embeddings"
}
