package entity

import (
	"time"

	"github.com/google/uuid"
)

type MemoryKind string

const (
	MemoryKindObservation MemoryKind = "observation"
	MemoryKindImplication MemoryKind = "implication"
)

// Memory is one extracted long-term memory of a user. Observations come
// straight from journal text; implications are derived and carry a hop
// distance from their source observation.
// MemoryEmbedding is the pgvector row behind semantic retrieval. One row per
// memory; snippets are short enough not to need chunking.
type MemoryEmbedding struct {
	Id             uuid.UUID
	Document       string
	EmbeddingValue []float32
	MemoryId       uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}

type Memory struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	EntryId     *uuid.UUID
	Snippet     string
	Kind        MemoryKind
	HopDistance int
	OccurredAt  time.Time
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}
