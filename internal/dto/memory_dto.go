package dto

import (
	"time"

	"github.com/google/uuid"
)

// PublishEmbedMemoryMessage is the payload queued when an entry's memories
// need re-embedding.
type PublishEmbedMemoryMessage struct {
	EntryId uuid.UUID `json:"entry_id"`
}

type CreateMemoryRequest struct {
	EntryId     *uuid.UUID `json:"entry_id"`
	Snippet     string     `json:"snippet" validate:"required,min=3"`
	Kind        string     `json:"kind" validate:"required,oneof=observation implication"`
	HopDistance int        `json:"hop_distance" validate:"min=0,max=3"`
	OccurredAt  string     `json:"occurred_at" validate:"required,datetime=2006-01-02"`
}

type MemoryResponse struct {
	Id          uuid.UUID  `json:"id"`
	EntryId     *uuid.UUID `json:"entry_id,omitempty"`
	Snippet     string     `json:"snippet"`
	Kind        string     `json:"kind"`
	HopDistance int        `json:"hop_distance"`
	OccurredAt  string     `json:"occurred_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

type SearchMemoriesRequest struct {
	Query     string  `json:"query" validate:"required,min=2"`
	Limit     int     `json:"limit" validate:"omitempty,min=1,max=50"`
	Threshold float64 `json:"threshold" validate:"omitempty,min=0,max=1"`
}

type ScoredMemoryResponse struct {
	Memory     MemoryResponse `json:"memory"`
	Similarity float64        `json:"similarity"`
}
