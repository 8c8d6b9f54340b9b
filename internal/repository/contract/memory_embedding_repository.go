package contract

import (
	"context"

	"github.com/google/uuid"

	"spark-journal-be/internal/entity"
	"spark-journal-be/internal/repository/specification"
)

// ScoredMemoryEmbedding wraps MemoryEmbedding with its cosine similarity to
// the query vector.
type ScoredMemoryEmbedding struct {
	Embedding  *entity.MemoryEmbedding
	Similarity float64 // 0.0 to 1.0
}

type MemoryEmbeddingRepository interface {
	Create(ctx context.Context, embedding *entity.MemoryEmbedding) error
	CreateBulk(ctx context.Context, embeddings []*entity.MemoryEmbedding) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByMemoryId(ctx context.Context, memoryId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MemoryEmbedding, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MemoryEmbedding, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore returns embeddings with their similarity scores,
	// filtered by threshold and scoped to one user's live memories.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, userId uuid.UUID, threshold float64) ([]*ScoredMemoryEmbedding, error)
}
