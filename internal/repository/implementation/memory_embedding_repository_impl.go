package implementation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"spark-journal-be/internal/entity"
	"spark-journal-be/internal/mapper"
	"spark-journal-be/internal/model"
	"spark-journal-be/internal/repository/contract"
	"spark-journal-be/internal/repository/specification"
)

type MemoryEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MemoryEmbeddingMapper
}

func NewMemoryEmbeddingRepository(db *gorm.DB) contract.MemoryEmbeddingRepository {
	return &MemoryEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewMemoryEmbeddingMapper(),
	}
}

func (r *MemoryEmbeddingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *MemoryEmbeddingRepositoryImpl) Create(ctx context.Context, embedding *entity.MemoryEmbedding) error {
	m := r.mapper.ToModel(embedding)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*embedding = *r.mapper.ToEntity(m)
	return nil
}

func (r *MemoryEmbeddingRepositoryImpl) CreateBulk(ctx context.Context, embeddings []*entity.MemoryEmbedding) error {
	if len(embeddings) == 0 {
		return nil
	}
	models := make([]*model.MemoryEmbedding, len(embeddings))
	for i, e := range embeddings {
		models[i] = r.mapper.ToModel(e)
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*embeddings[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *MemoryEmbeddingRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.MemoryEmbedding{}, id).Error
}

func (r *MemoryEmbeddingRepositoryImpl) DeleteByMemoryId(ctx context.Context, memoryId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("memory_id = ?", memoryId).Delete(&model.MemoryEmbedding{}).Error
}

func (r *MemoryEmbeddingRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MemoryEmbedding, error) {
	var m model.MemoryEmbedding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *MemoryEmbeddingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MemoryEmbedding, error) {
	var models []*model.MemoryEmbedding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.MemoryEmbedding, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *MemoryEmbeddingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.MemoryEmbedding{}), specs...)
	err := query.Count(&count).Error
	return count, err
}

// SearchSimilarWithScore runs the pgvector cosine query scoped to one user.
// Cosine distance is 1 - cosine_similarity, so similarity = 1 - (a <=> b).
func (r *MemoryEmbeddingRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, userId uuid.UUID, threshold float64) ([]*contract.ScoredMemoryEmbedding, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.MemoryEmbedding
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("memory_embeddings").
		Select("memory_embeddings.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Joins("JOIN memories ON memories.id = memory_embeddings.memory_id").
		Where("memories.user_id = ?", userId).
		Where("memory_embeddings.deleted_at IS NULL").
		Where("memories.deleted_at IS NULL").
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredMemoryEmbedding, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredMemoryEmbedding{
			Embedding:  r.mapper.ToEntity(&res.MemoryEmbedding),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
