package retrieval

import (
	"context"

	"spark-journal-be/internal/entity"
	"spark-journal-be/internal/repository/specification"
	"spark-journal-be/internal/repository/unitofwork"
	"spark-journal-be/pkg/embedding"
	"spark-journal-be/pkg/spark"
	sparkretrieval "spark-journal-be/pkg/spark/retrieval"

	"github.com/google/uuid"
)

// similarityFloor keeps barely-related memories out of the candidate set
// before the clear-signal check even runs.
const similarityFloor = 0.2

// StoreRetriever answers pipeline retrieval queries from the pgvector memory
// store. One instance is bound to one user.
type StoreRetriever struct {
	uowFactory unitofwork.RepositoryFactory
	provider   embedding.EmbeddingProvider
	userId     uuid.UUID
	tuning     spark.TuningSettings
}

func NewStoreRetriever(
	uowFactory unitofwork.RepositoryFactory,
	provider embedding.EmbeddingProvider,
	userId uuid.UUID,
	tuning spark.TuningSettings,
) *StoreRetriever {
	return &StoreRetriever{
		uowFactory: uowFactory,
		provider:   provider,
		userId:     userId,
		tuning:     tuning,
	}
}

func (r *StoreRetriever) Retrieve(ctx context.Context, queryText string, maxMemories, maxImplications int) (*sparkretrieval.Result, error) {
	res, err := r.provider.Generate(queryText, embedding.TaskTypeQuery)
	if err != nil {
		return nil, err
	}

	uow := r.uowFactory.NewUnitOfWork(ctx)

	// Over-fetch so implications filtered by their own cap do not starve the
	// memory slots.
	limit := (maxMemories + maxImplications) * 2
	scored, err := uow.MemoryEmbeddingRepository().SearchSimilarWithScore(ctx, res.Embedding.Values, limit, r.userId, similarityFloor)
	if err != nil {
		return nil, err
	}

	if len(scored) == 0 {
		return &sparkretrieval.Result{
			Summary: sparkretrieval.Summarize(nil, r.tuning),
		}, nil
	}

	ids := make([]uuid.UUID, 0, len(scored))
	scoreByMemory := make(map[uuid.UUID]float64, len(scored))
	for _, sr := range scored {
		if _, ok := scoreByMemory[sr.Embedding.MemoryId]; ok {
			continue
		}
		ids = append(ids, sr.Embedding.MemoryId)
		scoreByMemory[sr.Embedding.MemoryId] = sr.Similarity
	}

	memories, err := uow.MemoryRepository().FindAll(ctx,
		specification.ByIDs{IDs: ids},
		specification.UserOwnedBy{UserID: r.userId},
	)
	if err != nil {
		return nil, err
	}

	memoryById := make(map[uuid.UUID]int, len(memories))
	for i, m := range memories {
		memoryById[m.Id] = i
	}

	evidence := make([]spark.EvidenceItem, 0, len(ids))
	memoryCount, implicationCount := 0, 0

	// Walk in similarity order so the caps keep the strongest of each kind.
	for _, id := range ids {
		idx, ok := memoryById[id]
		if !ok {
			continue
		}
		memory := memories[idx]

		isImplication := memory.Kind == entity.MemoryKindImplication
		if isImplication {
			if implicationCount >= maxImplications {
				continue
			}
			implicationCount++
		} else {
			if memoryCount >= maxMemories {
				continue
			}
			memoryCount++
		}

		score := scoreByMemory[id]
		if score < 0 {
			score = 0
		}
		if score > 1 {
			score = 1
		}

		evidence = append(evidence, spark.EvidenceItem{
			Id:              memory.Id,
			Snippet:         memory.Snippet,
			Date:            memory.OccurredAt,
			ActivationScore: score,
			HopDistance:     memory.HopDistance,
			IsImplication:   isImplication,
		})
	}

	return &sparkretrieval.Result{
		Evidence: evidence,
		Summary:  sparkretrieval.Summarize(evidence, r.tuning),
	}, nil
}
