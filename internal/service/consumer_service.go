package service

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"spark-journal-be/internal/dto"
	"spark-journal-be/internal/entity"
	"spark-journal-be/internal/repository/specification"
	"spark-journal-be/internal/repository/unitofwork"
	"spark-journal-be/pkg/embedding"
	"spark-journal-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// memorySnippetLimit caps how much of a paragraph is kept as the memory
// snippet; the full chunk still goes into the embedded document.
const memorySnippetLimit = 280

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// splitParagraphs breaks entry content on blank lines; each surviving block
// becomes one observation memory.
func splitParagraphs(content string) []string {
	raw := strings.Split(content, "\n\n")
	out := make([]string, 0, len(raw))
	for _, block := range raw {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		out = append(out, block)
	}
	return out
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedMemoryMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // invalid payloads never become valid, do not retry
		return
	}

	log.Printf("[INFO] Processing memory embedding for EntryId: %s", payload.EntryId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	entry, err := uow.JournalRepository().FindOne(ctx, specification.ByID{ID: payload.EntryId})
	if err != nil {
		log.Printf("[ERROR] Failed to get entry %s: %v", payload.EntryId, err)
		msg.Nack()
		return
	}
	if entry == nil {
		log.Printf("[WARN] Entry not found, skipping: %s", payload.EntryId)
		msg.Ack()
		return
	}

	paragraphs := splitParagraphs(entry.Content)
	log.Printf("[INFO] Entry %s split into %d paragraphs", entry.Id, len(paragraphs))

	var newMemories []*entity.Memory
	var newEmbeddings []*entity.MemoryEmbedding

	for _, paragraph := range paragraphs {
		// Long paragraphs still fit the snippet budget; only the leading
		// chunk is stored as the memory text.
		chunks := utils.SplitText(paragraph, 1500, 200)

		for _, chunk := range chunks {
			res, err := cs.embeddingProvider.Generate(chunk, embedding.TaskTypeDocument)
			if err != nil {
				log.Printf("[ERROR] Failed to generate embedding for entry %s: %v", entry.Id, err)
				msg.Nack()
				return
			}

			snippet := chunk
			if len(snippet) > memorySnippetLimit {
				snippet = snippet[:memorySnippetLimit]
			}

			entryId := entry.Id
			memory := &entity.Memory{
				Id:          uuid.New(),
				UserId:      entry.UserId,
				EntryId:     &entryId,
				Snippet:     snippet,
				Kind:        entity.MemoryKindObservation,
				HopDistance: 0,
				OccurredAt:  entry.EntryDate,
				CreatedAt:   time.Now(),
			}
			newMemories = append(newMemories, memory)

			newEmbeddings = append(newEmbeddings, &entity.MemoryEmbedding{
				Id:             uuid.New(),
				Document:       chunk,
				EmbeddingValue: res.Embedding.Values,
				MemoryId:       memory.Id,
				CreatedAt:      time.Now(),
			})
		}
	}

	oldMemories, err := uow.MemoryRepository().FindAll(ctx, specification.ByEntryID{EntryID: entry.Id})
	if err != nil {
		log.Printf("[ERROR] Failed to list old memories for entry %s: %v", entry.Id, err)
		msg.Nack()
		return
	}

	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	for _, old := range oldMemories {
		if err := uow.MemoryEmbeddingRepository().DeleteByMemoryId(ctx, old.Id); err != nil {
			log.Printf("[ERROR] Failed to delete old embeddings: %v", err)
			msg.Nack()
			return
		}
	}
	if err := uow.MemoryRepository().DeleteByEntryId(ctx, entry.Id); err != nil {
		log.Printf("[ERROR] Failed to delete old memories: %v", err)
		msg.Nack()
		return
	}

	if len(newMemories) > 0 {
		if err := uow.MemoryRepository().CreateBulk(ctx, newMemories); err != nil {
			log.Printf("[ERROR] Failed to create memories: %v", err)
			msg.Nack()
			return
		}
		if err := uow.MemoryEmbeddingRepository().CreateBulk(ctx, newEmbeddings); err != nil {
			log.Printf("[ERROR] Failed to create embeddings: %v", err)
			msg.Nack()
			return
		}
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit transaction: %v", err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Entry processed: %d memories for EntryId: %s", len(newMemories), entry.Id)
	msg.Ack()
}
