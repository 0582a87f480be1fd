package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"decipher-research-be/internal/config"
	"decipher-research-be/internal/dto"
	"decipher-research-be/internal/entity"
	"decipher-research-be/internal/repository/specification"
	"decipher-research-be/internal/repository/unitofwork"
	"decipher-research-be/pkg/embedding"
	"decipher-research-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService embeds source documents in the background. It chunks the
// source content, generates one vector per chunk, and replaces the source's
// stored embeddings atomically.
type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	researchCfg       config.ResearchConfig
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	researchCfg config.ResearchConfig,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		researchCfg:       researchCfg,
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

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedSourceMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing source embedding for SourceId: %s", payload.SourceId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	source, err := uow.SourceRepository().FindOne(ctx, specification.ByID{ID: payload.SourceId})
	if err != nil {
		log.Printf("[ERROR] Failed to get source %s: %v", payload.SourceId, err)
		msg.Nack()
		return
	}
	if source == nil {
		log.Printf("[ERROR] Source not found: %s", payload.SourceId)
		msg.Ack() // Source deleted? Ack.
		return
	}

	content := fmt.Sprintf(`Page Title: %s
URL: %s

%s`,
		source.PageTitle,
		source.URL,
		source.Content,
	)

	log.Printf("[INFO] Generating embeddings for source %s (content length: %d)", payload.SourceId, len(content))

	chunks := utils.SplitWords(content, cs.researchCfg.ChunkSize, cs.researchCfg.ChunkOverlap)
	log.Printf("[INFO] Content split into %d chunks", len(chunks))

	var newEmbeddings []*entity.SourceEmbedding

	for i, chunk := range chunks {
		res, err := cs.embeddingProvider.Generate(chunk, embedding.TaskRetrievalDocument)
		if err != nil {
			log.Printf("[ERROR] Failed to generate embedding for chunk %d of source %s: %v", i, payload.SourceId, err)
			msg.Nack()
			return
		}

		newEmbeddings = append(newEmbeddings, &entity.SourceEmbedding{
			Id:             uuid.New(),
			SourceId:       source.Id,
			ChunkIndex:     i,
			TotalChunks:    len(chunks),
			Document:       chunk,
			EmbeddingValue: res.Embedding.Values,
			CreatedAt:      time.Now(),
		})
	}

	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	if err := uow.SourceEmbeddingRepository().DeleteBySourceId(ctx, source.Id); err != nil {
		log.Printf("[ERROR] Failed to delete old embeddings: %v", err)
		msg.Nack()
		return
	}

	if len(newEmbeddings) > 0 {
		if err := uow.SourceEmbeddingRepository().CreateBulk(ctx, newEmbeddings); err != nil {
			log.Printf("[ERROR] Failed to create bulk embeddings: %v", err)
			msg.Nack()
			return
		}
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit transaction: %v", err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Source processed: %d chunks for SourceId: %s", len(newEmbeddings), payload.SourceId)
	msg.Ack()
}
