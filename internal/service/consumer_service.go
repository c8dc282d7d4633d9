// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"support-agent-be/internal/dto"
	"support-agent-be/internal/entity"
	"support-agent-be/internal/repository/specification"
	"support-agent-be/internal/repository/unitofwork"
	"support-agent-be/pkg/agent/metrics"
	"support-agent-be/pkg/embedding"
	"support-agent-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the two background queues: article embedding jobs
// and exchange metric jobs.
type consumerService struct {
	pubSub            *gochannel.GoChannel
	embedTopic        string
	metricsTopic      string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	recorder          *metrics.Recorder
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	embedTopic string,
	metricsTopic string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	recorder *metrics.Recorder,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		embedTopic:        embedTopic,
		metricsTopic:      metricsTopic,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		recorder:          recorder,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	embedMessages, err := cs.pubSub.Subscribe(ctx, cs.embedTopic)
	if err != nil {
		return err
	}
	metricMessages, err := cs.pubSub.Subscribe(ctx, cs.metricsTopic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range embedMessages {
			cs.processEmbedJob(ctx, msg)
		}
	}()

	go func() {
		for msg := range metricMessages {
			cs.processMetricsJob(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processEmbedJob(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedArticleMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal embed job: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing embedding for ArticleId: %s", payload.ArticleId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	article, err := uow.KBArticleRepository().FindOne(ctx, specification.ByID{ID: payload.ArticleId})
	if err != nil {
		log.Printf("[ERROR] Failed to get article %s: %v", payload.ArticleId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if article == nil {
		log.Printf("[ERROR] Article not found: %s", payload.ArticleId)
		msg.Ack() // Article deleted? Ack.
		return
	}

	articleUpdatedAt := "-"
	if article.UpdatedAt != nil {
		articleUpdatedAt = article.UpdatedAt.Format(time.RFC3339)
	}

	content := fmt.Sprintf(`Article Title: %s
Category: %s

%s

Created At: %s
Updated At: %s`,
		article.Title,
		article.Category,
		article.Content,
		article.CreatedAt.Format(time.RFC3339),
		articleUpdatedAt,
	)

	log.Printf("[INFO] Generating embeddings for article %s (content length: %d)", payload.ArticleId, len(content))

	// ChunkSize: 1500 chars (approx 375 tokens), Overlap: 200 chars
	chunks := utils.SplitText(content, 1500, 200)
	log.Printf("[INFO] Content split into %d chunks", len(chunks))

	var newEmbeddings []*entity.ArticleEmbedding

	for i, chunk := range chunks {
		res, err := cs.embeddingProvider.Generate(chunk, "RETRIEVAL_DOCUMENT")
		if err != nil {
			log.Printf("[ERROR] Failed to generate embedding for chunk %d of article %s: %v", i, payload.ArticleId, err)
			msg.Nack()
			return
		}

		newEmbeddings = append(newEmbeddings, &entity.ArticleEmbedding{
			Id:             uuid.New(),
			Document:       chunk,
			EmbeddingValue: res.Embedding.Values,
			ArticleId:      article.Id,
			ChunkIndex:     i,
			CreatedAt:      time.Now(),
		})
	}

	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	if err := uow.ArticleEmbeddingRepository().DeleteByArticleId(ctx, article.Id); err != nil {
		log.Printf("[ERROR] Failed to delete old embeddings: %v", err)
		msg.Nack()
		return
	}

	if len(newEmbeddings) > 0 {
		if err := uow.ArticleEmbeddingRepository().CreateBulk(ctx, newEmbeddings); err != nil {
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

	log.Printf("[SUCCESS] Article processed: %d chunks for ArticleId: %s", len(newEmbeddings), payload.ArticleId)
	msg.Ack()
}

func (cs *consumerService) processMetricsJob(ctx context.Context, msg *message.Message) {
	var job metrics.Job
	if err := json.Unmarshal(msg.Payload, &job); err != nil {
		log.Printf("[ERROR] Failed to unmarshal metrics job: %v", err)
		msg.Ack()
		return
	}

	log.Printf("[INFO] Recording metrics for trace %s", job.TraceId)

	// Recording is best effort; a partially recorded exchange is still
	// acked because the recorder already logged what failed.
	cs.recorder.Record(ctx, &job)
	msg.Ack()
}
