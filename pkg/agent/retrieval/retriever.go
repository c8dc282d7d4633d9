// Package retrieval implements the knowledge-base context retriever: it
// embeds the incoming query, runs a similarity search over article chunk
// embeddings and partitions the candidates into retrieved and relevant
// subsets with their quality scores.
package retrieval

import (
	"context"
	"log"

	"support-agent-be/internal/repository/contract"
	"support-agent-be/pkg/agent"
	"support-agent-be/pkg/embedding"

	"github.com/google/uuid"
)

// Index abstracts the chunk-level similarity index so the retriever can be
// exercised without a database.
type Index interface {
	Search(ctx context.Context, vector []float32, limit int, category string, threshold float64) ([]*contract.ScoredArticleEmbedding, error)
	ArticleTitles(ctx context.Context, articleIds []uuid.UUID) (map[uuid.UUID]string, error)
}

// Config encapsulates retrieval parameters
type Config struct {
	DBThreshold    float64 // floor applied inside the index query
	LogicThreshold float64 // relevance cut applied to candidates
	TopK           int
}

// DefaultConfig returns default retrieval configuration
func DefaultConfig() Config {
	return Config{
		DBThreshold:    0.0,
		LogicThreshold: 0.35,
		TopK:           5,
	}
}

type Retriever struct {
	embeddingProvider embedding.EmbeddingProvider
	index             Index
	config            Config
	logger            *log.Logger
}

func NewRetriever(embeddingProvider embedding.EmbeddingProvider, index Index, config Config, logger *log.Logger) *Retriever {
	return &Retriever{
		embeddingProvider: embeddingProvider,
		index:             index,
		config:            config,
		logger:            logger,
	}
}

// Retrieve embeds the query and returns the ranked context for it. It fails
// open: if the embedding backend or the index is unavailable it returns an
// empty RAGContext with zero scores instead of an error, because a support
// reply without grounding is preferable to no reply.
func (r *Retriever) Retrieve(ctx context.Context, traceId uuid.UUID, query string, k int, categoryFilter string) *agent.RAGContext {
	ragCtx := &agent.RAGContext{
		TraceId: traceId,
		Query:   query,
	}

	if k <= 0 {
		k = r.config.TopK
	}

	embeddingRes, err := r.embeddingProvider.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		r.logger.Printf("[RETRIEVAL] %v (embedding), returning empty context: %v", agent.ErrRetrievalDegraded, err)
		return ragCtx
	}

	scored, err := r.index.Search(ctx, embeddingRes.Embedding.Values, k, categoryFilter, r.config.DBThreshold)
	if err != nil {
		r.logger.Printf("[RETRIEVAL] %v (index), returning empty context: %v", agent.ErrRetrievalDegraded, err)
		return ragCtx
	}

	r.logger.Printf("[RETRIEVAL] Raw search results: %d chunks", len(scored))

	titles := r.hydrateTitles(ctx, scored)

	for i, res := range scored {
		chunk := agent.ContextChunk{
			ArticleId:  res.Embedding.ArticleId,
			Title:      titles[res.Embedding.ArticleId],
			Content:    res.Embedding.Document,
			Similarity: res.Similarity,
		}
		ragCtx.Retrieved = append(ragCtx.Retrieved, chunk)

		if res.Similarity >= r.config.LogicThreshold {
			ragCtx.Relevant = append(ragCtx.Relevant, chunk)
			r.logger.Printf("[RETRIEVAL] Candidate %d: Score=%.4f [KEEP]", i+1, res.Similarity)
		} else {
			r.logger.Printf("[RETRIEVAL] Candidate %d: Score=%.4f [FILTERED]", i+1, res.Similarity)
		}
	}

	ragCtx.Accuracy = accuracyScore(ragCtx)
	ragCtx.Relevance = relevanceScore(ragCtx)

	return ragCtx
}

func (r *Retriever) hydrateTitles(ctx context.Context, scored []*contract.ScoredArticleEmbedding) map[uuid.UUID]string {
	if len(scored) == 0 {
		return nil
	}

	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, res := range scored {
		id := res.Embedding.ArticleId
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	titles, err := r.index.ArticleTitles(ctx, ids)
	if err != nil {
		r.logger.Printf("[RETRIEVAL] Failed to hydrate article titles: %v", err)
		return nil
	}
	return titles
}

// accuracyScore is the fraction of retrieved chunks that passed the
// relevance cut. Zero when nothing was retrieved.
func accuracyScore(c *agent.RAGContext) float64 {
	if len(c.Retrieved) == 0 {
		return 0
	}
	return clamp01(float64(len(c.Relevant)) / float64(len(c.Retrieved)))
}

// relevanceScore is the mean similarity of the relevant subset.
func relevanceScore(c *agent.RAGContext) float64 {
	if len(c.Relevant) == 0 {
		return 0
	}
	var sum float64
	for _, chunk := range c.Relevant {
		sum += chunk.Similarity
	}
	return clamp01(sum / float64(len(c.Relevant)))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
