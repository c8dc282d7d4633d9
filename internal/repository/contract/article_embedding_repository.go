package contract

import (
	"context"

	"support-agent-be/internal/entity"
	"support-agent-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredArticleEmbedding wraps ArticleEmbedding with its similarity score
type ScoredArticleEmbedding struct {
	Embedding  *entity.ArticleEmbedding
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type ArticleEmbeddingRepository interface {
	Create(ctx context.Context, embedding *entity.ArticleEmbedding) error
	CreateBulk(ctx context.Context, embeddings []*entity.ArticleEmbedding) error
	DeleteByArticleId(ctx context.Context, articleId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ArticleEmbedding, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore returns chunk embeddings with their cosine
	// similarity, filtered by threshold and optionally by article category.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, category string, threshold float64) ([]*ScoredArticleEmbedding, error)
}
