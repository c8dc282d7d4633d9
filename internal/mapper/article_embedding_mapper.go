package mapper

import (
	"time"

	"support-agent-be/internal/entity"
	"support-agent-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type ArticleEmbeddingMapper struct{}

func NewArticleEmbeddingMapper() *ArticleEmbeddingMapper {
	return &ArticleEmbeddingMapper{}
}

func (m *ArticleEmbeddingMapper) ToEntity(e *model.ArticleEmbedding) *entity.ArticleEmbedding {
	if e == nil {
		return nil
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.ArticleEmbedding{
		Id:             e.Id,
		Document:       e.Document,
		EmbeddingValue: e.EmbeddingValue.Slice(),
		ArticleId:      e.ArticleId,
		ChunkIndex:     e.ChunkIndex,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

func (m *ArticleEmbeddingMapper) ToModel(e *entity.ArticleEmbedding) *model.ArticleEmbedding {
	if e == nil {
		return nil
	}

	return &model.ArticleEmbedding{
		Id:             e.Id,
		Document:       e.Document,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		ArticleId:      e.ArticleId,
		ChunkIndex:     e.ChunkIndex,
		CreatedAt:      e.CreatedAt,
	}
}
