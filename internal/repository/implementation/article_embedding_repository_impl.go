package implementation

import (
	"context"

	"support-agent-be/internal/entity"
	"support-agent-be/internal/mapper"
	"support-agent-be/internal/model"
	"support-agent-be/internal/repository/contract"
	"support-agent-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type ArticleEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ArticleEmbeddingMapper
}

func NewArticleEmbeddingRepository(db *gorm.DB) contract.ArticleEmbeddingRepository {
	return &ArticleEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewArticleEmbeddingMapper(),
	}
}

func (r *ArticleEmbeddingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ArticleEmbeddingRepositoryImpl) Create(ctx context.Context, embedding *entity.ArticleEmbedding) error {
	m := r.mapper.ToModel(embedding)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*embedding = *r.mapper.ToEntity(m)
	return nil
}

func (r *ArticleEmbeddingRepositoryImpl) CreateBulk(ctx context.Context, embeddings []*entity.ArticleEmbedding) error {
	models := make([]*model.ArticleEmbedding, len(embeddings))
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

func (r *ArticleEmbeddingRepositoryImpl) DeleteByArticleId(ctx context.Context, articleId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("article_id = ?", articleId).Delete(&model.ArticleEmbedding{}).Error
}

func (r *ArticleEmbeddingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ArticleEmbedding, error) {
	var models []*model.ArticleEmbedding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ArticleEmbedding, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *ArticleEmbeddingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.ArticleEmbedding{}).Count(&count).Error
	return count, err
}

// SearchSimilarWithScore returns chunk embeddings with similarity scores.
// Cosine distance in pgvector is 1 - cosine_similarity, so the select
// computes 1 - (embedding_value <=> query_vector).
func (r *ArticleEmbeddingRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, category string, threshold float64) ([]*contract.ScoredArticleEmbedding, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.ArticleEmbedding
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	query := r.db.WithContext(ctx).
		Table("article_embeddings").
		Select("article_embeddings.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Joins("JOIN kb_articles ON kb_articles.id = article_embeddings.article_id").
		Where("article_embeddings.deleted_at IS NULL").
		Where("kb_articles.deleted_at IS NULL").
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold)

	if category != "" {
		query = query.Where("kb_articles.category = ?", category)
	}

	err := query.
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredArticleEmbedding, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredArticleEmbedding{
			Embedding:  r.mapper.ToEntity(&res.ArticleEmbedding),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
