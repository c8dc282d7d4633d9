package retrieval

import (
	"context"

	"support-agent-be/internal/repository/contract"
	"support-agent-be/internal/repository/specification"
	"support-agent-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// GormIndex adapts the unit-of-work repositories to the Index interface.
type GormIndex struct {
	repositoryFactory unitofwork.RepositoryFactory
}

func NewGormIndex(repositoryFactory unitofwork.RepositoryFactory) *GormIndex {
	return &GormIndex{repositoryFactory: repositoryFactory}
}

func (g *GormIndex) Search(ctx context.Context, vector []float32, limit int, category string, threshold float64) ([]*contract.ScoredArticleEmbedding, error) {
	uow := g.repositoryFactory.NewUnitOfWork(ctx)
	return uow.ArticleEmbeddingRepository().SearchSimilarWithScore(ctx, vector, limit, category, threshold)
}

func (g *GormIndex) ArticleTitles(ctx context.Context, articleIds []uuid.UUID) (map[uuid.UUID]string, error) {
	uow := g.repositoryFactory.NewUnitOfWork(ctx)
	articles, err := uow.KBArticleRepository().FindAll(ctx, specification.ByIDs{IDs: articleIds})
	if err != nil {
		return nil, err
	}

	titles := make(map[uuid.UUID]string, len(articles))
	for _, article := range articles {
		titles[article.Id] = article.Title
	}
	return titles, nil
}
