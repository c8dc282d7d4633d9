// FILE: internal/service/kb_service.go
package service

import (
	"context"
	"encoding/json"
	"log"

	"support-agent-be/internal/dto"
	"support-agent-be/internal/entity"
	"support-agent-be/internal/repository/specification"
	"support-agent-be/internal/repository/unitofwork"
	"support-agent-be/pkg/embedding"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IKBService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateArticleRequest) (*dto.CreateArticleResponse, error)
	Update(ctx context.Context, req *dto.UpdateArticleRequest) (*dto.UpdateArticleResponse, error)
	Delete(ctx context.Context, articleId uuid.UUID) error
	Show(ctx context.Context, articleId uuid.UUID) (*dto.ShowArticleResponse, error)
	List(ctx context.Context, category string) ([]*dto.ListArticlesResponse, error)
	SemanticSearch(ctx context.Context, query string, category string) ([]*dto.SearchArticlesResponse, error)
}

type kbService struct {
	uowFactory        unitofwork.RepositoryFactory
	publisherService  IPublisherService
	embeddingProvider embedding.EmbeddingProvider
}

func NewKBService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	embeddingProvider embedding.EmbeddingProvider,
) IKBService {
	return &kbService{
		uowFactory:        uowFactory,
		publisherService:  publisherService,
		embeddingProvider: embeddingProvider,
	}
}

func (s *kbService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateArticleRequest) (*dto.CreateArticleResponse, error) {
	article := &entity.KBArticle{
		Id:       uuid.New(),
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		AuthorId: userId,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.KBArticleRepository().Create(ctx, article); err != nil {
		return nil, err
	}

	s.publishEmbedJob(ctx, article.Id)

	return &dto.CreateArticleResponse{Id: article.Id}, nil
}

func (s *kbService) Update(ctx context.Context, req *dto.UpdateArticleRequest) (*dto.UpdateArticleResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	article, err := uow.KBArticleRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil || article == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Article not found")
	}

	article.Title = req.Title
	article.Content = req.Content
	article.Category = req.Category

	if err := uow.KBArticleRepository().Update(ctx, article); err != nil {
		return nil, err
	}

	// Content changed, the chunk embeddings are stale.
	s.publishEmbedJob(ctx, article.Id)

	return &dto.UpdateArticleResponse{Id: article.Id}, nil
}

func (s *kbService) Delete(ctx context.Context, articleId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ArticleEmbeddingRepository().DeleteByArticleId(ctx, articleId); err != nil {
		return err
	}
	if err := uow.KBArticleRepository().Delete(ctx, articleId); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *kbService) Show(ctx context.Context, articleId uuid.UUID) (*dto.ShowArticleResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	article, err := uow.KBArticleRepository().FindOne(ctx, specification.ByID{ID: articleId})
	if err != nil || article == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Article not found")
	}

	return &dto.ShowArticleResponse{
		Id:        article.Id,
		Title:     article.Title,
		Content:   article.Content,
		Category:  article.Category,
		AuthorId:  article.AuthorId,
		CreatedAt: article.CreatedAt,
		UpdatedAt: article.UpdatedAt,
	}, nil
}

func (s *kbService) List(ctx context.Context, category string) ([]*dto.ListArticlesResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	var specs []specification.Specification
	if category != "" {
		specs = append(specs, specification.ByCategory{Category: category})
	}
	specs = append(specs, specification.OrderBy{Field: "created_at", Desc: true})

	articles, err := uow.KBArticleRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ListArticlesResponse, 0, len(articles))
	for _, article := range articles {
		res = append(res, &dto.ListArticlesResponse{
			Id:        article.Id,
			Title:     article.Title,
			Category:  article.Category,
			CreatedAt: article.CreatedAt,
		})
	}
	return res, nil
}

func (s *kbService) SemanticSearch(ctx context.Context, query string, category string) ([]*dto.SearchArticlesResponse, error) {
	if query == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Query is required")
	}

	embeddingRes, err := s.embeddingProvider.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fiber.NewError(fiber.StatusServiceUnavailable, "Embedding backend unavailable")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.ArticleEmbeddingRepository().SearchSimilarWithScore(ctx, embeddingRes.Embedding.Values, 10, category, 0.3)
	if err != nil {
		return nil, err
	}

	// Collapse chunk hits to their best-scoring chunk per article.
	best := make(map[uuid.UUID]*dto.SearchArticlesResponse)
	var order []uuid.UUID
	for _, hit := range scored {
		articleId := hit.Embedding.ArticleId
		if existing, ok := best[articleId]; ok {
			if hit.Similarity > existing.Similarity {
				existing.Similarity = hit.Similarity
				existing.Snippet = snippet(hit.Embedding.Document)
			}
			continue
		}
		best[articleId] = &dto.SearchArticlesResponse{
			ArticleId:  articleId,
			Snippet:    snippet(hit.Embedding.Document),
			Similarity: hit.Similarity,
		}
		order = append(order, articleId)
	}

	if len(order) > 0 {
		articles, err := uow.KBArticleRepository().FindAll(ctx, specification.ByIDs{IDs: order})
		if err == nil {
			for _, article := range articles {
				if hit, ok := best[article.Id]; ok {
					hit.Title = article.Title
				}
			}
		}
	}

	res := make([]*dto.SearchArticlesResponse, 0, len(order))
	for _, id := range order {
		res = append(res, best[id])
	}
	return res, nil
}

func (s *kbService) publishEmbedJob(ctx context.Context, articleId uuid.UUID) {
	payload := dto.PublishEmbedArticleMessage{ArticleId: articleId}
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := s.publisherService.Publish(ctx, raw); err != nil {
		log.Printf("[ERROR] Failed to publish embed job for article %s: %v", articleId, err)
	}
}

func snippet(document string) string {
	const maxLen = 200
	if len(document) <= maxLen {
		return document
	}
	return document[:maxLen] + "..."
}
