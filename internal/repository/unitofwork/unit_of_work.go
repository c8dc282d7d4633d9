package unitofwork

import (
	"context"

	"support-agent-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	TicketRepository() contract.TicketRepository
	TicketMessageRepository() contract.TicketMessageRepository
	KBArticleRepository() contract.KBArticleRepository
	ArticleEmbeddingRepository() contract.ArticleEmbeddingRepository
	AgentMetricRepository() contract.AgentMetricRepository
}
