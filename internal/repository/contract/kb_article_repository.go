package contract

import (
	"context"

	"support-agent-be/internal/entity"
	"support-agent-be/internal/repository/specification"

	"github.com/google/uuid"
)

type KBArticleRepository interface {
	Create(ctx context.Context, article *entity.KBArticle) error
	Update(ctx context.Context, article *entity.KBArticle) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.KBArticle, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.KBArticle, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
