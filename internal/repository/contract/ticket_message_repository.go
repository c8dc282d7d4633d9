package contract

import (
	"context"

	"support-agent-be/internal/entity"
	"support-agent-be/internal/repository/specification"

	"github.com/google/uuid"
)

type TicketMessageRepository interface {
	Create(ctx context.Context, message *entity.TicketMessage) error
	// UpdateMetrics fills the metrics snapshot on an already-persisted
	// assistant message. Messages are otherwise immutable.
	UpdateMetrics(ctx context.Context, messageId uuid.UUID, metrics []byte) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TicketMessage, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TicketMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
