package contract

import (
	"context"

	"support-agent-be/internal/entity"
	"support-agent-be/internal/repository/specification"

	"github.com/google/uuid"
)

type TicketRepository interface {
	Create(ctx context.Context, ticket *entity.Ticket) error
	Update(ctx context.Context, ticket *entity.Ticket) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Ticket, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Ticket, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	CreateNote(ctx context.Context, note *entity.TicketNote) error
	FindNotesByTicketId(ctx context.Context, ticketId uuid.UUID) ([]*entity.TicketNote, error)
}
