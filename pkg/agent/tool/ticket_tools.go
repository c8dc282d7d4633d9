package tool

import (
	"context"
	"fmt"
	"log"
	"time"

	"support-agent-be/internal/constant"
	"support-agent-be/internal/entity"
	"support-agent-be/internal/pkg/mailer"
	"support-agent-be/internal/repository/specification"
	"support-agent-be/internal/repository/unitofwork"
	"support-agent-be/pkg/events"

	"github.com/google/uuid"
)

// EventPublisher is the outbound event bus the ticket tools notify. A nil
// publisher disables publication.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// TicketTools wires the builtin ticket operations into a registry and an
// executor. Mail and event publication are best effort: the ticket change
// commits even when notification fails.
type TicketTools struct {
	repositoryFactory unitofwork.RepositoryFactory
	eventPublisher    EventPublisher
	emailService      mailer.IEmailService
	logger            *log.Logger
}

func NewTicketTools(
	repositoryFactory unitofwork.RepositoryFactory,
	eventPublisher EventPublisher,
	emailService mailer.IEmailService,
	logger *log.Logger,
) *TicketTools {
	return &TicketTools{
		repositoryFactory: repositoryFactory,
		eventPublisher:    eventPublisher,
		emailService:      emailService,
		logger:            logger,
	}
}

// RegisterBuiltins registers the builtin ticket tools and binds their
// handlers.
func (t *TicketTools) RegisterBuiltins(registry *Registry, executor *Executor) {
	ticketIdArg := ArgSpec{
		Name:        "ticket_id",
		Type:        "string",
		Required:    true,
		Description: "UUID of the ticket to act on",
	}

	registry.Register(&Definition{
		Name:         "close_ticket",
		Description:  "Close a resolved ticket",
		Args:         []ArgSpec{ticketIdArg},
		Enabled:      true,
		RequiredRole: constant.RoleAdmin,
	})
	executor.Bind("close_ticket", t.closeTicket)

	registry.Register(&Definition{
		Name:        "assign_ticket",
		Description: "Assign a ticket to a support agent",
		Args: []ArgSpec{
			ticketIdArg,
			{
				Name:        "assignee_id",
				Type:        "string",
				Required:    true,
				Description: "UUID of the agent to assign the ticket to",
			},
		},
		Enabled:      true,
		RequiredRole: constant.RoleAdmin,
	})
	executor.Bind("assign_ticket", t.assignTicket)

	registry.Register(&Definition{
		Name:        "add_ticket_note",
		Description: "Attach an internal note to a ticket",
		Args: []ArgSpec{
			ticketIdArg,
			{
				Name:        "note",
				Type:        "string",
				Required:    true,
				Description: "Note body visible to support staff only",
			},
		},
		Enabled:      true,
		RequiredRole: constant.RoleAgent,
	})
	executor.Bind("add_ticket_note", t.addTicketNote)

	registry.Register(&Definition{
		Name:         "escalate_ticket",
		Description:  "Escalate a ticket to a senior agent",
		Args:         []ArgSpec{ticketIdArg},
		Enabled:      true,
		RequiredRole: constant.RoleAgent,
	})
	executor.Bind("escalate_ticket", t.escalateTicket)
}

func (t *TicketTools) loadTicket(ctx context.Context, uow unitofwork.UnitOfWork, args map[string]interface{}) (*entity.Ticket, error) {
	raw, _ := args["ticket_id"].(string)
	ticketId, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid ticket_id '%s'", raw)
	}

	ticket, err := uow.TicketRepository().FindOne(ctx, specification.ByID{ID: ticketId})
	if err != nil {
		return nil, fmt.Errorf("ticket %s not found", ticketId)
	}
	return ticket, nil
}

func (t *TicketTools) closeTicket(ctx context.Context, args map[string]interface{}, actingUserId uuid.UUID) (map[string]interface{}, error) {
	uow := t.repositoryFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	ticket, err := t.loadTicket(ctx, uow, args)
	if err != nil {
		return nil, err
	}
	if ticket.Status == constant.TicketStatusClosed {
		return nil, fmt.Errorf("ticket %s is already closed", ticket.Id)
	}

	now := time.Now()
	ticket.Status = constant.TicketStatusClosed
	ticket.ClosedBy = &actingUserId
	ticket.ClosedAt = &now
	if err := uow.TicketRepository().Update(ctx, ticket); err != nil {
		return nil, err
	}

	customer, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: ticket.CustomerId})
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	t.publish(ctx, events.NewTicketClosed(ticket.Id.String(), actingUserId.String()))
	t.notify(func() error { return t.emailService.SendTicketClosed(customer.Email, ticket.Subject) })

	return map[string]interface{}{
		"ticket_id": ticket.Id.String(),
		"status":    ticket.Status,
		"closed_at": now.Format(time.RFC3339),
	}, nil
}

func (t *TicketTools) assignTicket(ctx context.Context, args map[string]interface{}, actingUserId uuid.UUID) (map[string]interface{}, error) {
	rawAssignee, _ := args["assignee_id"].(string)
	assigneeId, err := uuid.Parse(rawAssignee)
	if err != nil {
		return nil, fmt.Errorf("invalid assignee_id '%s'", rawAssignee)
	}

	uow := t.repositoryFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	ticket, err := t.loadTicket(ctx, uow, args)
	if err != nil {
		return nil, err
	}
	if ticket.Status == constant.TicketStatusClosed {
		return nil, fmt.Errorf("ticket %s is closed and cannot be assigned", ticket.Id)
	}

	assignee, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: assigneeId})
	if err != nil {
		return nil, fmt.Errorf("assignee %s not found", assigneeId)
	}
	if assignee.Role == constant.RoleUser {
		return nil, fmt.Errorf("user %s is not a support agent", assigneeId)
	}

	ticket.AssigneeId = &assigneeId
	ticket.Status = constant.TicketStatusAssigned
	if err := uow.TicketRepository().Update(ctx, ticket); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	t.publish(ctx, events.NewTicketAssigned(ticket.Id.String(), assigneeId.String(), actingUserId.String()))
	t.notify(func() error { return t.emailService.SendTicketAssigned(assignee.Email, ticket.Subject) })

	return map[string]interface{}{
		"ticket_id":   ticket.Id.String(),
		"status":      ticket.Status,
		"assignee_id": assigneeId.String(),
	}, nil
}

func (t *TicketTools) addTicketNote(ctx context.Context, args map[string]interface{}, actingUserId uuid.UUID) (map[string]interface{}, error) {
	uow := t.repositoryFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	ticket, err := t.loadTicket(ctx, uow, args)
	if err != nil {
		return nil, err
	}

	body, _ := args["note"].(string)
	if body == "" {
		return nil, fmt.Errorf("note body cannot be empty")
	}

	note := &entity.TicketNote{
		Id:       uuid.New(),
		TicketId: ticket.Id,
		AuthorId: actingUserId,
		Body:     body,
	}
	if err := uow.TicketRepository().CreateNote(ctx, note); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"ticket_id": ticket.Id.String(),
		"note_id":   note.Id.String(),
	}, nil
}

func (t *TicketTools) escalateTicket(ctx context.Context, args map[string]interface{}, actingUserId uuid.UUID) (map[string]interface{}, error) {
	uow := t.repositoryFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	ticket, err := t.loadTicket(ctx, uow, args)
	if err != nil {
		return nil, err
	}
	if ticket.Status == constant.TicketStatusClosed {
		return nil, fmt.Errorf("ticket %s is closed and cannot be escalated", ticket.Id)
	}
	if ticket.Status == constant.TicketStatusEscalated {
		return nil, fmt.Errorf("ticket %s is already escalated", ticket.Id)
	}

	ticket.Status = constant.TicketStatusEscalated
	if err := uow.TicketRepository().Update(ctx, ticket); err != nil {
		return nil, err
	}

	customer, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: ticket.CustomerId})
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	t.publish(ctx, events.NewTicketEscalated(ticket.Id.String(), actingUserId.String()))
	t.notify(func() error { return t.emailService.SendTicketEscalated(customer.Email, ticket.Subject) })

	return map[string]interface{}{
		"ticket_id": ticket.Id.String(),
		"status":    ticket.Status,
	}, nil
}

func (t *TicketTools) publish(ctx context.Context, event events.Event) {
	if t.eventPublisher == nil {
		return
	}
	if err := t.eventPublisher.Publish(ctx, event); err != nil {
		t.logger.Printf("[TOOL] Failed to publish %s event: %v", event.EventType(), err)
	}
}

func (t *TicketTools) notify(send func() error) {
	if t.emailService == nil {
		return
	}
	go func() {
		if err := send(); err != nil {
			t.logger.Printf("[TOOL] Notification email failed: %v", err)
		}
	}()
}
