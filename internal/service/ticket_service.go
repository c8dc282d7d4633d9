// FILE: internal/service/ticket_service.go
package service

import (
	"context"

	"support-agent-be/internal/constant"
	"support-agent-be/internal/dto"
	"support-agent-be/internal/entity"
	"support-agent-be/internal/repository/specification"
	"support-agent-be/internal/repository/unitofwork"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ITicketService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateTicketRequest) (*dto.CreateTicketResponse, error)
	Show(ctx context.Context, userId uuid.UUID, role string, ticketId uuid.UUID) (*dto.ShowTicketResponse, error)
	List(ctx context.Context, userId uuid.UUID, role string) ([]*dto.ListTicketsResponse, error)
	UpdateStatus(ctx context.Context, userId uuid.UUID, role string, req *dto.UpdateTicketStatusRequest) error
	ListNotes(ctx context.Context, role string, ticketId uuid.UUID) ([]*dto.TicketNoteDTO, error)
}

type ticketService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewTicketService(uowFactory unitofwork.RepositoryFactory) ITicketService {
	return &ticketService{uowFactory: uowFactory}
}

func (s *ticketService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateTicketRequest) (*dto.CreateTicketResponse, error) {
	priority := req.Priority
	if priority == "" {
		priority = "normal"
	}

	ticket := &entity.Ticket{
		Id:         uuid.New(),
		CustomerId: userId,
		Subject:    req.Subject,
		Status:     constant.TicketStatusOpen,
		Priority:   priority,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.TicketRepository().Create(ctx, ticket); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.CreateTicketResponse{Id: ticket.Id}, nil
}

func (s *ticketService) Show(ctx context.Context, userId uuid.UUID, role string, ticketId uuid.UUID) (*dto.ShowTicketResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	ticket, err := uow.TicketRepository().FindOne(ctx, specification.ByID{ID: ticketId})
	if err != nil || ticket == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Ticket not found")
	}

	// Customers only see their own tickets; staff see all.
	if role == constant.RoleUser && ticket.CustomerId != userId {
		return nil, fiber.NewError(fiber.StatusForbidden, "Not your ticket")
	}

	return &dto.ShowTicketResponse{
		Id:         ticket.Id,
		Subject:    ticket.Subject,
		Status:     ticket.Status,
		Priority:   ticket.Priority,
		CustomerId: ticket.CustomerId,
		AssigneeId: ticket.AssigneeId,
		ClosedAt:   ticket.ClosedAt,
		CreatedAt:  ticket.CreatedAt,
		UpdatedAt:  ticket.UpdatedAt,
	}, nil
}

func (s *ticketService) List(ctx context.Context, userId uuid.UUID, role string) ([]*dto.ListTicketsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	var specs []specification.Specification
	if role == constant.RoleUser {
		specs = append(specs, specification.OwnedByCustomer{CustomerID: userId})
	}
	specs = append(specs, specification.OrderBy{Field: "created_at", Desc: true})

	tickets, err := uow.TicketRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ListTicketsResponse, 0, len(tickets))
	for _, ticket := range tickets {
		res = append(res, &dto.ListTicketsResponse{
			Id:        ticket.Id,
			Subject:   ticket.Subject,
			Status:    ticket.Status,
			Priority:  ticket.Priority,
			CreatedAt: ticket.CreatedAt,
		})
	}
	return res, nil
}

func (s *ticketService) UpdateStatus(ctx context.Context, userId uuid.UUID, role string, req *dto.UpdateTicketStatusRequest) error {
	if role == constant.RoleUser {
		return fiber.NewError(fiber.StatusForbidden, "Only staff can change ticket status")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	ticket, err := uow.TicketRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil || ticket == nil {
		return fiber.NewError(fiber.StatusNotFound, "Ticket not found")
	}

	ticket.Status = req.Status
	if err := uow.TicketRepository().Update(ctx, ticket); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *ticketService) ListNotes(ctx context.Context, role string, ticketId uuid.UUID) ([]*dto.TicketNoteDTO, error) {
	if role == constant.RoleUser {
		return nil, fiber.NewError(fiber.StatusForbidden, "Notes are internal to support staff")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	notes, err := uow.TicketRepository().FindNotesByTicketId(ctx, ticketId)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.TicketNoteDTO, 0, len(notes))
	for _, note := range notes {
		res = append(res, &dto.TicketNoteDTO{
			Id:        note.Id,
			AuthorId:  note.AuthorId,
			Body:      note.Body,
			CreatedAt: note.CreatedAt,
		})
	}
	return res, nil
}
