package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateTicketRequest struct {
	Subject  string `json:"subject" validate:"required"`
	Priority string `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
}

type CreateTicketResponse struct {
	Id uuid.UUID `json:"id"`
}

type ShowTicketResponse struct {
	Id         uuid.UUID  `json:"id"`
	Subject    string     `json:"subject"`
	Status     string     `json:"status"`
	Priority   string     `json:"priority"`
	CustomerId uuid.UUID  `json:"customer_id"`
	AssigneeId *uuid.UUID `json:"assignee_id,omitempty"`
	ClosedAt   *time.Time `json:"closed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"`
}

type ListTicketsResponse struct {
	Id        uuid.UUID `json:"id"`
	Subject   string    `json:"subject"`
	Status    string    `json:"status"`
	Priority  string    `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
}

type UpdateTicketStatusRequest struct {
	Id     uuid.UUID
	Status string `json:"status" validate:"required,oneof=open assigned escalated closed"`
}

type TicketNoteDTO struct {
	Id        uuid.UUID `json:"id"`
	AuthorId  uuid.UUID `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
