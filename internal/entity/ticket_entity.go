package entity

import (
	"time"

	"github.com/google/uuid"
)

type Ticket struct {
	Id         uuid.UUID
	CustomerId uuid.UUID
	AssigneeId *uuid.UUID
	Subject    string
	Status     string // open, assigned, escalated, closed
	Priority   string
	ClosedBy   *uuid.UUID
	ClosedAt   *time.Time
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	DeletedAt  *time.Time
	IsDeleted  bool
}

// TicketNote is an internal annotation left on a ticket by an agent or by the
// assistant acting on an agent's behalf.
type TicketNote struct {
	Id        uuid.UUID
	TicketId  uuid.UUID
	AuthorId  uuid.UUID
	Body      string
	CreatedAt time.Time
}
