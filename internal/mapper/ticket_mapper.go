package mapper

import (
	"time"

	"support-agent-be/internal/entity"
	"support-agent-be/internal/model"

	"gorm.io/gorm"
)

type TicketMapper struct{}

func NewTicketMapper() *TicketMapper {
	return &TicketMapper{}
}

func (m *TicketMapper) ToEntity(e *model.Ticket) *entity.Ticket {
	if e == nil {
		return nil
	}

	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.Ticket{
		Id:         e.Id,
		CustomerId: e.CustomerId,
		AssigneeId: e.AssigneeId,
		Subject:    e.Subject,
		Status:     e.Status,
		Priority:   e.Priority,
		ClosedBy:   e.ClosedBy,
		ClosedAt:   e.ClosedAt,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  updatedAt,
		DeletedAt:  deletedAt,
		IsDeleted:  e.DeletedAt.Valid,
	}
}

func (m *TicketMapper) ToModel(e *entity.Ticket) *model.Ticket {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	} else if e.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	return &model.Ticket{
		Id:         e.Id,
		CustomerId: e.CustomerId,
		AssigneeId: e.AssigneeId,
		Subject:    e.Subject,
		Status:     e.Status,
		Priority:   e.Priority,
		ClosedBy:   e.ClosedBy,
		ClosedAt:   e.ClosedAt,
		CreatedAt:  e.CreatedAt,
		DeletedAt:  deletedAt,
	}
}

func (m *TicketMapper) NoteToEntity(e *model.TicketNote) *entity.TicketNote {
	if e == nil {
		return nil
	}
	return &entity.TicketNote{
		Id:        e.Id,
		TicketId:  e.TicketId,
		AuthorId:  e.AuthorId,
		Body:      e.Body,
		CreatedAt: e.CreatedAt,
	}
}

func (m *TicketMapper) NoteToModel(e *entity.TicketNote) *model.TicketNote {
	if e == nil {
		return nil
	}
	return &model.TicketNote{
		Id:        e.Id,
		TicketId:  e.TicketId,
		AuthorId:  e.AuthorId,
		Body:      e.Body,
		CreatedAt: e.CreatedAt,
	}
}
