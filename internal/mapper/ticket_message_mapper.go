package mapper

import (
	"time"

	"support-agent-be/internal/entity"
	"support-agent-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TicketMessageMapper struct{}

func NewTicketMessageMapper() *TicketMessageMapper {
	return &TicketMessageMapper{}
}

func (m *TicketMessageMapper) ToEntity(e *model.TicketMessage) *entity.TicketMessage {
	if e == nil {
		return nil
	}

	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		deletedAt = &t
	}

	return &entity.TicketMessage{
		Id:          e.Id,
		TicketId:    e.TicketId,
		UserId:      e.UserId,
		Role:        e.Role,
		Content:     e.Content,
		TraceId:     e.TraceId,
		ToolCalls:   []byte(e.ToolCalls),
		ContextUsed: []byte(e.ContextUsed),
		Metrics:     []byte(e.Metrics),
		CreatedAt:   e.CreatedAt,
		DeletedAt:   deletedAt,
		IsDeleted:   e.DeletedAt.Valid,
	}
}

func (m *TicketMessageMapper) ToModel(e *entity.TicketMessage) *model.TicketMessage {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	}

	return &model.TicketMessage{
		Id:          e.Id,
		TicketId:    e.TicketId,
		UserId:      e.UserId,
		Role:        e.Role,
		Content:     e.Content,
		TraceId:     e.TraceId,
		ToolCalls:   datatypes.JSON(e.ToolCalls),
		ContextUsed: datatypes.JSON(e.ContextUsed),
		Metrics:     datatypes.JSON(e.Metrics),
		CreatedAt:   e.CreatedAt,
		DeletedAt:   deletedAt,
	}
}
