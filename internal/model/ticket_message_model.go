package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TicketMessage struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TicketId    *uuid.UUID     `gorm:"type:uuid;index"`
	UserId      uuid.UUID      `gorm:"type:uuid;not null;index"`
	Role        string         `gorm:"type:varchar(16);not null"`
	Content     string         `gorm:"type:text;not null"`
	TraceId     uuid.UUID      `gorm:"type:uuid;not null;index"`
	ToolCalls   datatypes.JSON `gorm:"type:jsonb"`
	ContextUsed datatypes.JSON `gorm:"type:jsonb"`
	Metrics     datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (TicketMessage) TableName() string {
	return "ticket_messages"
}
