package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AgentMetric struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TraceId   uuid.UUID      `gorm:"type:uuid;not null;index"`
	TicketId  *uuid.UUID     `gorm:"type:uuid;index"`
	Kind      string         `gorm:"type:varchar(16);not null;index"`
	Score     float64        `gorm:"not null"`
	Metadata  datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}

func (AgentMetric) TableName() string {
	return "agent_metrics"
}
