package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Ticket struct {
	Id         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerId uuid.UUID  `gorm:"type:uuid;not null;index"`
	AssigneeId *uuid.UUID `gorm:"type:uuid;index"`
	Subject    string     `gorm:"type:varchar(255);not null"`
	Status     string     `gorm:"type:varchar(32);not null;default:'open';index"`
	Priority   string     `gorm:"type:varchar(32);not null;default:'normal'"`
	ClosedBy   *uuid.UUID `gorm:"type:uuid"`
	ClosedAt   *time.Time
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (Ticket) TableName() string {
	return "tickets"
}

type TicketNote struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TicketId  uuid.UUID `gorm:"type:uuid;not null;index"`
	AuthorId  uuid.UUID `gorm:"type:uuid;not null"`
	Body      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (TicketNote) TableName() string {
	return "ticket_notes"
}
