package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type KBArticle struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title     string         `gorm:"type:varchar(255);not null"`
	Content   string         `gorm:"type:text;not null"`
	Category  string         `gorm:"type:varchar(64);index"`
	AuthorId  uuid.UUID      `gorm:"type:uuid;not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (KBArticle) TableName() string {
	return "kb_articles"
}
