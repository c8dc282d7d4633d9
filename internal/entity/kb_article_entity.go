package entity

import (
	"time"

	"github.com/google/uuid"
)

type KBArticle struct {
	Id        uuid.UUID
	Title     string
	Content   string
	Category  string
	AuthorId  uuid.UUID
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}

type ArticleEmbedding struct {
	Id             uuid.UUID
	Document       string
	EmbeddingValue []float32
	ArticleId      uuid.UUID
	ChunkIndex     int
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}
