package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateArticleRequest struct {
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content" validate:"required"`
	Category string `json:"category"`
}

type CreateArticleResponse struct {
	Id uuid.UUID `json:"id"`
}

type UpdateArticleRequest struct {
	Id       uuid.UUID
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content" validate:"required"`
	Category string `json:"category"`
}

type UpdateArticleResponse struct {
	Id uuid.UUID `json:"id"`
}

type ShowArticleResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Category  string     `json:"category"`
	AuthorId  uuid.UUID  `json:"author_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type ListArticlesResponse struct {
	Id        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

type SearchArticlesResponse struct {
	ArticleId  uuid.UUID `json:"article_id"`
	Title      string    `json:"title"`
	Snippet    string    `json:"snippet"`
	Similarity float64   `json:"similarity"`
}

// PublishEmbedArticleMessage is the async job payload for (re)embedding an
// article's content.
type PublishEmbedArticleMessage struct {
	ArticleId uuid.UUID `json:"article_id"`
}
