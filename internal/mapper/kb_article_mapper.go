package mapper

import (
	"time"

	"support-agent-be/internal/entity"
	"support-agent-be/internal/model"

	"gorm.io/gorm"
)

type KBArticleMapper struct{}

func NewKBArticleMapper() *KBArticleMapper {
	return &KBArticleMapper{}
}

func (m *KBArticleMapper) ToEntity(e *model.KBArticle) *entity.KBArticle {
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

	return &entity.KBArticle{
		Id:        e.Id,
		Title:     e.Title,
		Content:   e.Content,
		Category:  e.Category,
		AuthorId:  e.AuthorId,
		CreatedAt: e.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: e.DeletedAt.Valid,
	}
}

func (m *KBArticleMapper) ToModel(e *entity.KBArticle) *model.KBArticle {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	}

	return &model.KBArticle{
		Id:        e.Id,
		Title:     e.Title,
		Content:   e.Content,
		Category:  e.Category,
		AuthorId:  e.AuthorId,
		CreatedAt: e.CreatedAt,
		DeletedAt: deletedAt,
	}
}
