package mapper

import (
	"time"

	"support-agent-be/internal/entity"
	"support-agent-be/internal/model"

	"gorm.io/gorm"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(e *model.User) *entity.User {
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

	return &entity.User{
		Id:           e.Id,
		Email:        e.Email,
		Name:         e.Name,
		PasswordHash: e.PasswordHash,
		Role:         e.Role,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    updatedAt,
		DeletedAt:    deletedAt,
		IsDeleted:    e.DeletedAt.Valid,
	}
}

func (m *UserMapper) ToModel(e *entity.User) *model.User {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	}

	return &model.User{
		Id:           e.Id,
		Email:        e.Email,
		Name:         e.Name,
		PasswordHash: e.PasswordHash,
		Role:         e.Role,
		CreatedAt:    e.CreatedAt,
		DeletedAt:    deletedAt,
	}
}
