package implementation

import (
	"context"
	"errors"

	"support-agent-be/internal/entity"
	"support-agent-be/internal/mapper"
	"support-agent-be/internal/model"
	"support-agent-be/internal/repository/contract"
	"support-agent-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type KBArticleRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.KBArticleMapper
}

func NewKBArticleRepository(db *gorm.DB) contract.KBArticleRepository {
	return &KBArticleRepositoryImpl{
		db:     db,
		mapper: mapper.NewKBArticleMapper(),
	}
}

func (r *KBArticleRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *KBArticleRepositoryImpl) Create(ctx context.Context, article *entity.KBArticle) error {
	m := r.mapper.ToModel(article)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*article = *r.mapper.ToEntity(m)
	return nil
}

func (r *KBArticleRepositoryImpl) Update(ctx context.Context, article *entity.KBArticle) error {
	m := r.mapper.ToModel(article)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*article = *r.mapper.ToEntity(m)
	return nil
}

func (r *KBArticleRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.KBArticle{}, id).Error
}

func (r *KBArticleRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.KBArticle, error) {
	var m model.KBArticle
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *KBArticleRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.KBArticle, error) {
	var models []*model.KBArticle
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.KBArticle, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *KBArticleRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.KBArticle{}).Count(&count).Error
	return count, err
}
