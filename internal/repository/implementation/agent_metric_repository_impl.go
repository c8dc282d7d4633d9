package implementation

import (
	"context"

	"support-agent-be/internal/entity"
	"support-agent-be/internal/mapper"
	"support-agent-be/internal/model"
	"support-agent-be/internal/repository/contract"
	"support-agent-be/internal/repository/specification"

	"gorm.io/gorm"
)

type AgentMetricRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AgentMetricMapper
}

func NewAgentMetricRepository(db *gorm.DB) contract.AgentMetricRepository {
	return &AgentMetricRepositoryImpl{
		db:     db,
		mapper: mapper.NewAgentMetricMapper(),
	}
}

func (r *AgentMetricRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *AgentMetricRepositoryImpl) Create(ctx context.Context, metric *entity.AgentMetric) error {
	m := r.mapper.ToModel(metric)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*metric = *r.mapper.ToEntity(m)
	return nil
}

func (r *AgentMetricRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AgentMetric, error) {
	var models []*model.AgentMetric
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.AgentMetric, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *AgentMetricRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.AgentMetric{}).Count(&count).Error
	return count, err
}
