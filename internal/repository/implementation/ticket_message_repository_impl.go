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
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TicketMessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TicketMessageMapper
}

func NewTicketMessageRepository(db *gorm.DB) contract.TicketMessageRepository {
	return &TicketMessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewTicketMessageMapper(),
	}
}

func (r *TicketMessageRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *TicketMessageRepositoryImpl) Create(ctx context.Context, message *entity.TicketMessage) error {
	m := r.mapper.ToModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.ToEntity(m)
	return nil
}

func (r *TicketMessageRepositoryImpl) UpdateMetrics(ctx context.Context, messageId uuid.UUID, metrics []byte) error {
	return r.db.WithContext(ctx).
		Model(&model.TicketMessage{}).
		Where("id = ?", messageId).
		Update("metrics", datatypes.JSON(metrics)).Error
}

func (r *TicketMessageRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TicketMessage, error) {
	var m model.TicketMessage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *TicketMessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TicketMessage, error) {
	var models []*model.TicketMessage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.TicketMessage, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *TicketMessageRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.TicketMessage{}).Count(&count).Error
	return count, err
}
