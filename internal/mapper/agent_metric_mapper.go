package mapper

import (
	"support-agent-be/internal/entity"
	"support-agent-be/internal/model"

	"gorm.io/datatypes"
)

type AgentMetricMapper struct{}

func NewAgentMetricMapper() *AgentMetricMapper {
	return &AgentMetricMapper{}
}

func (m *AgentMetricMapper) ToEntity(e *model.AgentMetric) *entity.AgentMetric {
	if e == nil {
		return nil
	}
	return &entity.AgentMetric{
		Id:        e.Id,
		TraceId:   e.TraceId,
		TicketId:  e.TicketId,
		Kind:      e.Kind,
		Score:     e.Score,
		Metadata:  []byte(e.Metadata),
		CreatedAt: e.CreatedAt,
	}
}

func (m *AgentMetricMapper) ToModel(e *entity.AgentMetric) *model.AgentMetric {
	if e == nil {
		return nil
	}
	return &model.AgentMetric{
		Id:        e.Id,
		TraceId:   e.TraceId,
		TicketId:  e.TicketId,
		Kind:      e.Kind,
		Score:     e.Score,
		Metadata:  datatypes.JSON(e.Metadata),
		CreatedAt: e.CreatedAt,
	}
}
