package contract

import (
	"context"

	"support-agent-be/internal/entity"
	"support-agent-be/internal/repository/specification"
)

// AgentMetricRepository is append-only: metrics are never updated or deleted.
type AgentMetricRepository interface {
	Create(ctx context.Context, metric *entity.AgentMetric) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AgentMetric, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
