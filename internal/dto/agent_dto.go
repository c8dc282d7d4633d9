package dto

import (
	"time"

	"support-agent-be/pkg/agent"

	"github.com/google/uuid"
)

// SendChatRequest is one inbound customer message. Message is a pointer on
// purpose: nil or empty means the customer just opened the conversation.
type SendChatRequest struct {
	Message  *string    `json:"message"`
	TicketId *uuid.UUID `json:"ticket_id,omitempty"`
	Category string     `json:"category,omitempty"`
}

type SendChatResponse struct {
	TraceId   uuid.UUID             `json:"trace_id"`
	Content   string                `json:"content"`
	ToolCalls []*agent.ToolCall     `json:"tool_calls"`
	Context   *agent.RAGContext     `json:"context_used"`
	Metrics   *agent.MetricSnapshot `json:"metrics"`
}

type ListToolsResponse struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	RequiredRole string `json:"required_role"`
}

type ExecuteToolRequest struct {
	Tool      string                 `json:"tool" validate:"required"`
	Arguments map[string]interface{} `json:"arguments"`
}

type ChatHistoryResponse struct {
	Id        uuid.UUID             `json:"id"`
	Role      string                `json:"role"`
	Content   string                `json:"content"`
	TraceId   uuid.UUID             `json:"trace_id"`
	ToolCalls []*agent.ToolCall     `json:"tool_calls,omitempty"`
	Metrics   *agent.MetricSnapshot `json:"metrics,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
}

type AgentMetricResponse struct {
	Id        uuid.UUID  `json:"id"`
	TraceId   uuid.UUID  `json:"trace_id"`
	TicketId  *uuid.UUID `json:"ticket_id,omitempty"`
	Kind      string     `json:"kind"`
	Score     float64    `json:"score"`
	CreatedAt time.Time  `json:"created_at"`
}

type AgentUsageResponse struct {
	Used  int64 `json:"used"`
	Limit int   `json:"limit"`
}
