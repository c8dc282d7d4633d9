// Package metrics scores finished agent exchanges. Two observations are
// recorded per exchange: knowledge retrieval accuracy (KRA), derived from
// the retrieval scores, and response generation quality (RGQS), produced by
// an LLM judge. Recording is asynchronous and best effort; a lost metric
// never affects the customer-facing reply.
package metrics

import (
	"support-agent-be/pkg/agent"

	"github.com/google/uuid"
)

// Job is the payload published after each exchange. MessageId points at the
// persisted assistant message so the snapshot can be attached to it.
type Job struct {
	TraceId   uuid.UUID         `json:"trace_id"`
	TicketId  *uuid.UUID        `json:"ticket_id,omitempty"`
	MessageId uuid.UUID         `json:"message_id"`
	Query     string            `json:"query"`
	Response  string            `json:"response"`
	Context   *agent.RAGContext `json:"context"`
	ToolCalls []*agent.ToolCall `json:"tool_calls,omitempty"`
}
