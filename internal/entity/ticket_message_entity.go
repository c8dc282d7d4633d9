package entity

import (
	"time"

	"github.com/google/uuid"
)

// TicketMessage is one turn in a support conversation. Assistant turns carry
// the tool calls, retrieval context and metric snapshot of the exchange as
// opaque JSON payloads. Only Metrics is ever updated after insert, once the
// recorder has scored the exchange.
type TicketMessage struct {
	Id          uuid.UUID
	TicketId    *uuid.UUID
	UserId      uuid.UUID
	Role        string // user, assistant, system
	Content     string
	TraceId     uuid.UUID
	ToolCalls   []byte // JSON, assistant turns only
	ContextUsed []byte // JSON, assistant turns only
	Metrics     []byte // JSON, filled after the metrics recorder runs
	CreatedAt   time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}
