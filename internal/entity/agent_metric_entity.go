package entity

import (
	"time"

	"github.com/google/uuid"
)

// AgentMetric is one scored observation of an agent exchange. Rows are
// append-only; Score is always within [0, 1].
type AgentMetric struct {
	Id        uuid.UUID
	TraceId   uuid.UUID
	TicketId  *uuid.UUID
	Kind      string // kra, rgqs
	Score     float64
	Metadata  []byte // JSON payload kept verbatim for audit
	CreatedAt time.Time
}
