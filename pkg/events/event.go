package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "TICKET_CLOSED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Event type codes published on the bus.
const (
	TypeUserRegistered         = "USER_REGISTERED"
	TypeTicketClosed           = "TICKET_CLOSED"
	TypeTicketAssigned         = "TICKET_ASSIGNED"
	TypeTicketEscalated        = "TICKET_ESCALATED"
	TypeAgentResponseCompleted = "AGENT_RESPONSE_COMPLETED"
)

func NewTicketClosed(ticketId, actorId string) Event {
	return BaseEvent{
		Type: TypeTicketClosed,
		Data: map[string]interface{}{
			"ticket_id": ticketId,
			"actor_id":  actorId,
		},
		OccurredAt: time.Now(),
	}
}

func NewTicketAssigned(ticketId, assigneeId, actorId string) Event {
	return BaseEvent{
		Type: TypeTicketAssigned,
		Data: map[string]interface{}{
			"ticket_id":   ticketId,
			"assignee_id": assigneeId,
			"actor_id":    actorId,
		},
		OccurredAt: time.Now(),
	}
}

func NewTicketEscalated(ticketId, actorId string) Event {
	return BaseEvent{
		Type: TypeTicketEscalated,
		Data: map[string]interface{}{
			"ticket_id": ticketId,
			"actor_id":  actorId,
		},
		OccurredAt: time.Now(),
	}
}

func NewAgentResponseCompleted(traceId string, ticketId string, toolCalls int) Event {
	return BaseEvent{
		Type: TypeAgentResponseCompleted,
		Data: map[string]interface{}{
			"trace_id":   traceId,
			"ticket_id":  ticketId,
			"tool_calls": toolCalls,
		},
		OccurredAt: time.Now(),
	}
}

func NewUserRegistered(userId, email string) Event {
	return BaseEvent{
		Type: TypeUserRegistered,
		Data: map[string]interface{}{
			"user_id": userId,
			"email":   email,
		},
		OccurredAt: time.Now(),
	}
}
