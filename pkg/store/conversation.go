package store

import "time"

// Turn is one cached conversation turn.
type Turn struct {
	Role      string
	Content   string
	CreatedAt time.Time
}

// Conversation is the in-memory state of an ongoing support conversation.
// It caches the recent turns so the orchestrator does not reload the full
// message history from storage on every exchange.
type Conversation struct {
	ID       string // ticket id, or user id for ticketless chats
	UserID   string
	TicketID string
	Turns    []Turn
}

// Append adds a turn, keeping at most max recent turns.
func (c *Conversation) Append(role, content string, max int) {
	c.Turns = append(c.Turns, Turn{Role: role, Content: content, CreatedAt: time.Now()})
	if max > 0 && len(c.Turns) > max {
		c.Turns = c.Turns[len(c.Turns)-max:]
	}
}
