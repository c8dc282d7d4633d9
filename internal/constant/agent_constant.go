package constant

// Message roles
const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
	MessageRoleSystem    = "system"
)

// Acting roles
const (
	RoleUser  = "user"
	RoleAgent = "agent"
	RoleAdmin = "admin"
)

// Ticket statuses
const (
	TicketStatusOpen      = "open"
	TicketStatusAssigned  = "assigned"
	TicketStatusEscalated = "escalated"
	TicketStatusClosed    = "closed"
)

// Metric kinds
const (
	MetricKindKRA  = "kra"
	MetricKindRGQS = "rgqs"
)

// GreetingQuery substitutes an empty inbound message so retrieval still has
// something to anchor on when a conversation is started or resumed.
const GreetingQuery = "greeting: customer is starting a support conversation"

// GreetingReply is returned for the empty-message case without consulting tools.
const GreetingReply = "Hi! I'm your support assistant. How can I help you today?"

// Replies used when the pipeline cannot proceed normally.
const (
	FailureReply       = "Sorry, something went wrong on our side while preparing your answer. Please try again in a moment."
	ToolLimitReply     = "I reached the limit of backend operations I can run for a single message, so I stopped there. Here is what I have so far."
	UngroundedPreamble = "I could not find anything in our knowledge base for this, so the following answer is not grounded in our documentation."
)
