package agent

import (
	"time"

	"github.com/google/uuid"
)

// ContextChunk is one retrieved knowledge-base chunk with its provenance.
type ContextChunk struct {
	ArticleId  uuid.UUID `json:"article_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Similarity float64   `json:"similarity"`
}

// RAGContext is the retrieval result for one query. It is created once per
// query and never mutated afterwards, except for ContextMatch which is
// filled in by the orchestrator once the final reply exists.
type RAGContext struct {
	TraceId   uuid.UUID      `json:"trace_id"`
	Query     string         `json:"query"`
	Retrieved []ContextChunk `json:"retrieved"`
	Relevant  []ContextChunk `json:"relevant"`

	// Scores, each within [0, 1].
	Accuracy     float64 `json:"accuracy"`      // |relevant| / |retrieved|
	Relevance    float64 `json:"relevance"`     // mean similarity of the relevant subset
	ContextMatch float64 `json:"context_match"` // overlap between relevant chunks and the final reply
}

// Empty reports whether retrieval produced no usable chunks (including the
// fail-open case when the embedding backend or index was unavailable).
func (c *RAGContext) Empty() bool {
	return c == nil || len(c.Retrieved) == 0
}

// PipelineCall is a single tool invocation request before validation.
type PipelineCall struct {
	TraceId      uuid.UUID              `json:"trace_id"`
	Tool         string                 `json:"tool"`
	Arguments    map[string]interface{} `json:"arguments"`
	ActingUserId uuid.UUID              `json:"acting_user_id"`
	ActingRole   string                 `json:"acting_role"`
}

// ToolCall is one tool invocation attempt. It is terminal once Result or
// Error is set; a call is attempted at most once per orchestrator request.
type ToolCall struct {
	Id        uuid.UUID              `json:"id"`
	TraceId   uuid.UUID              `json:"trace_id"`
	Tool      string                 `json:"tool"`
	Arguments map[string]interface{} `json:"arguments"`
	StartTime time.Time              `json:"start_time"`
	EndTime   time.Time              `json:"end_time"`
	Result    map[string]interface{} `json:"result,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

// Failed reports whether the call ended in an error.
func (c *ToolCall) Failed() bool {
	return c.Error != ""
}

// MetricSnapshot carries the two per-exchange metric scores once the
// recorder has produced them. Nil until then: metrics are attached after
// the response may already have been returned to the caller.
type MetricSnapshot struct {
	KRA  *float64 `json:"kra,omitempty"`
	RGQS *float64 `json:"rgqs,omitempty"`
}

// Response is the final output of one pipeline run.
type Response struct {
	TraceId   uuid.UUID       `json:"trace_id"`
	Content   string          `json:"content"`
	ToolCalls []*ToolCall     `json:"tool_calls"`
	Context   *RAGContext     `json:"context_used"`
	Metrics   *MetricSnapshot `json:"metrics"`
}
