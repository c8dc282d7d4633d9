package orchestrator

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"testing"

	"support-agent-be/internal/constant"
	"support-agent-be/pkg/agent"
	"support-agent-be/pkg/agent/planner"
	"support-agent-be/pkg/agent/tool"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeRetriever struct {
	ctxToReturn *agent.RAGContext
	lastQuery   string
}

func (f *fakeRetriever) Retrieve(ctx context.Context, traceId uuid.UUID, query string, k int, categoryFilter string) *agent.RAGContext {
	f.lastQuery = query
	if f.ctxToReturn != nil {
		c := *f.ctxToReturn
		c.TraceId = traceId
		c.Query = query
		return &c
	}
	return &agent.RAGContext{TraceId: traceId, Query: query}
}

type fakePlanner struct {
	plans []*planner.Plan
	err   error
	calls int
}

func (f *fakePlanner) Plan(ctx context.Context, in planner.Input) (*planner.Plan, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.calls <= len(f.plans) {
		return f.plans[f.calls-1], nil
	}
	return f.plans[len(f.plans)-1], nil
}

type fakeExecutor struct {
	mu       sync.Mutex
	executed []string
	failWith map[string]string
}

func (f *fakeExecutor) Execute(ctx context.Context, pc agent.PipelineCall) *agent.ToolCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.executed = append(f.executed, pc.Tool)

	call := &agent.ToolCall{
		Id:        uuid.New(),
		TraceId:   pc.TraceId,
		Tool:      pc.Tool,
		Arguments: pc.Arguments,
	}
	if msg, ok := f.failWith[pc.Tool]; ok {
		call.Error = msg
	} else {
		call.Result = map[string]interface{}{"ok": true}
	}
	return call
}

func testCatalogue() *tool.Registry {
	registry := tool.NewRegistry()
	registry.Register(&tool.Definition{Name: "close_ticket", Enabled: true, RequiredRole: constant.RoleAdmin})
	registry.Register(&tool.Definition{Name: "escalate_ticket", Enabled: true, RequiredRole: constant.RoleAgent})
	registry.Register(&tool.Definition{Name: "add_ticket_note", Enabled: true, RequiredRole: constant.RoleAgent})
	return registry
}

func groundedContext() *agent.RAGContext {
	return &agent.RAGContext{
		Retrieved: []agent.ContextChunk{{Content: "refunds take five business days", Similarity: 0.9}},
		Relevant:  []agent.ContextChunk{{Content: "refunds take five business days", Similarity: 0.9}},
		Accuracy:  1.0,
		Relevance: 0.9,
	}
}

func newTestOrchestrator(retriever Retriever, p Planner, executor Executor) *Orchestrator {
	return NewOrchestrator(
		retriever,
		p,
		executor,
		testCatalogue(),
		Config{MaxToolRounds: 3, TopK: 5},
		log.New(os.Stderr, "", 0),
	)
}

func strPtr(s string) *string { return &s }

func TestHandleEmptyMessageGreets(t *testing.T) {
	retriever := &fakeRetriever{}
	p := &fakePlanner{}
	executor := &fakeExecutor{}
	o := newTestOrchestrator(retriever, p, executor)

	tests := []struct {
		name    string
		message *string
	}{
		{"nil message", nil},
		{"empty message", strPtr("")},
		{"whitespace message", strPtr("   ")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := o.Handle(context.Background(), Request{
				Message: tt.message,
				UserId:  uuid.New(),
				Role:    constant.RoleUser,
			})

			assert.NoError(t, err)
			assert.Equal(t, constant.GreetingReply, resp.Content)
			assert.Empty(t, resp.ToolCalls)
			assert.Equal(t, constant.GreetingQuery, retriever.lastQuery)
			assert.Zero(t, p.calls, "greeting must not consult the model")
		})
	}
}

func TestHandleDirectReply(t *testing.T) {
	retriever := &fakeRetriever{ctxToReturn: groundedContext()}
	p := &fakePlanner{plans: []*planner.Plan{
		{Reply: "Refunds take five business days."},
	}}
	executor := &fakeExecutor{}
	o := newTestOrchestrator(retriever, p, executor)

	resp, err := o.Handle(context.Background(), Request{
		Message: strPtr("how long do refunds take?"),
		UserId:  uuid.New(),
		Role:    constant.RoleUser,
	})

	assert.NoError(t, err)
	assert.Equal(t, "Refunds take five business days.", resp.Content)
	assert.Empty(t, resp.ToolCalls)
	assert.Equal(t, 1, p.calls)
	assert.NotEqual(t, uuid.Nil, resp.TraceId)
	assert.Equal(t, resp.TraceId, resp.Context.TraceId)
	assert.Greater(t, resp.Context.ContextMatch, 0.0)
}

func TestHandleRetrievalOutageStillAnswers(t *testing.T) {
	retriever := &fakeRetriever{}
	p := &fakePlanner{plans: []*planner.Plan{
		{Reply: "Refunds usually take five business days."},
	}}
	o := newTestOrchestrator(retriever, p, &fakeExecutor{})

	resp, err := o.Handle(context.Background(), Request{
		Message: strPtr("how long do refunds take?"),
		UserId:  uuid.New(),
		Role:    constant.RoleUser,
	})

	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.Content, constant.UngroundedPreamble))
	assert.Contains(t, resp.Content, "Refunds usually take five business days.")
	assert.Empty(t, resp.ToolCalls)
	assert.Empty(t, resp.Context.Relevant)
	assert.Zero(t, resp.Context.ContextMatch)
}

func TestHandleToolRoundThenReply(t *testing.T) {
	retriever := &fakeRetriever{ctxToReturn: groundedContext()}
	p := &fakePlanner{plans: []*planner.Plan{
		{ToolRequests: []planner.ToolRequest{
			{Tool: "escalate_ticket", Arguments: map[string]interface{}{"ticket_id": "t1"}},
		}},
		{Reply: "I escalated your ticket."},
	}}
	executor := &fakeExecutor{}
	o := newTestOrchestrator(retriever, p, executor)

	resp, err := o.Handle(context.Background(), Request{
		Message: strPtr("please escalate this"),
		UserId:  uuid.New(),
		Role:    constant.RoleAgent,
	})

	assert.NoError(t, err)
	assert.Equal(t, "I escalated your ticket.", resp.Content)
	assert.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "escalate_ticket", resp.ToolCalls[0].Tool)
	assert.False(t, resp.ToolCalls[0].Failed())
	assert.Equal(t, 2, p.calls)
}

func TestHandleDropsRoleExcludedRequests(t *testing.T) {
	retriever := &fakeRetriever{ctxToReturn: groundedContext()}
	p := &fakePlanner{plans: []*planner.Plan{
		{
			Reply: "I cannot do that, but here is what I know.",
			ToolRequests: []planner.ToolRequest{
				{Tool: "close_ticket", Arguments: map[string]interface{}{"ticket_id": "t1"}},
			},
		},
	}}
	executor := &fakeExecutor{}
	o := newTestOrchestrator(retriever, p, executor)

	resp, err := o.Handle(context.Background(), Request{
		Message: strPtr("close my ticket"),
		UserId:  uuid.New(),
		Role:    constant.RoleUser,
	})

	assert.NoError(t, err)
	assert.Empty(t, resp.ToolCalls, "role-excluded request must be dropped, not executed")
	assert.Empty(t, executor.executed)
	assert.Contains(t, resp.Content, "I cannot do that")
}

func TestHandleToolRoundLimit(t *testing.T) {
	retriever := &fakeRetriever{ctxToReturn: groundedContext()}
	// The planner keeps asking for a new tool every round and never
	// produces a final reply.
	p := &fakePlanner{plans: []*planner.Plan{
		{ToolRequests: []planner.ToolRequest{{Tool: "escalate_ticket", Arguments: map[string]interface{}{"n": "1"}}}},
		{ToolRequests: []planner.ToolRequest{{Tool: "escalate_ticket", Arguments: map[string]interface{}{"n": "2"}}}},
		{ToolRequests: []planner.ToolRequest{{Tool: "escalate_ticket", Arguments: map[string]interface{}{"n": "3"}}}},
	}}
	executor := &fakeExecutor{}
	o := newTestOrchestrator(retriever, p, executor)

	resp, err := o.Handle(context.Background(), Request{
		Message: strPtr("do everything"),
		UserId:  uuid.New(),
		Role:    constant.RoleAgent,
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, p.calls, "planning must stop at the round limit")
	assert.Len(t, resp.ToolCalls, 3)
	assert.True(t, strings.Contains(resp.Content, "limit"))
}

func TestHandleModelUnavailable(t *testing.T) {
	retriever := &fakeRetriever{ctxToReturn: groundedContext()}
	p := &fakePlanner{err: fmt.Errorf("%w: dial tcp: connection refused", agent.ErrModelUnavailable)}
	executor := &fakeExecutor{}
	o := newTestOrchestrator(retriever, p, executor)

	resp, err := o.Handle(context.Background(), Request{
		Message: strPtr("hello?"),
		UserId:  uuid.New(),
		Role:    constant.RoleUser,
	})

	assert.ErrorIs(t, err, agent.ErrModelUnavailable)
	assert.NotNil(t, resp)
	assert.Equal(t, constant.FailureReply, resp.Content)
}

func TestHandleDuplicateRequestsRunOnce(t *testing.T) {
	retriever := &fakeRetriever{ctxToReturn: groundedContext()}
	args := map[string]interface{}{"ticket_id": "t1"}
	p := &fakePlanner{plans: []*planner.Plan{
		{ToolRequests: []planner.ToolRequest{{Tool: "escalate_ticket", Arguments: args}}},
		{ToolRequests: []planner.ToolRequest{{Tool: "escalate_ticket", Arguments: args}}},
		{Reply: "Done."},
	}}
	executor := &fakeExecutor{}
	o := newTestOrchestrator(retriever, p, executor)

	resp, err := o.Handle(context.Background(), Request{
		Message: strPtr("escalate"),
		UserId:  uuid.New(),
		Role:    constant.RoleAgent,
	})

	assert.NoError(t, err)
	assert.Len(t, executor.executed, 1, "identical request must not run twice")
	assert.Equal(t, "Done.", resp.Content)
}

func TestHandleFailedToolStillResponds(t *testing.T) {
	retriever := &fakeRetriever{ctxToReturn: groundedContext()}
	p := &fakePlanner{plans: []*planner.Plan{
		{ToolRequests: []planner.ToolRequest{
			{Tool: "escalate_ticket", Arguments: map[string]interface{}{"ticket_id": "t1"}},
		}},
		{Reply: "The escalation failed, a human will follow up."},
	}}
	executor := &fakeExecutor{failWith: map[string]string{"escalate_ticket": "ticket t1 not found"}}
	o := newTestOrchestrator(retriever, p, executor)

	resp, err := o.Handle(context.Background(), Request{
		Message: strPtr("escalate"),
		UserId:  uuid.New(),
		Role:    constant.RoleAgent,
	})

	assert.NoError(t, err)
	assert.Len(t, resp.ToolCalls, 1)
	assert.True(t, resp.ToolCalls[0].Failed())
	assert.Equal(t, "The escalation failed, a human will follow up.", resp.Content)
}
