// Package orchestrator drives one support exchange through the pipeline
// states: retrieval, planning, tool execution and response assembly.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	"support-agent-be/internal/constant"
	"support-agent-be/pkg/agent"
	"support-agent-be/pkg/agent/planner"
	"support-agent-be/pkg/agent/retrieval"
	"support-agent-be/pkg/agent/tool"
	"support-agent-be/pkg/llm"

	"github.com/google/uuid"
)

// State is the current phase of a pipeline run. Transitions are strictly
// forward except for the Planning/ToolExecuting loop.
type State string

const (
	StateIdle          State = "IDLE"
	StateRetrieving    State = "RETRIEVING"
	StatePlanning      State = "PLANNING"
	StateToolExecuting State = "TOOL_EXECUTING"
	StateResponding    State = "RESPONDING"
	StateDone          State = "DONE"
	StateFailed        State = "FAILED"
)

// Retriever produces grounded context for a query. Implementations fail
// open and never return an error.
type Retriever interface {
	Retrieve(ctx context.Context, traceId uuid.UUID, query string, k int, categoryFilter string) *agent.RAGContext
}

// Planner decides the next step for one round.
type Planner interface {
	Plan(ctx context.Context, in planner.Input) (*planner.Plan, error)
}

// Executor runs one validated tool invocation.
type Executor interface {
	Execute(ctx context.Context, pc agent.PipelineCall) *agent.ToolCall
}

// Catalogue exposes the tool registry surface the orchestrator needs.
type Catalogue interface {
	List(role string) []*tool.Definition
	Get(name string) *tool.Definition
}

// Request is one inbound customer message. A nil or empty Message is the
// greeting case, not an error.
type Request struct {
	Message        *string
	TicketId       *uuid.UUID
	UserId         uuid.UUID
	Role           string
	History        []llm.Message
	CategoryFilter string
}

// Config bounds a pipeline run.
type Config struct {
	MaxToolRounds int
	TopK          int
}

type Orchestrator struct {
	retriever Retriever
	planner   Planner
	executor  Executor
	catalogue Catalogue
	config    Config
	logger    *log.Logger
}

func NewOrchestrator(
	retriever Retriever,
	planner Planner,
	executor Executor,
	catalogue Catalogue,
	config Config,
	logger *log.Logger,
) *Orchestrator {
	if config.MaxToolRounds <= 0 {
		config.MaxToolRounds = 3
	}
	return &Orchestrator{
		retriever: retriever,
		planner:   planner,
		executor:  executor,
		catalogue: catalogue,
		config:    config,
		logger:    logger,
	}
}

// Handle runs one exchange end to end. The only error it returns is
// agent.ErrModelUnavailable after the retry budget is spent; every other
// failure mode degrades into the response itself. The returned Response is
// non-nil even on error so the caller can persist what was attempted.
func (o *Orchestrator) Handle(ctx context.Context, req Request) (*agent.Response, error) {
	traceId := uuid.New()
	state := StateIdle

	response := &agent.Response{
		TraceId: traceId,
		Metrics: &agent.MetricSnapshot{},
	}

	query, greeting := resolveQuery(req.Message)
	state = o.transition(traceId, state, StateRetrieving)

	ragCtx := o.retriever.Retrieve(ctx, traceId, query, o.config.TopK, req.CategoryFilter)
	response.Context = ragCtx

	if greeting {
		// Empty inbound message: greet without planning or tools.
		state = o.transition(traceId, state, StateResponding)
		response.Content = constant.GreetingReply
		o.transition(traceId, state, StateDone)
		return response, nil
	}

	allowed := o.catalogue.List(req.Role)
	executed := make(map[string]bool)

	var content string

	for round := 1; round <= o.config.MaxToolRounds; round++ {
		state = o.transition(traceId, state, StatePlanning)

		plan, err := o.planner.Plan(ctx, planner.Input{
			Query:     query,
			History:   req.History,
			Context:   ragCtx,
			Tools:     allowed,
			PrevCalls: response.ToolCalls,
			Round:     round,
			MaxRounds: o.config.MaxToolRounds,
		})
		if err != nil {
			o.transition(traceId, state, StateFailed)
			response.Content = constant.FailureReply
			return response, err
		}

		if len(plan.ToolRequests) == 0 {
			content = plan.Reply
			break
		}

		requests := o.filterRequests(traceId, req.Role, plan.ToolRequests, executed)
		if len(requests) == 0 {
			// Every request was dropped; replan with what we have or
			// fall back to the plan's own partial reply.
			if plan.Reply != "" {
				content = plan.Reply
				break
			}
			continue
		}

		state = o.transition(traceId, state, StateToolExecuting)
		calls := o.executeAll(ctx, traceId, req, requests)
		response.ToolCalls = append(response.ToolCalls, calls...)
		for _, call := range calls {
			executed[callKey(call.Tool, call.Arguments)] = true
		}
	}

	if content == "" {
		o.logger.Printf("[ORCHESTRATOR] Tool round limit reached (trace=%s)", traceId)
		content = constant.ToolLimitReply
	}

	state = o.transition(traceId, state, StateResponding)

	if len(ragCtx.Relevant) == 0 && len(response.ToolCalls) == 0 {
		content = constant.UngroundedPreamble + "\n\n" + content
	}

	relevantContent := make([]string, 0, len(ragCtx.Relevant))
	for _, chunk := range ragCtx.Relevant {
		relevantContent = append(relevantContent, chunk.Content)
	}
	ragCtx.ContextMatch = retrieval.ContextMatch(relevantContent, content)

	response.Content = content
	o.transition(traceId, state, StateDone)
	return response, nil
}

// filterRequests drops requests the acting role is not allowed to make, as
// well as repeats of calls that already ran this request. Drops are silent
// towards the customer and loud in the logs.
func (o *Orchestrator) filterRequests(traceId uuid.UUID, role string, requests []planner.ToolRequest, executed map[string]bool) []planner.ToolRequest {
	var kept []planner.ToolRequest
	for _, req := range requests {
		def := o.catalogue.Get(req.Tool)
		if def == nil || !def.Enabled || !tool.RoleAllowed(role, def.RequiredRole) {
			o.logger.Printf("[ORCHESTRATOR] Dropping tool request '%s' for role '%s' (trace=%s)", req.Tool, role, traceId)
			continue
		}
		if executed[callKey(req.Tool, req.Arguments)] {
			o.logger.Printf("[ORCHESTRATOR] Dropping repeated tool request '%s' (trace=%s)", req.Tool, traceId)
			continue
		}
		kept = append(kept, req)
	}
	return kept
}

// executeAll runs a round's tool requests concurrently and returns the
// calls in request order.
func (o *Orchestrator) executeAll(ctx context.Context, traceId uuid.UUID, req Request, requests []planner.ToolRequest) []*agent.ToolCall {
	calls := make([]*agent.ToolCall, len(requests))

	var wg sync.WaitGroup
	for i, request := range requests {
		wg.Add(1)
		go func(idx int, tr planner.ToolRequest) {
			defer wg.Done()
			calls[idx] = o.executor.Execute(ctx, agent.PipelineCall{
				TraceId:      traceId,
				Tool:         tr.Tool,
				Arguments:    tr.Arguments,
				ActingUserId: req.UserId,
				ActingRole:   req.Role,
			})
		}(i, request)
	}
	wg.Wait()

	return calls
}

func (o *Orchestrator) transition(traceId uuid.UUID, from, to State) State {
	o.logger.Printf("[ORCHESTRATOR] %s -> %s (trace=%s)", from, to, traceId)
	return to
}

func resolveQuery(message *string) (query string, greeting bool) {
	if message == nil || strings.TrimSpace(*message) == "" {
		return constant.GreetingQuery, true
	}
	return *message, false
}

func callKey(toolName string, args map[string]interface{}) string {
	raw, err := json.Marshal(args)
	if err != nil {
		return toolName
	}
	return fmt.Sprintf("%s:%s", toolName, raw)
}
