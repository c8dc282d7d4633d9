package tool

import (
	"context"
	"fmt"
	"log"
	"time"

	"support-agent-be/pkg/agent"

	"github.com/google/uuid"
)

// Handler executes a tool's side effect. It receives already-validated
// arguments plus the acting user so handlers can attribute their changes.
type Handler func(ctx context.Context, args map[string]interface{}, actingUserId uuid.UUID) (map[string]interface{}, error)

// Executor validates and runs tool invocations. Every failure mode is
// captured on the returned ToolCall rather than surfaced as an error, so a
// single bad invocation never aborts the surrounding pipeline run.
type Executor struct {
	registry *Registry
	handlers map[string]Handler
	logger   *log.Logger
}

func NewExecutor(registry *Registry, logger *log.Logger) *Executor {
	return &Executor{
		registry: registry,
		handlers: make(map[string]Handler),
		logger:   logger,
	}
}

// Bind attaches the handler for a registered tool name.
func (e *Executor) Bind(name string, handler Handler) {
	e.handlers[name] = handler
}

// Execute runs one tool invocation end to end. The validation chain is
// checked in order: name known, tool enabled, role allowed, arguments
// valid, handler bound. The first failure is recorded on the call and the
// handler is never reached.
func (e *Executor) Execute(ctx context.Context, pc agent.PipelineCall) *agent.ToolCall {
	call := &agent.ToolCall{
		Id:        uuid.New(),
		TraceId:   pc.TraceId,
		Tool:      pc.Tool,
		Arguments: pc.Arguments,
		StartTime: time.Now(),
	}

	def := e.registry.Get(pc.Tool)
	switch {
	case def == nil:
		call.Error = fmt.Sprintf("unknown tool '%s'", pc.Tool)
	case !def.Enabled:
		call.Error = fmt.Sprintf("tool '%s' is disabled", pc.Tool)
	case !RoleAllowed(pc.ActingRole, def.RequiredRole):
		call.Error = fmt.Sprintf("%v: role '%s' is not allowed to invoke '%s'", agent.ErrForbidden, pc.ActingRole, pc.Tool)
	}
	if call.Error != "" {
		call.EndTime = time.Now()
		e.logger.Printf("[TOOL] Rejected %s (trace=%s): %s", pc.Tool, pc.TraceId, call.Error)
		return call
	}

	if err := def.ValidateArgs(pc.Arguments); err != nil {
		call.Error = err.Error()
		call.EndTime = time.Now()
		e.logger.Printf("[TOOL] Invalid arguments for %s (trace=%s): %s", pc.Tool, pc.TraceId, call.Error)
		return call
	}

	handler, ok := e.handlers[pc.Tool]
	if !ok {
		call.Error = fmt.Sprintf("no handler bound for tool '%s'", pc.Tool)
		call.EndTime = time.Now()
		e.logger.Printf("[TOOL] %s", call.Error)
		return call
	}

	result, err := handler(ctx, pc.Arguments, pc.ActingUserId)
	call.EndTime = time.Now()
	if err != nil {
		call.Error = fmt.Sprintf("%v: %v", agent.ErrToolExecution, err)
		e.logger.Printf("[TOOL] Execution of %s failed (trace=%s): %v", pc.Tool, pc.TraceId, err)
		return call
	}

	call.Result = result
	e.logger.Printf("[TOOL] Executed %s (trace=%s) in %s", pc.Tool, pc.TraceId, call.EndTime.Sub(call.StartTime))
	return call
}
