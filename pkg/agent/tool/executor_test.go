package tool

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"

	"support-agent-be/internal/constant"
	"support-agent-be/pkg/agent"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newTestExecutor() (*Registry, *Executor) {
	registry := NewRegistry()
	registry.Register(&Definition{
		Name:         "escalate_ticket",
		Enabled:      true,
		RequiredRole: constant.RoleAgent,
		Args: []ArgSpec{
			{Name: "ticket_id", Type: "string", Required: true},
		},
	})
	registry.Register(&Definition{
		Name:         "legacy_reopen",
		Enabled:      false,
		RequiredRole: constant.RoleAgent,
	})

	executor := NewExecutor(registry, log.New(os.Stderr, "", 0))
	executor.Bind("escalate_ticket", func(ctx context.Context, args map[string]interface{}, actingUserId uuid.UUID) (map[string]interface{}, error) {
		if args["ticket_id"] == "boom" {
			return nil, fmt.Errorf("ticket boom not found")
		}
		return map[string]interface{}{"status": "escalated"}, nil
	})

	return registry, executor
}

func TestExecutorValidationChain(t *testing.T) {
	_, executor := newTestExecutor()

	tests := []struct {
		name        string
		tool        string
		args        map[string]interface{}
		role        string
		wantErrPart string
	}{
		{
			name:        "unknown tool",
			tool:        "delete_everything",
			args:        map[string]interface{}{},
			role:        constant.RoleAdmin,
			wantErrPart: "unknown tool",
		},
		{
			name:        "disabled tool",
			tool:        "legacy_reopen",
			args:        map[string]interface{}{},
			role:        constant.RoleAdmin,
			wantErrPart: "disabled",
		},
		{
			name:        "insufficient role",
			tool:        "escalate_ticket",
			args:        map[string]interface{}{"ticket_id": "t1"},
			role:        constant.RoleUser,
			wantErrPart: "not allowed",
		},
		{
			name:        "missing required argument",
			tool:        "escalate_ticket",
			args:        map[string]interface{}{},
			role:        constant.RoleAgent,
			wantErrPart: "missing required argument",
		},
		{
			name:        "handler failure",
			tool:        "escalate_ticket",
			args:        map[string]interface{}{"ticket_id": "boom"},
			role:        constant.RoleAgent,
			wantErrPart: "not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call := executor.Execute(context.Background(), agent.PipelineCall{
				TraceId:      uuid.New(),
				Tool:         tt.tool,
				Arguments:    tt.args,
				ActingUserId: uuid.New(),
				ActingRole:   tt.role,
			})

			assert.NotNil(t, call)
			assert.True(t, call.Failed())
			assert.Contains(t, call.Error, tt.wantErrPart)
			assert.Nil(t, call.Result)
			assert.False(t, call.EndTime.IsZero())
		})
	}
}

func TestExecutorSuccess(t *testing.T) {
	_, executor := newTestExecutor()

	traceId := uuid.New()
	call := executor.Execute(context.Background(), agent.PipelineCall{
		TraceId:      traceId,
		Tool:         "escalate_ticket",
		Arguments:    map[string]interface{}{"ticket_id": "t1"},
		ActingUserId: uuid.New(),
		ActingRole:   constant.RoleAgent,
	})

	assert.False(t, call.Failed())
	assert.Equal(t, traceId, call.TraceId)
	assert.Equal(t, "escalated", call.Result["status"])
	assert.False(t, call.StartTime.IsZero())
	assert.False(t, call.EndTime.Before(call.StartTime))
}

func TestExecutorRoleGateIsExact(t *testing.T) {
	_, executor := newTestExecutor()

	// Admin does not inherit agent tools; the gate matches the required
	// role exactly.
	call := executor.Execute(context.Background(), agent.PipelineCall{
		TraceId:      uuid.New(),
		Tool:         "escalate_ticket",
		Arguments:    map[string]interface{}{"ticket_id": "t1"},
		ActingUserId: uuid.New(),
		ActingRole:   constant.RoleAdmin,
	})

	assert.True(t, call.Failed())
	assert.Contains(t, call.Error, "not allowed")
	assert.Nil(t, call.Result)
}
