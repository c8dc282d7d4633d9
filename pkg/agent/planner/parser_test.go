package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePlan(t *testing.T) {
	tests := []struct {
		name          string
		response      string
		wantErr       bool
		wantReply     string
		wantToolCount int
	}{
		{
			name:      "plain json reply",
			response:  `{"reply": "Refunds take five business days.", "tool_requests": []}`,
			wantReply: "Refunds take five business days.",
		},
		{
			name: "fenced json",
			response: "```json\n" +
				`{"reply": "", "tool_requests": [{"tool": "escalate_ticket", "arguments": {"ticket_id": "t1"}}]}` +
				"\n```",
			wantToolCount: 1,
		},
		{
			name:          "json wrapped in prose",
			response:      `Sure, here is my decision: {"reply": "Done.", "tool_requests": []} Hope that helps!`,
			wantReply:     "Done.",
			wantToolCount: 0,
		},
		{
			name:    "no json at all",
			response: "I think the customer wants a refund.",
			wantErr: true,
		},
		{
			name:    "empty plan",
			response: `{"reply": "", "tool_requests": []}`,
			wantErr: true,
		},
		{
			name: "nameless requests dropped",
			response: `{"reply": "ok", "tool_requests": [{"tool": "", "arguments": {}}, {"tool": "close_ticket", "arguments": null}]}`,
			wantReply:     "ok",
			wantToolCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := parsePlan(tt.response)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantReply, plan.Reply)
			assert.Len(t, plan.ToolRequests, tt.wantToolCount)
			for _, req := range plan.ToolRequests {
				assert.NotNil(t, req.Arguments)
			}
		})
	}
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no fences", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripCodeFences(tt.input))
		})
	}
}
