package tool

import (
	"testing"

	"support-agent-be/internal/constant"

	"github.com/stretchr/testify/assert"
)

func seedRegistry() *Registry {
	r := NewRegistry()
	r.Register(&Definition{Name: "close_ticket", Enabled: true, RequiredRole: constant.RoleAdmin})
	r.Register(&Definition{Name: "assign_ticket", Enabled: true, RequiredRole: constant.RoleAdmin})
	r.Register(&Definition{Name: "add_ticket_note", Enabled: true, RequiredRole: constant.RoleAgent})
	r.Register(&Definition{Name: "escalate_ticket", Enabled: true, RequiredRole: constant.RoleAgent})
	r.Register(&Definition{Name: "legacy_reopen", Enabled: false, RequiredRole: constant.RoleAgent})
	return r
}

func TestRegistryList(t *testing.T) {
	registry := seedRegistry()

	tests := []struct {
		name      string
		role      string
		wantNames []string
	}{
		{
			name:      "customer sees no tools",
			role:      constant.RoleUser,
			wantNames: nil,
		},
		{
			name:      "agent sees agent tools only",
			role:      constant.RoleAgent,
			wantNames: []string{"add_ticket_note", "escalate_ticket"},
		},
		{
			name:      "admin sees admin tools only",
			role:      constant.RoleAdmin,
			wantNames: []string{"assign_ticket", "close_ticket"},
		},
		{
			name:      "unknown role sees nothing",
			role:      "superuser",
			wantNames: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defs := registry.List(tt.role)

			var names []string
			for _, def := range defs {
				names = append(names, def.Name)
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestRegistryListExcludesDisabled(t *testing.T) {
	registry := seedRegistry()

	for _, def := range registry.List(constant.RoleAdmin) {
		assert.True(t, def.Enabled)
		assert.NotEqual(t, "legacy_reopen", def.Name)
	}
}

func TestRoleAllowed(t *testing.T) {
	tests := []struct {
		role     string
		required string
		want     bool
	}{
		{constant.RoleUser, constant.RoleUser, true},
		{constant.RoleUser, constant.RoleAgent, false},
		{constant.RoleAgent, constant.RoleAgent, true},
		{constant.RoleAgent, constant.RoleAdmin, false},
		{constant.RoleAdmin, constant.RoleAgent, false},
		{constant.RoleAdmin, constant.RoleAdmin, true},
		{"", constant.RoleUser, false},
		{constant.RoleAdmin, "", false},
	}

	for _, tt := range tests {
		got := RoleAllowed(tt.role, tt.required)
		if got != tt.want {
			t.Errorf("RoleAllowed(%q, %q) = %v, want %v", tt.role, tt.required, got, tt.want)
		}
	}
}

func TestValidateArgs(t *testing.T) {
	def := &Definition{
		Name: "assign_ticket",
		Args: []ArgSpec{
			{Name: "ticket_id", Type: "string", Required: true},
			{Name: "assignee_id", Type: "string", Required: true},
			{Name: "notify", Type: "boolean", Required: false},
		},
	}

	tests := []struct {
		name    string
		args    map[string]interface{}
		wantErr bool
	}{
		{
			name: "valid with optional",
			args: map[string]interface{}{
				"ticket_id":   "t1",
				"assignee_id": "a1",
				"notify":      true,
			},
		},
		{
			name: "valid without optional",
			args: map[string]interface{}{
				"ticket_id":   "t1",
				"assignee_id": "a1",
			},
		},
		{
			name:    "missing required",
			args:    map[string]interface{}{"ticket_id": "t1"},
			wantErr: true,
		},
		{
			name: "wrong type",
			args: map[string]interface{}{
				"ticket_id":   42,
				"assignee_id": "a1",
			},
			wantErr: true,
		},
		{
			name: "unknown argument",
			args: map[string]interface{}{
				"ticket_id":   "t1",
				"assignee_id": "a1",
				"force":       true,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := def.ValidateArgs(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
