// Package tool implements the named-operation registry and the validating
// executor the agent pipeline uses to act on tickets.
package tool

import (
	"fmt"

	"support-agent-be/pkg/agent"
)

// ArgSpec describes a single argument of a tool. Supported types are
// "string", "number" and "boolean".
type ArgSpec struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Description string `json:"description"`
}

// Definition describes one registered tool. RequiredRole is the exact
// acting role allowed to invoke it; no role inherits another's tools.
type Definition struct {
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Args         []ArgSpec `json:"args"`
	Enabled      bool      `json:"enabled"`
	RequiredRole string    `json:"required_role"`
}

// ValidateArgs checks the supplied arguments against the declared list: every
// required argument must be present and every present argument must have
// the declared type. Unknown arguments are rejected.
func (d *Definition) ValidateArgs(args map[string]interface{}) error {
	known := make(map[string]ArgSpec, len(d.Args))
	for _, spec := range d.Args {
		known[spec.Name] = spec
		if spec.Required {
			if _, ok := args[spec.Name]; !ok {
				return fmt.Errorf("%w: missing required argument '%s'", agent.ErrValidation, spec.Name)
			}
		}
	}

	for name, value := range args {
		spec, ok := known[name]
		if !ok {
			return fmt.Errorf("%w: unknown argument '%s'", agent.ErrValidation, name)
		}
		if err := checkType(spec.Type, value); err != nil {
			return fmt.Errorf("%w: argument '%s': %v", agent.ErrValidation, name, err)
		}
	}
	return nil
}

func checkType(expected string, value interface{}) error {
	switch expected {
	case "string":
		if _, ok := value.(string); !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
	case "number":
		switch value.(type) {
		case float64, float32, int, int64:
		default:
			return fmt.Errorf("expected number, got %T", value)
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("expected boolean, got %T", value)
		}
	default:
		return fmt.Errorf("unsupported argument type '%s'", expected)
	}
	return nil
}
