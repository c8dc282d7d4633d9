package tool

import (
	"sort"
	"sync"
)

// RoleAllowed reports whether the acting role may use a tool gated on
// required. The gate is exact: an admin does not inherit agent tools, so a
// listing for one role never leaks another role's catalogue.
func RoleAllowed(role, required string) bool {
	return role != "" && role == required
}

// Registry holds the tool catalogue. Registration happens at startup;
// lookups are concurrent afterwards.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]*Definition
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]*Definition)}
}

// Register adds or replaces a tool definition by name.
func (r *Registry) Register(def *Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[def.Name] = def
}

// Get returns the definition by name, or nil when the name is unknown.
func (r *Registry) Get(name string) *Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools[name]
}

// List returns the tools that are enabled and allowed for the given acting
// role, sorted by name for a stable catalogue.
func (r *Registry) List(role string) []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var defs []*Definition
	for _, def := range r.tools {
		if !def.Enabled {
			continue
		}
		if !RoleAllowed(role, def.RequiredRole) {
			continue
		}
		defs = append(defs, def)
	}

	sort.Slice(defs, func(i, j int) bool {
		return defs[i].Name < defs[j].Name
	})
	return defs
}
