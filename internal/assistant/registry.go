package assistant

import (
	"context"
)

// Tool defines the interface for a tool
type Tool interface {
	Definition() ToolDefinition
	// Execute runs the tool. A returned error is reported back to the model
	// as an "ERROR: ..." result and never ends the run.
	Execute(ctx context.Context, args Arguments) (string, error)
}

// ToolRegistry manages the available tools
type ToolRegistry struct {
	tools map[string]Tool
	order []string
}

// NewToolRegistry creates a new tool registry
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool under its definition name, replacing any tool already
// bound to that name. A replaced tool keeps its original position.
func (r *ToolRegistry) Register(t Tool) {
	name := t.Definition().Name
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = t
}

// Get retrieves a tool by name
func (r *ToolRegistry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Definitions returns the definitions of all registered tools in registration order
func (r *ToolRegistry) Definitions() []ToolDefinition {
	defs := make([]ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}
