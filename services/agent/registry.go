package agent

import (
	"context"
	"sync"

	"mentorline/models"
)

// HandlerFunc executes one tool call against the bound session. The args map
// is the handler's to annotate; the dispatcher records it on the action log
// after the call returns.
type HandlerFunc func(ctx context.Context, session *models.ConversationSession, args map[string]any) (string, error)

// Param describes one argument in a tool's schema, in the shape function
// declarations are exported to the external decision-maker.
type Param struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Tool is one named, externally invocable operation.
type Tool struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Params      []Param     `json:"params"`
	Handler     HandlerFunc `json:"-"`
}

// Registry maps tool names to their schema and handler. The decision-maker's
// invocation protocol only ever sees names and argument maps; the internal
// method layout stays decoupled.
type Registry struct {
	mu    sync.RWMutex
	order []string
	tools map[string]Tool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool. Re-registering a name replaces the previous entry.
func (r *Registry) Register(tool Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[tool.Name]; !exists {
		r.order = append(r.order, tool.Name)
	}
	r.tools[tool.Name] = tool
}

// Get looks up a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// List returns all tools in registration order.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}
