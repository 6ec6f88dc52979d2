package tools

import (
	"fmt"
	"sort"

	"github.com/sashabaranov/go-openai"

	"ollama-tools/backend/internal/adapter"
)

// Register adds a tool. Returns an error if the name is empty or taken.
func (r *Registry) Register(def adapter.Tool, handler Handler) error {
	name := def.Function.Name
	if name == "" {
		return fmt.Errorf("tool definition has no name")
	}
	if handler == nil {
		return fmt.Errorf("tool %q has no handler", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool already registered: %q", name)
	}
	r.tools[name] = registeredTool{definition: def, handler: handler}
	return nil
}

// Has reports whether a tool is registered under name
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tools[name]
	return ok
}

// Names returns the registered tool names, sorted alphabetically
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Definitions returns the tool definitions sorted by name
func (r *Registry) Definitions() []adapter.Tool {
	names := r.Names()

	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]adapter.Tool, 0, len(names))
	for _, name := range names {
		if tool, ok := r.tools[name]; ok {
			defs = append(defs, tool.definition)
		}
	}
	return defs
}

// OpenAITools returns the definitions in go-openai format
func (r *Registry) OpenAITools() []openai.Tool {
	return adapter.ToOpenAITools(r.Definitions())
}
