// internal/wizard/registry.go
package wizard

import (
	"fmt"
	"sort"

	"contest-console/internal/ai"
	"contest-console/internal/common/validation"
)

// Definition binds one command name to its step list, its handler and
// the schema the collected fields must satisfy before Execute.
type Definition struct {
	Command     string
	Category    string
	Description string
	// Steps are the field names, in order; StepIndex indexes this slice.
	Steps       []string
	Handler     Handler
	FieldSchema validation.JSONSchema
}

// Registry is the static command table, resolved once at startup.
type Registry struct {
	definitions map[string]*Definition
}

func NewRegistry(definitions ...*Definition) (*Registry, error) {
	r := &Registry{definitions: make(map[string]*Definition, len(definitions))}
	for _, def := range definitions {
		if def.Command == "" || def.Handler == nil || len(def.Steps) == 0 {
			return nil, fmt.Errorf("incomplete definition for command %q", def.Command)
		}
		if _, exists := r.definitions[def.Command]; exists {
			return nil, fmt.Errorf("duplicate command %q", def.Command)
		}
		r.definitions[def.Command] = def
	}
	return r, nil
}

// Resolve returns the definition for a command, nil when unknown.
func (r *Registry) Resolve(command string) *Definition {
	return r.definitions[command]
}

// Commands returns all registered command names, sorted.
func (r *Registry) Commands() []string {
	names := make([]string, 0, len(r.definitions))
	for name := range r.definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EnabledCommands supplies the command list for the chat prompt.
func (r *Registry) EnabledCommands() []ai.CommandInfo {
	infos := make([]ai.CommandInfo, 0, len(r.definitions))
	for _, name := range r.Commands() {
		def := r.definitions[name]
		infos = append(infos, ai.CommandInfo{
			Name:        def.Command,
			Category:    def.Category,
			Description: def.Description,
		})
	}
	return infos
}
