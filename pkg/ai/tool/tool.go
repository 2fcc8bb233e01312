package tool

import (
	"fmt"

	"github.com/nalssi/nalssi/pkg/ai/types"
)

// Declaration describes one callable function: its name, what it does, and
// the JSON schema of its arguments. The schema is advisory metadata for the
// model; argument enforcement happens in the executors.
type Declaration struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Registry is an ordered, name-unique catalog of tool declarations. It has
// no side effects and its contents are stable for the lifetime of a run.
type Registry struct {
	declarations []Declaration
	byName       map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]struct{}),
	}
}

// Register adds a declaration. A duplicate name is a wiring bug, so it
// panics rather than silently shadowing the earlier declaration.
func (r *Registry) Register(d Declaration) {
	if _, exists := r.byName[d.Name]; exists {
		panic(fmt.Sprintf("tool: duplicate declaration %q", d.Name))
	}

	r.byName[d.Name] = struct{}{}
	r.declarations = append(r.declarations, d)
}

// Declarations returns all declarations in registration order.
func (r *Registry) Declarations() []Declaration {
	out := make([]Declaration, len(r.declarations))
	copy(out, r.declarations)
	return out
}

// ToTypesTools converts the catalog into the shape handed to the provider.
func (r *Registry) ToTypesTools() []types.Tool {
	out := make([]types.Tool, 0, len(r.declarations))
	for _, d := range r.declarations {
		out = append(out, types.Tool{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  d.Parameters,
		})
	}
	return out
}

// Has reports whether a declaration with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}
