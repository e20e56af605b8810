package cdm

import (
	"sort"

	"github.com/cockroachdb/errors"
)

// Registry owns the loaded entities keyed by name.
// Iteration follows insertion order, which is the order resolution observes.
type Registry struct {
	order    []string
	entities map[string]*Entity
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{entities: make(map[string]*Entity)}
}

// Add registers an entity. Names must be unique.
func (r *Registry) Add(e *Entity) error {
	if e.Name == "" {
		return errors.New("entity has no name")
	}
	if _, ok := r.entities[e.Name]; ok {
		return errors.Newf("entity %q is defined more than once", e.Name)
	}
	r.order = append(r.order, e.Name)
	r.entities[e.Name] = e
	return nil
}

// Get returns the entity registered under name.
func (r *Registry) Get(name string) (*Entity, bool) {
	e, ok := r.entities[name]
	return e, ok
}

// Len returns the number of registered entities
func (r *Registry) Len() int {
	return len(r.order)
}

// Entities returns every entity in insertion order.
func (r *Registry) Entities() []*Entity {
	out := make([]*Entity, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.entities[name])
	}
	return out
}

// Sorted returns every entity ordered by name.
func (r *Registry) Sorted() []*Entity {
	out := r.Entities()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *Registry) lookup(name, referencedBy, kind string) (*Entity, error) {
	e, ok := r.entities[name]
	if !ok {
		return nil, missingEntity(name, referencedBy, kind)
	}
	return e, nil
}
