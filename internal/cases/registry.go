// Package cases holds the acceptance cases run against the improver CLI.
package cases

import (
	"fmt"
	"sort"

	"iat/internal/domain"
)

// Registry is an ordered set of cases keyed by ID.
type Registry struct {
	byID map[string]domain.Case
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]domain.Case)}
}

// Builtin returns a registry holding the built-in cases. It panics if two
// built-in cases share an ID.
func Builtin() *Registry {
	r := NewRegistry()
	for _, c := range builtinCases() {
		if err := r.Add(c); err != nil {
			panic(err)
		}
	}
	return r
}

// Add registers c. Duplicate IDs are rejected.
func (r *Registry) Add(c domain.Case) error {
	id := c.ID()
	if existing, ok := r.byID[id]; ok {
		return fmt.Errorf("duplicate case %q (defined in %s and %s)", id, existing.Source, c.Source)
	}
	r.byID[id] = c
	return nil
}

// Get looks up a case by ID.
func (r *Registry) Get(id string) (domain.Case, bool) {
	c, ok := r.byID[id]
	return c, ok
}

// All returns every case sorted by ID.
func (r *Registry) All() []domain.Case {
	out := make([]domain.Case, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Len returns the number of cases.
func (r *Registry) Len() int {
	return len(r.byID)
}
