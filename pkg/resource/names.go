package resource

import (
	"sort"

	"gitlab.com/tinyland/lab/framekit/pkg/handle"
)

// NamedIDMap binds caller-chosen CSS ids to handles. A name has at most one
// live binding; the binding and the asset entry it points at have
// independent lifetimes.
type NamedIDMap[H handle.Kind] struct {
	alloc  func() H
	byName map[string]H
}

// NewNamedIDMap creates an empty map that allocates fresh handles with
// alloc.
func NewNamedIDMap[H handle.Kind](alloc func() H) *NamedIDMap[H] {
	return &NamedIDMap[H]{alloc: alloc, byName: make(map[string]H)}
}

// Add returns the handle bound to name, allocating one on first use.
func (m *NamedIDMap[H]) Add(name string) H {
	if id, ok := m.byName[name]; ok {
		return id
	}
	id := m.alloc()
	m.byName[name] = id
	return id
}

// Has reports whether name is bound.
func (m *NamedIDMap[H]) Has(name string) bool {
	_, ok := m.byName[name]
	return ok
}

// Get returns the handle bound to name.
func (m *NamedIDMap[H]) Get(name string) (H, bool) {
	id, ok := m.byName[name]
	return id, ok
}

// Delete removes the binding and returns the handle it pointed at.
func (m *NamedIDMap[H]) Delete(name string) (H, bool) {
	id, ok := m.byName[name]
	if ok {
		delete(m.byName, name)
	}
	return id, ok
}

// Names returns every bound name, sorted.
func (m *NamedIDMap[H]) Names() []string {
	names := make([]string, 0, len(m.byName))
	for n := range m.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of bindings.
func (m *NamedIDMap[H]) Len() int {
	return len(m.byName)
}
