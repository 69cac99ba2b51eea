package adapter

// Set is an insertion-ordered collection of adapters, deduplicated by id
type Set struct {
	items []Adapter
	index map[string]struct{}
}

// NewSet creates a set holding the given adapters in order
func NewSet(adapters ...Adapter) *Set {
	s := &Set{index: make(map[string]struct{})}
	for _, a := range adapters {
		s.Add(a)
	}
	return s
}

// Add appends the adapter unless one with the same id is present.
// It reports whether the adapter was added.
func (s *Set) Add(a Adapter) bool {
	if s.Contains(a) {
		return false
	}
	s.items = append(s.items, a)
	s.index[a.ID()] = struct{}{}
	return true
}

// Contains reports whether an adapter with the same id is in the set
func (s *Set) Contains(a Adapter) bool {
	_, ok := s.index[a.ID()]
	return ok
}

// Len returns the number of adapters
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Adapters returns the adapters in discovery order
func (s *Set) Adapters() []Adapter {
	if s == nil {
		return nil
	}
	out := make([]Adapter, len(s.items))
	copy(out, s.items)
	return out
}

// IDs returns the adapter ids in discovery order
func (s *Set) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, len(s.items))
	for i, a := range s.items {
		ids[i] = a.ID()
	}
	return ids
}
