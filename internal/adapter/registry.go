package adapter

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"adaptkit/internal/domain"
	"adaptkit/internal/logging"
)

var (
	// ErrDuplicateAdapter is returned when an adapter id is registered twice
	ErrDuplicateAdapter = errors.New("adapter already registered")
	// ErrKindConflict is returned when two adapters declare the same element kind
	ErrKindConflict = errors.New("element kind already owned")
	// ErrInvalidRegistration is returned for registrations missing an id or factory
	ErrInvalidRegistration = errors.New("invalid adapter registration")
)

// entry is a registered adapter and its lazily built instance
type entry struct {
	reg      Registration
	config   AdapterConfig
	instance Adapter
	built    bool
}

// Registry manages all registered adapters.
// Registration order is the enumeration order everywhere.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]*entry
	kinds   map[domain.ElementKind]string
	log     *slog.Logger
}

// NewRegistry creates a new adapter registry
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*entry),
		kinds:   make(map[domain.ElementKind]string),
		log:     logging.New("registry"),
	}
}

// Register adds an adapter to the registration table
func (r *Registry) Register(reg Registration, config AdapterConfig) error {
	id := reg.Descriptor.ID
	if id == "" || reg.Factory == nil {
		return fmt.Errorf("%q: %w", id, ErrInvalidRegistration)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[id]; exists {
		return fmt.Errorf("adapter %s: %w", id, ErrDuplicateAdapter)
	}
	for _, kind := range reg.Descriptor.Kinds {
		if owner, taken := r.kinds[kind]; taken {
			return fmt.Errorf("adapter %s declares %s owned by %s: %w", id, kind, owner, ErrKindConflict)
		}
	}

	for _, kind := range reg.Descriptor.Kinds {
		r.kinds[kind] = id
	}
	r.entries[id] = &entry{reg: reg, config: config}
	r.order = append(r.order, id)

	r.log.Info("registered adapter",
		"id", id, "kinds", len(reg.Descriptor.Kinds), "enabled", config.Enabled)
	return nil
}

// Adapters returns the instantiated, enabled adapters in registration order.
// Each adapter is built once; a factory failure is logged and the adapter is
// left out of the universe for the lifetime of the registry.
func (r *Registry) Adapters() []Adapter {
	r.mu.Lock()
	defer r.mu.Unlock()

	adapters := make([]Adapter, 0, len(r.order))
	for _, id := range r.order {
		if a := r.instanceLocked(id); a != nil {
			adapters = append(adapters, a)
		}
	}
	return adapters
}

// Get returns the instantiated adapter with the given id
func (r *Registry) Get(id string) (Adapter, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a := r.instanceLocked(id)
	return a, a != nil
}

// AdapterFor returns the adapter that owns the element's kind
func (r *Registry) AdapterFor(el domain.Element) (Adapter, bool) {
	if el == nil {
		return nil, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.kinds[el.Kind()]
	if !ok {
		return nil, false
	}
	a := r.instanceLocked(id)
	return a, a != nil
}

// OwnerOf returns the id of the adapter declaring the kind, whether or not it is enabled
func (r *Registry) OwnerOf(kind domain.ElementKind) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.kinds[kind]
	return id, ok
}

// Name returns the declared display name of an adapter, falling back to its id
func (r *Registry) Name(a Adapter) string {
	d, ok := r.Descriptor(a.ID())
	if !ok || d.Name == "" {
		return a.ID()
	}
	return d.Name
}

// Icon returns the declared icon path of an adapter
func (r *Registry) Icon(a Adapter) string {
	d, _ := r.Descriptor(a.ID())
	return d.Icon
}

// Descriptor returns the registered descriptor for an id
func (r *Registry) Descriptor(id string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[id]
	if !ok {
		return Descriptor{}, false
	}
	return e.reg.Descriptor, true
}

// Descriptors returns the metadata of every registered adapter in registration order
func (r *Registry) Descriptors() []Descriptor {
	infos := r.ListAdapters()
	out := make([]Descriptor, 0, len(infos))
	for _, info := range infos {
		out = append(out, info.Descriptor)
	}
	return out
}

// ListAdapters returns information about registered adapters
func (r *Registry) ListAdapters() []AdapterInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]AdapterInfo, 0, len(r.order))
	for _, id := range r.order {
		e := r.entries[id]
		infos = append(infos, AdapterInfo{
			Descriptor: e.reg.Descriptor,
			Enabled:    e.config.Enabled,
		})
	}
	return infos
}

// AdapterInfo provides read-only information about an adapter
type AdapterInfo struct {
	Descriptor
	Enabled bool `json:"enabled"`
}

// instanceLocked builds the adapter on first use. Caller holds r.mu.
func (r *Registry) instanceLocked(id string) Adapter {
	e, ok := r.entries[id]
	if !ok || !e.config.Enabled {
		return nil
	}
	if !e.built {
		e.built = true
		a, err := e.reg.Factory(e.config.Settings)
		switch {
		case err != nil:
			r.log.Warn("failed to instantiate adapter", "id", id, "error", err)
		case a == nil:
			r.log.Warn("adapter factory returned nil", "id", id)
		default:
			e.instance = a
		}
	}
	return e.instance
}
