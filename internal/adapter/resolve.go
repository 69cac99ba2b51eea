package adapter

import (
	"log/slog"

	"adaptkit/internal/domain"
	"adaptkit/internal/logging"
)

// Resolver computes the adapters applicable anywhere in a variant tree
type Resolver struct {
	source Source
	log    *slog.Logger

	// LegacyFirstRoot restricts ResolveModel to the first root variant
	LegacyFirstRoot bool
}

// NewResolver creates a resolver over the given adapter source
func NewResolver(source Source) *Resolver {
	return &Resolver{
		source: source,
		log:    logging.New("resolver"),
	}
}

// Resolve returns the adapters applicable to at least one leaf of the subtree,
// in order of first discovery.
func (r *Resolver) Resolve(root *domain.Variant) *Set {
	set := NewSet()
	if root == nil {
		return set
	}
	r.walk(root, r.source.Adapters(), set)
	return set
}

// ResolveModel resolves across every root variant of the model
func (r *Resolver) ResolveModel(model *domain.VariantsModel) *Set {
	set := NewSet()
	if model == nil || len(model.Variants) == 0 {
		return set
	}

	roots := model.Variants
	if r.LegacyFirstRoot {
		roots = roots[:1]
	}

	universe := r.source.Adapters()
	for _, root := range roots {
		r.walk(root, universe, set)
	}
	return set
}

func (r *Resolver) walk(v *domain.Variant, universe []Adapter, set *Set) {
	if set.Len() == len(universe) {
		return
	}

	if v.IsComposite() {
		for _, child := range v.Children {
			r.walk(child, universe, set)
		}
		return
	}

	if v.URI == "" {
		return
	}
	uri, err := ParseURI(v.URI)
	if err != nil {
		r.log.Warn("skipping leaf", "variant", v.Label(), "error", err)
		return
	}

	for _, a := range universe {
		if set.Contains(a) {
			continue
		}
		if a.IsApplicable(uri) {
			r.log.Debug("adapter applicable", "adapter", a.ID(), "uri", v.URI)
			set.Add(a)
		}
	}
}
