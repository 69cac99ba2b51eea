package adapter

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"adaptkit/internal/domain"
	"adaptkit/internal/logging"
)

// SubTaskPrefix prefixes the progress label of each top-level unit
const SubTaskPrefix = "Adapting: "

// Unit is the extraction result of one top-level active variant
type Unit struct {
	Variant  *domain.Variant
	Elements []domain.Element
}

// Extractor invokes resolved adapters over the active leaves of a variant tree
type Extractor struct {
	// Workers bounds parallel leaf processing within one unit.
	// Values below 2 keep extraction sequential. Output order is the same either way.
	Workers int

	log *slog.Logger
}

// NewExtractor creates a sequential extractor
func NewExtractor() *Extractor {
	return &Extractor{
		Workers: 1,
		log:     logging.New("extractor"),
	}
}

// Extract returns the elements of the active leaves under v, in traversal order
// and adapter-then-element order within each leaf.
func (e *Extractor) Extract(ctx context.Context, v *domain.Variant, set *Set) []domain.Element {
	if v == nil || !v.Active || set.Len() == 0 {
		return nil
	}
	return e.extractVariant(ctx, v, set.Adapters())
}

// ExtractModel extracts one unit per active root variant of the model.
// Cancellation is checked after each unit; when canceled, the completed units
// are returned and the second result is true.
func (e *Extractor) ExtractModel(ctx context.Context, model *domain.VariantsModel, set *Set, progress Progress) ([]Unit, bool) {
	if progress == nil {
		progress = NopProgress{}
	}
	units := make([]Unit, 0, len(model.Variants))
	adapters := set.Adapters()

	for _, v := range model.Variants {
		if !v.Active {
			continue
		}
		progress.SubTask(SubTaskPrefix + v.Label())

		var elements []domain.Element
		if len(adapters) > 0 {
			elements = e.extractVariant(ctx, v, adapters)
		}
		units = append(units, Unit{Variant: v, Elements: elements})

		progress.Worked(1)
		if progress.IsCanceled() {
			e.log.Info("extraction canceled", "completed_units", len(units))
			return units, true
		}
	}
	return units, false
}

func (e *Extractor) extractVariant(ctx context.Context, v *domain.Variant, adapters []Adapter) []domain.Element {
	if e.Workers > 1 {
		return e.extractParallel(ctx, v, adapters)
	}
	var out []domain.Element
	e.collect(ctx, v, adapters, &out)
	return out
}

func (e *Extractor) collect(ctx context.Context, v *domain.Variant, adapters []Adapter, out *[]domain.Element) {
	if !v.Active {
		return
	}
	if v.IsComposite() {
		for _, child := range v.Children {
			e.collect(ctx, child, adapters, out)
		}
		return
	}
	*out = append(*out, e.extractLeaf(ctx, v, adapters)...)
}

// extractParallel processes the active leaves of v concurrently and
// concatenates the per-leaf results in traversal order.
func (e *Extractor) extractParallel(ctx context.Context, v *domain.Variant, adapters []Adapter) []domain.Element {
	leaves := v.Leaves(true)
	results := make([][]domain.Element, len(leaves))

	var g errgroup.Group
	g.SetLimit(e.Workers)
	for i, leaf := range leaves {
		g.Go(func() error {
			results[i] = e.extractLeaf(ctx, leaf, adapters)
			return nil
		})
	}
	_ = g.Wait()

	var out []domain.Element
	for _, r := range results {
		out = append(out, r...)
	}
	return out
}

func (e *Extractor) extractLeaf(ctx context.Context, leaf *domain.Variant, adapters []Adapter) []domain.Element {
	if leaf.URI == "" {
		e.log.Debug("leaf has no URI", "variant", leaf.Label())
		return nil
	}
	uri, err := ParseURI(leaf.URI)
	if err != nil {
		e.log.Warn("skipping leaf", "variant", leaf.Label(), "error", err)
		return nil
	}

	// Cancellation only takes effect between units, so adapter calls run to completion
	ctx = context.WithoutCancel(ctx)

	var out []domain.Element
	for _, a := range adapters {
		elements, err := a.Extract(ctx, uri)
		if err != nil {
			e.log.Warn("adapter failed", "adapter", a.ID(), "uri", leaf.URI, "error", err)
			continue
		}
		e.log.Debug("extracted", "adapter", a.ID(), "uri", leaf.URI, "elements", len(elements))
		out = append(out, elements...)
	}
	return out
}
